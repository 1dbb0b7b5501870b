package curve

import (
	"errors"
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tankcombat/logger"
	"github.com/sirupsen/logrus"
)

var ErrScriptNoResult = errors.New("curve: script must assign y")

// Script is a tengo program reading the global x and assigning y, e.g.
//
//	math := import("math")
//	y := math.min(1, x / 5000) * 120
type Script struct {
	mu       sync.Mutex
	name     string
	compiled *tengo.Compiled
	log      logrus.FieldLogger
	warned   bool
}

func NewScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	if err := script.Add("x", 0.0); err != nil {
		return nil, fmt.Errorf("curve: script %s: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("curve: compile %s: %w", name, err)
	}
	s := &Script{name: name, compiled: compiled, log: logger.Log}
	if _, err := s.EvalErr(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) Name() string {
	return s.name
}

// SetLogger replaces the logger runtime failures are reported to.
func (s *Script) SetLogger(log logrus.FieldLogger) {
	s.mu.Lock()
	s.log = logger.Or(log)
	s.mu.Unlock()
}

func (s *Script) EvalErr(x float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.compiled.Set("x", x); err != nil {
		return 0, fmt.Errorf("curve: script %s: %w", s.name, err)
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("curve: run %s: %w", s.name, err)
	}
	if !s.compiled.IsDefined("y") {
		return 0, fmt.Errorf("%w (%s)", ErrScriptNoResult, s.name)
	}
	return s.compiled.Get("y").Float(), nil
}

// Eval returns 0 when the script fails at runtime. The first failure is
// logged as a warning.
func (s *Script) Eval(x float64) float64 {
	y, err := s.EvalErr(x)
	if err == nil {
		return y
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.warned {
		s.warned = true
		s.log.WithError(err).WithFields(logrus.Fields{"script": s.name, "x": x}).Warn("curve: script failed, using 0")
	}
	return 0
}
