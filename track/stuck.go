package track

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ground"
	"github.com/milk9111/tankcombat/logger"
	"github.com/milk9111/tankcombat/ringbuffer"
	"github.com/sirupsen/logrus"
)

// Drivetrain is a unit that can be sampled and teleported.
type Drivetrain interface {
	ground.Actor
	// Throttle is the commanded drive input in [-1, 1].
	Throttle() float64
}

type Deps struct {
	Name   string
	Prober *ground.Prober
	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

// StuckDetector samples throttle and position at a bounded rate and
// teleports the unit when it makes no progress despite throttle.
type StuckDetector struct {
	cfg    StuckConfig
	unit   Drivetrain
	prober *ground.Prober
	rng    *rand.Rand
	log    logrus.FieldLogger

	throttle *ringbuffer.Buffer[ringbuffer.Float]
	position *ringbuffer.Buffer[common.Vec3]

	lastCheck common.OptTime
	lastStuck common.OptTime
	stuck     bool
	boost     bool
	resets    int
}

func NewStuckDetector(cfg StuckConfig, unit Drivetrain, deps Deps) (*StuckDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: stuck detector %q has no unit", ErrInvalidConfig, deps.Name)
	}
	d := &StuckDetector{
		cfg:    cfg,
		unit:   unit,
		prober: deps.Prober,
		rng:    deps.Rand,
		log:    logger.Or(deps.Logger).WithField("track", deps.Name),
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Disabled() {
		return d, nil
	}

	var err error
	d.throttle, err = ringbuffer.NewForWindow[ringbuffer.Float](cfg.SampleWindow, cfg.CheckInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	d.position, err = ringbuffer.NewForWindow[common.Vec3](cfg.SampleWindow, cfg.CheckInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	return d, nil
}

func MustStuckDetector(cfg StuckConfig, unit Drivetrain, deps Deps) *StuckDetector {
	d, err := NewStuckDetector(cfg, unit, deps)
	if err != nil {
		panic("track: new stuck detector: " + err.Error())
	}
	return d
}

// Update runs one check if CheckInterval has passed since the last one.
func (d *StuckDetector) Update(now float64) Event {
	if d.cfg.Disabled() {
		return EventNone
	}
	if elapsed, ok := d.lastCheck.Since(now); ok && elapsed < d.cfg.CheckInterval {
		return EventNone
	}
	d.lastCheck = common.At(now)

	d.throttle.Push(ringbuffer.Float(d.unit.Throttle()))
	d.position.Push(d.unit.Location())

	stuck := d.IsStuck()
	wasStuck := d.stuck
	d.stuck = stuck

	if !stuck {
		if !wasStuck {
			return EventNone
		}
		d.boost = false
		d.lastStuck = common.OptTime{}
		d.log.Debug("track: recovered")
		return EventRecovered
	}

	ev := EventBoost
	if !wasStuck {
		d.lastStuck = common.At(now)
		ev = EventStuck
		d.log.WithField("time", now).Debug("track: stuck")
	}

	if elapsed, _ := d.lastStuck.Since(now); elapsed > d.cfg.ResetThreshold {
		if d.reset() {
			return EventReset
		}
		d.boost = true
		return EventResetFailed
	}

	d.boost = true
	return ev
}

// IsStuck is false until both buffers are full, false while the unit is
// still displacing, false while throttle is idle, true otherwise.
func (d *StuckDetector) IsStuck() bool {
	if d.throttle == nil || !d.throttle.IsFull() || !d.position.IsFull() {
		return false
	}
	if d.position.Delta().Len() > d.cfg.DisplacementThreshold {
		return false
	}
	if ringbuffer.DefaultMagnitude(d.throttle.Average()) < d.cfg.ThrottleThreshold {
		return false
	}
	return true
}

func (d *StuckDetector) reset() bool {
	data, halfHeight, ok := d.prober.FindResetGround(d.unit, d.rng)
	if !ok {
		d.log.WithField("location", d.unit.Location()).Warn("track: no ground for reset, retrying next check")
		return false
	}
	ground.ResetActorToGround(data, d.unit, halfHeight)

	d.throttle.Clear()
	d.position.Clear()
	d.lastStuck = common.OptTime{}
	d.stuck = false
	d.boost = false
	d.resets++

	d.log.WithFields(logrus.Fields{
		"location": data.Location,
		"resets":   d.resets,
	}).Info("track: reset to ground")
	return true
}

// BoostActive reports whether the drive force multiplier currently applies.
func (d *StuckDetector) BoostActive() bool {
	return d.boost
}

func (d *StuckDetector) DriveForceMultiplier() float64 {
	if d.boost {
		return d.cfg.BoostMultiplier
	}
	return 1
}

func (d *StuckDetector) Resets() int {
	return d.resets
}

// LastStuckTime is -1 when the unit is not stuck.
func (d *StuckDetector) LastStuckTime() float64 {
	return d.lastStuck.Seconds()
}

// Samples returns the buffered throttles and positions, oldest first.
func (d *StuckDetector) Samples() ([]ringbuffer.Float, []common.Vec3) {
	if d.throttle == nil {
		return nil, nil
	}
	return d.throttle.Values(), d.position.Values()
}

func (d *StuckDetector) Config() StuckConfig {
	return d.cfg
}
