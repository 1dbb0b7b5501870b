package prefabs

import (
	"errors"
	"fmt"

	"github.com/milk9111/tankcombat/ai"
	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/curve"
	"gopkg.in/yaml.v3"
)

var ErrAmbiguousCurve = errors.New("prefabs: curve sets more than one of keys, script and constant")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3Spec accepts either a sequence [x, y, z] / [x, z] or a mapping
// {x, y, z}.
type Vec3Spec struct {
	common.Vec3
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		switch len(xs) {
		case 2:
			v.Vec3 = common.V3(xs[0], 0, xs[1])
		case 3:
			v.Vec3 = common.V3(xs[0], xs[1], xs[2])
		default:
			return fmt.Errorf("vector must have 2 or 3 components, got %d", len(xs))
		}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		v.Vec3 = common.V3(m.X, m.Y, m.Z)
		return nil
	default:
		return fmt.Errorf("vector must be a sequence or mapping")
	}
}

// CurveSpec holds exactly one of keyframes, a script file under scripts/, or
// a constant. An empty spec means no curve.
type CurveSpec struct {
	Keys     []curve.Key `yaml:"keys"`
	Script   string      `yaml:"script"`
	Constant *float64    `yaml:"constant"`
}

func (c CurveSpec) IsZero() bool {
	return len(c.Keys) == 0 && c.Script == "" && c.Constant == nil
}

func (c CurveSpec) Build() (curve.Curve, error) {
	set := 0
	if len(c.Keys) > 0 {
		set++
	}
	if c.Script != "" {
		set++
	}
	if c.Constant != nil {
		set++
	}
	switch {
	case set == 0:
		return nil, nil
	case set > 1:
		return nil, ErrAmbiguousCurve
	case c.Constant != nil:
		return curve.Constant(*c.Constant), nil
	case c.Script != "":
		src, err := LoadScript(c.Script)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load script %s: %w", c.Script, err)
		}
		script, err := curve.NewScript(c.Script, src)
		if err != nil {
			return nil, err
		}
		return script, nil
	default:
		keyed, err := curve.NewKeyed(c.Keys...)
		if err != nil {
			return nil, err
		}
		return keyed, nil
	}
}

type DelayRangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type TargetingErrorSpec struct {
	ResetTime    float64   `yaml:"reset_time"`
	ByDistance   CurveSpec `yaml:"by_distance"`
	ByShotsFired CurveSpec `yaml:"by_shots_fired"`
}

type AISpec struct {
	StartDelay                  float64            `yaml:"start_delay"`
	MaxAggroDistance            float64            `yaml:"max_aggro_distance"`
	MaxInfaredDistance          float64            `yaml:"max_infared_distance"`
	ReactionTime                float64            `yaml:"reaction_time"`
	ReportedPositionDelay       DelayRangeSpec     `yaml:"reported_position_delay"`
	MinMoveDistance             float64            `yaml:"min_move_distance"`
	AcceptanceRadius            float64            `yaml:"acceptance_radius"`
	TargetingError              TargetingErrorSpec `yaml:"targeting_error"`
	PredictiveAimSpeedThreshold float64            `yaml:"predictive_aim_speed_threshold"`
}

func LoadAISpec(filename string) (AISpec, error) {
	return LoadSpec[AISpec](filename)
}

// Build compiles curves and validates the result.
func (s AISpec) Build() (ai.Config, error) {
	byDistance, err := s.TargetingError.ByDistance.Build()
	if err != nil {
		return ai.Config{}, fmt.Errorf("prefabs: targeting_error.by_distance: %w", err)
	}
	byShots, err := s.TargetingError.ByShotsFired.Build()
	if err != nil {
		return ai.Config{}, fmt.Errorf("prefabs: targeting_error.by_shots_fired: %w", err)
	}

	cfg := ai.Config{
		StartDelay:                  s.StartDelay,
		MaxAggroDistance:            s.MaxAggroDistance,
		MaxInfaredDistance:          s.MaxInfaredDistance,
		ReactionTime:                s.ReactionTime,
		ReportedPositionMinDelay:    s.ReportedPositionDelay.Min,
		ReportedPositionMaxDelay:    s.ReportedPositionDelay.Max,
		MinMoveDistance:             s.MinMoveDistance,
		AcceptanceRadius:            s.AcceptanceRadius,
		TargetingErrorResetTime:     s.TargetingError.ResetTime,
		TargetingErrorByDistance:    byDistance,
		TargetingErrorByShotsFired:  byShots,
		PredictiveAimSpeedThreshold: s.PredictiveAimSpeedThreshold,
	}
	if err := cfg.Validate(); err != nil {
		return ai.Config{}, fmt.Errorf("prefabs: ai spec: %w", err)
	}
	return cfg, nil
}

// LoadAIConfig loads and builds an AI tunables file.
func LoadAIConfig(filename string) (ai.Config, error) {
	spec, err := LoadAISpec(filename)
	if err != nil {
		return ai.Config{}, err
	}
	return spec.Build()
}

type SegmentSpec struct {
	A        Vec3Spec `yaml:"a"`
	B        Vec3Spec `yaml:"b"`
	Radius   float64  `yaml:"radius"`
	Friction float64  `yaml:"friction"`
}

type WorldSpec struct {
	Name     string            `yaml:"name"`
	Seed     int64             `yaml:"seed"`
	Terrain  []SegmentSpec     `yaml:"terrain"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

func LoadWorldSpec(filename string) (WorldSpec, error) {
	spec, err := LoadSpec[WorldSpec](filename)
	if err != nil {
		return WorldSpec{}, err
	}
	if len(spec.Terrain) == 0 {
		return WorldSpec{}, fmt.Errorf("prefabs: world %s has no terrain", filename)
	}
	return spec, nil
}
