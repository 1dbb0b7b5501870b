package prefabs

import (
	"github.com/milk9111/tankcombat/track"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab file or a world entry. A world entry names a
// Prefab and overrides some of its components.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Prefab     string         `yaml:"prefab"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// MergeComponents returns base with override's components replacing whole
// entries of the same name.
func MergeComponents(base, override EntityBuildSpec) EntityBuildSpec {
	out := EntityBuildSpec{
		Name:       base.Name,
		Prefab:     override.Prefab,
		Components: make(map[string]any, len(base.Components)+len(override.Components)),
	}
	if override.Name != "" {
		out.Name = override.Name
	}
	for k, v := range base.Components {
		out.Components[k] = v
	}
	for k, v := range override.Components {
		out.Components[k] = v
	}
	return out
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var out T
	err := DecodeComponentSpecInto(raw, &out)
	return out, err
}

// DecodeComponentSpecInto decodes onto into, keeping fields raw leaves unset.
func DecodeComponentSpecInto[T any](raw any, into *T) error {
	if raw == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, into)
}

type TankComponentSpec struct {
	MaxDriveForce float64 `yaml:"max_drive_force"`
	MaxSpeed      float64 `yaml:"max_speed"`
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	// Pitch is in degrees.
	Pitch float64 `yaml:"pitch"`
}

type PhysicsBodyComponentSpec struct {
	Length   float64 `yaml:"length"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type WeaponComponentSpec struct {
	// TurnRate and LockTolerance are in degrees.
	TurnRate      float64 `yaml:"turn_rate"`
	LockTolerance float64 `yaml:"lock_tolerance"`
	ReloadTime    float64 `yaml:"reload_time"`
	LaunchSpeed   float64 `yaml:"launch_speed"`
	Launchable    bool    `yaml:"launchable"`
	MuzzleHeight  float64 `yaml:"muzzle_height"`
}

type StuckSpec struct {
	CheckInterval         float64 `yaml:"check_interval"`
	SampleWindow          float64 `yaml:"sample_window"`
	DisplacementThreshold float64 `yaml:"displacement_threshold"`
	ThrottleThreshold     float64 `yaml:"throttle_threshold"`
	ResetThreshold        float64 `yaml:"reset_threshold"`
	BoostMultiplier       float64 `yaml:"boost_multiplier"`
}

type FlipSpec struct {
	TickInterval float64 `yaml:"tick_interval"`
	// AngleThreshold is in degrees.
	AngleThreshold float64 `yaml:"angle_threshold"`
	Duration       float64 `yaml:"duration"`
	SpeedThreshold float64 `yaml:"speed_threshold"`
}

type TrackComponentSpec struct {
	Stuck StuckSpec `yaml:"stuck"`
	Flip  FlipSpec  `yaml:"flip"`
}

func DefaultTrackComponentSpec() TrackComponentSpec {
	s := track.DefaultStuckConfig()
	f := track.DefaultFlipConfig()
	return TrackComponentSpec{
		Stuck: StuckSpec{
			CheckInterval:         s.CheckInterval,
			SampleWindow:          s.SampleWindow,
			DisplacementThreshold: s.DisplacementThreshold,
			ThrottleThreshold:     s.ThrottleThreshold,
			ResetThreshold:        s.ResetThreshold,
			BoostMultiplier:       s.BoostMultiplier,
		},
		Flip: FlipSpec{
			TickInterval:   f.TickInterval,
			AngleThreshold: radToDeg(f.AngleThreshold),
			Duration:       f.Duration,
			SpeedThreshold: f.SpeedThreshold,
		},
	}
}

func (s TrackComponentSpec) Build() (track.StuckConfig, track.FlipConfig, error) {
	stuck := track.StuckConfig{
		CheckInterval:         s.Stuck.CheckInterval,
		SampleWindow:          s.Stuck.SampleWindow,
		DisplacementThreshold: s.Stuck.DisplacementThreshold,
		ThrottleThreshold:     s.Stuck.ThrottleThreshold,
		ResetThreshold:        s.Stuck.ResetThreshold,
		BoostMultiplier:       s.Stuck.BoostMultiplier,
	}
	flip := track.FlipConfig{
		TickInterval:   s.Flip.TickInterval,
		AngleThreshold: degToRad(s.Flip.AngleThreshold),
		Duration:       s.Flip.Duration,
		SpeedThreshold: s.Flip.SpeedThreshold,
	}
	if err := stuck.Validate(); err != nil {
		return stuck, flip, err
	}
	return stuck, flip, flip.Validate()
}

type AIComponentSpec struct {
	// Config names the AI tunables file, ai.yaml by default.
	Config string `yaml:"config"`
}

type PatrolComponentSpec struct {
	Waypoints []Vec3Spec `yaml:"waypoints"`
	Radius    float64    `yaml:"radius"`
}
