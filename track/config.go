// Package track detects immobilized or flipped drivetrains and snaps them back
// onto the ground.
package track

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWindow = errors.New("track: invalid sampling window")
	ErrInvalidConfig = errors.New("track: invalid config")
)

type StuckConfig struct {
	// CheckInterval is the minimum time between samples. Negative disables
	// stuck detection for the unit.
	CheckInterval float64
	// SampleWindow is the history length in seconds. Buffer capacity is
	// ceil(SampleWindow / CheckInterval).
	SampleWindow float64

	DisplacementThreshold float64
	ThrottleThreshold     float64

	// ResetThreshold is how long a unit must stay stuck before it is teleported.
	ResetThreshold float64
	// BoostMultiplier scales drive force while stuck.
	BoostMultiplier float64
}

func DefaultStuckConfig() StuckConfig {
	return StuckConfig{
		CheckInterval:         0.25,
		SampleWindow:          1,
		DisplacementThreshold: 50,
		ThrottleThreshold:     0.1,
		ResetThreshold:        3,
		BoostMultiplier:       2,
	}
}

func (c StuckConfig) Disabled() bool {
	return c.CheckInterval < 0
}

func (c StuckConfig) Validate() error {
	if c.Disabled() {
		return nil
	}
	switch {
	case c.CheckInterval == 0:
		return fmt.Errorf("%w: check interval must be positive or negative to disable", ErrInvalidWindow)
	case c.SampleWindow <= 0:
		return fmt.Errorf("%w: sample window %v", ErrInvalidWindow, c.SampleWindow)
	case c.DisplacementThreshold < 0 || c.ThrottleThreshold < 0:
		return fmt.Errorf("%w: negative stuck thresholds", ErrInvalidConfig)
	case c.ResetThreshold < 0:
		return fmt.Errorf("%w: negative reset threshold %v", ErrInvalidConfig, c.ResetThreshold)
	case c.BoostMultiplier < 1:
		return fmt.Errorf("%w: boost multiplier %v below 1", ErrInvalidConfig, c.BoostMultiplier)
	}
	return nil
}

type FlipConfig struct {
	TickInterval float64
	// AngleThreshold is in radians.
	AngleThreshold float64
	Duration       float64
	SpeedThreshold float64
}

func DefaultFlipConfig() FlipConfig {
	return FlipConfig{
		TickInterval:   0.5,
		AngleThreshold: 1.4,
		Duration:       2,
		SpeedThreshold: 40,
	}
}

func (c FlipConfig) Validate() error {
	switch {
	case c.TickInterval < 0:
		return fmt.Errorf("%w: negative flip tick interval %v", ErrInvalidConfig, c.TickInterval)
	case c.AngleThreshold <= 0:
		return fmt.Errorf("%w: flip angle threshold must be positive, got %v", ErrInvalidConfig, c.AngleThreshold)
	case c.Duration < 0 || c.SpeedThreshold < 0:
		return fmt.Errorf("%w: negative flip duration or speed", ErrInvalidConfig)
	}
	return nil
}
