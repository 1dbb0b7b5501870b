package ai

import (
	"errors"
	"fmt"

	"github.com/milk9111/tankcombat/curve"
)

var ErrInvalidConfig = errors.New("ai: invalid config")

type Config struct {
	// StartDelay is the grace period after world start before any AI acts.
	StartDelay float64

	MaxAggroDistance   float64
	MaxInfaredDistance float64

	// ReactionTime is the delay between first direct perception and acting.
	ReactionTime float64

	ReportedPositionMinDelay float64
	ReportedPositionMaxDelay float64

	// MinMoveDistance suppresses move requests while line of sight holds and
	// the player is closer than this.
	MinMoveDistance  float64
	AcceptanceRadius float64

	TargetingErrorResetTime    float64
	TargetingErrorByDistance   curve.Curve
	TargetingErrorByShotsFired curve.Curve

	PredictiveAimSpeedThreshold float64
}

func DefaultConfig() Config {
	return Config{
		StartDelay:                  2,
		MaxAggroDistance:            6000,
		MaxInfaredDistance:          1200,
		ReactionTime:                0.6,
		ReportedPositionMinDelay:    1,
		ReportedPositionMaxDelay:    3,
		MinMoveDistance:             900,
		AcceptanceRadius:            150,
		TargetingErrorResetTime:     1.5,
		TargetingErrorByDistance:    curve.MustKeyed(curve.Key{X: 0, Y: 20}, curve.Key{X: 6000, Y: 250}),
		TargetingErrorByShotsFired:  curve.MustKeyed(curve.Key{X: 0, Y: 1.5}, curve.Key{X: 5, Y: 0.5}),
		PredictiveAimSpeedThreshold: 50,
	}
}

func (c Config) Validate() error {
	switch {
	case c.StartDelay < 0:
		return fmt.Errorf("%w: negative start delay %v", ErrInvalidConfig, c.StartDelay)
	case c.MaxAggroDistance <= 0:
		return fmt.Errorf("%w: aggro distance must be positive, got %v", ErrInvalidConfig, c.MaxAggroDistance)
	case c.MaxInfaredDistance < 0:
		return fmt.Errorf("%w: negative infared distance %v", ErrInvalidConfig, c.MaxInfaredDistance)
	case c.ReactionTime < 0:
		return fmt.Errorf("%w: negative reaction time %v", ErrInvalidConfig, c.ReactionTime)
	case c.ReportedPositionMinDelay < 0 || c.ReportedPositionMaxDelay < c.ReportedPositionMinDelay:
		return fmt.Errorf("%w: reported position delay range [%v, %v]", ErrInvalidConfig, c.ReportedPositionMinDelay, c.ReportedPositionMaxDelay)
	case c.MinMoveDistance < 0 || c.AcceptanceRadius < 0:
		return fmt.Errorf("%w: negative move distances", ErrInvalidConfig)
	case c.TargetingErrorResetTime < 0:
		return fmt.Errorf("%w: negative targeting error reset time %v", ErrInvalidConfig, c.TargetingErrorResetTime)
	}
	return nil
}
