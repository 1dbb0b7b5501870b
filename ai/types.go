// Package ai implements the per-tick perception and decision loop of enemy tanks.
package ai

import "github.com/milk9111/tankcombat/common"

// Unit is a tank as seen by the decision loop.
type Unit interface {
	Location() common.Vec3
	Velocity() common.Vec3
}

// Env resolves the per-tick collaborators. Any miss skips the tick.
type Env interface {
	ControlledUnit() (Unit, bool)
	PlayerUnit() (Unit, bool)
	Blackboard() *Blackboard
}

type WorldQuery interface {
	// LineOfSight traces from one unit to the other, ignoring from.
	LineOfSight(from, to Unit) bool
}

// MoveActuator drives the unit toward a location asynchronously.
type MoveActuator interface {
	MoveTo(location common.Vec3, acceptanceRadius float64, continuousRepath, stopOnOverlap bool)
}

type FiringStatus int

const (
	FiringNoTarget FiringStatus = iota
	FiringAiming
	FiringReloading
	FiringLocked
)

func (s FiringStatus) String() string {
	switch s {
	case FiringNoTarget:
		return "no_target"
	case FiringAiming:
		return "aiming"
	case FiringReloading:
		return "reloading"
	case FiringLocked:
		return "locked"
	default:
		return "unknown"
	}
}

type AimActuator interface {
	AimAt(location common.Vec3)
	FiringStatus() FiringStatus
	// Fire reports whether the shot was accepted.
	Fire() bool
	// LaunchSpeed returns the projectile speed of the active weapon and whether
	// it is a launched projectile at all.
	LaunchSpeed() (speed float64, launchable bool)
}

// PerceptionContext is rebuilt every tick and never stored.
type PerceptionContext struct {
	Self       Unit
	Player     Unit
	Blackboard *Blackboard
	Now        float64
	DistSq     float64
}
