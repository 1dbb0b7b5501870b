package component

import "github.com/milk9111/tankcombat/common"

type Weapon struct {
	// TurnRate is in radians per second.
	TurnRate float64
	// LockTolerance is the largest aim error, in radians, that still counts as locked.
	LockTolerance float64
	ReloadTime    float64
	LaunchSpeed   float64
	Launchable    bool
	MuzzleHeight  float64

	// TurretAngle is the world pitch of the barrel.
	TurretAngle float64
	Target      common.Vec3
	HasTarget   bool
	LastFired   common.OptTime
	ShotsFired  int
}

var WeaponComponent = NewComponent[Weapon]()
