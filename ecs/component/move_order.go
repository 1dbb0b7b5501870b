package component

import "github.com/milk9111/tankcombat/common"

// MoveOrder is the last move request for a tank. It stays active until the
// tank arrives, unless ContinuousRepath keeps it alive.
type MoveOrder struct {
	Target           common.Vec3
	AcceptanceRadius float64
	ContinuousRepath bool
	StopOnOverlap    bool
	Active           bool
	Arrived          bool
}

var MoveOrderComponent = NewComponent[MoveOrder]()

// Patrol drives the player tank between waypoints.
type Patrol struct {
	Waypoints []common.Vec3
	Index     int
	Radius    float64
}

var PatrolComponent = NewComponent[Patrol]()
