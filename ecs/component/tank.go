package component

type Tank struct {
	Name string
	// Throttle is the drive input in [-1, 1] along the hull forward axis.
	Throttle      float64
	MaxDriveForce float64
	MaxSpeed      float64
	// BoostMultiplier scales drive force. Written by the track system.
	BoostMultiplier float64
}

var TankComponent = NewComponent[Tank]()
