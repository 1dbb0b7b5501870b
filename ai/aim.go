package ai

import "github.com/milk9111/tankcombat/common"

// LeadOffset is the straight-line intercept lead: velocity * (distance / launchSpeed).
// It ignores gravity and is zero for non-launchable weapons or slow targets.
func LeadOffset(velocity common.Vec3, distance, launchSpeed float64, launchable bool, speedThreshold float64) common.Vec3 {
	if !launchable || launchSpeed <= 0 {
		return common.Zero3
	}
	if velocity.Len() <= speedThreshold {
		return common.Zero3
	}
	return velocity.Scale(distance / launchSpeed)
}

// AimPoint is the player location plus lead plus targeting error.
func AimPoint(playerLocation, playerVelocity common.Vec3, distance, launchSpeed float64, launchable bool, speedThreshold float64, targetingError common.Vec3) common.Vec3 {
	lead := LeadOffset(playerVelocity, distance, launchSpeed, launchable, speedThreshold)
	return playerLocation.Add(lead).Add(targetingError)
}
