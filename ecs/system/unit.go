package system

import (
	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/ground"
	"golang.org/x/image/math/f64"
)

// tankUnit views a tank entity as an ai.Unit, a ground.Actor and a
// track.Drivetrain. It reads live component data on every call.
type tankUnit struct {
	w       *ecs.World
	e       ecs.Entity
	physics *PhysicsSystem
}

func newTankUnit(w *ecs.World, e ecs.Entity, physics *PhysicsSystem) *tankUnit {
	return &tankUnit{w: w, e: e, physics: physics}
}

func (u *tankUnit) Entity() ecs.Entity {
	return u.e
}

func (u *tankUnit) Location() common.Vec3 {
	if t, ok := ecs.Get(u.w, u.e, component.TransformComponent.Kind()); ok {
		return t.Location
	}
	return common.Zero3
}

func (u *tankUnit) Velocity() common.Vec3 {
	return u.physics.Velocity(u.e)
}

func (u *tankUnit) Basis() f64.Mat3 {
	if t, ok := ecs.Get(u.w, u.e, component.TransformComponent.Kind()); ok {
		return t.Basis
	}
	return common.IdentityBasis()
}

func (u *tankUnit) SetPose(location common.Vec3, basis f64.Mat3) {
	u.physics.SetPose(u.w, u.e, location, basis)
}

func (u *tankUnit) Bounds() (ground.Box, bool) {
	return u.physics.Bounds(u.e, u.Location().Y)
}

func (u *tankUnit) LocalBounds() []ground.Box {
	pb, ok := ecs.Get(u.w, u.e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return nil
	}
	return []ground.Box{ground.BoxAround(common.Zero3, common.V3(pb.Length/2, 0, pb.Height/2))}
}

func (u *tankUnit) Throttle() float64 {
	if tank, ok := ecs.Get(u.w, u.e, component.TankComponent.Kind()); ok {
		return tank.Throttle
	}
	return 0
}
