package system

import (
	"math"

	"github.com/milk9111/tankcombat/ai"
	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/ground"
)

// MovementSystem turns move orders into throttle and drive force. It runs
// after AI and track systems so it sees this frame's orders and boost.
type MovementSystem struct {
	physics *PhysicsSystem
}

func NewMovementSystem(physics *PhysicsSystem) *MovementSystem {
	return &MovementSystem{physics: physics}
}

// Actuator returns the move actuator of tank e.
func (s *MovementSystem) Actuator(w *ecs.World, e ecs.Entity) ai.MoveActuator {
	return &moveActuator{w: w, e: e}
}

type moveActuator struct {
	w *ecs.World
	e ecs.Entity
}

func (m *moveActuator) MoveTo(location common.Vec3, acceptanceRadius float64, continuousRepath, stopOnOverlap bool) {
	order := &component.MoveOrder{
		Target:           location,
		AcceptanceRadius: acceptanceRadius,
		ContinuousRepath: continuousRepath,
		StopOnOverlap:    stopOnOverlap,
		Active:           true,
	}
	if err := ecs.Add(m.w, m.e, component.MoveOrderComponent.Kind(), order); err != nil {
		panic("movement system: add move order: " + err.Error())
	}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.updatePatrols(w)

	ecs.ForEach2(w, component.TankComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tank *component.Tank, t *component.Transform) {
		order, ok := ecs.Get(w, e, component.MoveOrderComponent.Kind())
		if !ok || !order.Active {
			tank.Throttle = 0
			return
		}

		delta := order.Target.X - t.Location.X
		if math.Abs(delta) <= order.AcceptanceRadius {
			tank.Throttle = 0
			order.Arrived = true
			if !order.ContinuousRepath {
				order.Active = false
			}
			return
		}
		order.Arrived = false

		if order.StopOnOverlap && s.blockedAtTarget(e, order, t) {
			tank.Throttle = 0
			return
		}

		forward := common.BasisForward(t.Basis)
		dir := math.Copysign(1, delta)
		if math.Abs(forward.X) > common.Epsilon {
			dir *= math.Copysign(1, forward.X)
		}
		tank.Throttle = dir

		if tank.MaxSpeed > 0 && s.physics.Velocity(e).Len() >= tank.MaxSpeed {
			return
		}
		boost := tank.BoostMultiplier
		if boost <= 0 {
			boost = 1
		}
		s.physics.ApplyDrive(e, forward.Scale(tank.Throttle*tank.MaxDriveForce*boost))
	})
}

func (s *MovementSystem) blockedAtTarget(self ecs.Entity, order *component.MoveOrder, t *component.Transform) bool {
	r := math.Max(order.AcceptanceRadius, 1)
	box := ground.BoxAround(common.V3(order.Target.X, t.Location.Y, order.Target.Z), common.V3(r, 0, r))
	for _, other := range s.physics.SweepOverlap(box) {
		if other != self {
			return true
		}
	}
	return false
}

func (s *MovementSystem) updatePatrols(w *ecs.World) {
	ecs.ForEach(w, component.PatrolComponent.Kind(), func(e ecs.Entity, p *component.Patrol) {
		if len(p.Waypoints) == 0 {
			return
		}
		order, ok := ecs.Get(w, e, component.MoveOrderComponent.Kind())
		if ok && order.Active && !order.Arrived {
			return
		}
		if ok && order.Arrived {
			p.Index = (p.Index + 1) % len(p.Waypoints)
		}
		(&moveActuator{w: w, e: e}).MoveTo(p.Waypoints[p.Index], p.Radius, false, false)
	})
}
