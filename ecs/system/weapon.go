package system

import (
	"math"

	"github.com/milk9111/tankcombat/ai"
	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
)

// WeaponSystem slews turrets toward their aim point and arbitrates firing.
type WeaponSystem struct {
	clock *Clock
}

func NewWeaponSystem(clock *Clock) *WeaponSystem {
	return &WeaponSystem{clock: clock}
}

// Actuator returns the aim actuator of tank e.
func (s *WeaponSystem) Actuator(w *ecs.World, e ecs.Entity) ai.AimActuator {
	return &aimActuator{sys: s, w: w, e: e}
}

func (s *WeaponSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	step := s.clock.Dt()
	ecs.ForEach2(w, component.WeaponComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, wp *component.Weapon, t *component.Transform) {
		if !wp.HasTarget {
			return
		}
		diff := aimError(wp, t)
		maxTurn := wp.TurnRate * step
		wp.TurretAngle = wrapAngle(wp.TurretAngle + common.Clamp(diff, -maxTurn, maxTurn))
	})
}

func muzzle(wp *component.Weapon, t *component.Transform) common.Vec3 {
	return t.Location.Add(common.BasisUp(t.Basis).Scale(wp.MuzzleHeight))
}

// aimError is the signed angle from the turret to the target.
func aimError(wp *component.Weapon, t *component.Transform) float64 {
	d := wp.Target.Sub(muzzle(wp, t))
	desired := math.Atan2(d.Z, d.X)
	return wrapAngle(desired - wp.TurretAngle)
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func (s *WeaponSystem) status(w *ecs.World, e ecs.Entity) ai.FiringStatus {
	wp, ok := ecs.Get(w, e, component.WeaponComponent.Kind())
	if !ok || !wp.HasTarget {
		return ai.FiringNoTarget
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return ai.FiringNoTarget
	}
	if elapsed, fired := wp.LastFired.Since(s.clock.Now()); fired && elapsed < wp.ReloadTime {
		return ai.FiringReloading
	}
	if math.Abs(aimError(wp, t)) <= wp.LockTolerance {
		return ai.FiringLocked
	}
	return ai.FiringAiming
}

type aimActuator struct {
	sys *WeaponSystem
	w   *ecs.World
	e   ecs.Entity
}

func (a *aimActuator) AimAt(location common.Vec3) {
	wp, ok := ecs.Get(a.w, a.e, component.WeaponComponent.Kind())
	if !ok {
		return
	}
	wp.Target = location
	wp.HasTarget = true
}

func (a *aimActuator) FiringStatus() ai.FiringStatus {
	return a.sys.status(a.w, a.e)
}

func (a *aimActuator) Fire() bool {
	if a.sys.status(a.w, a.e) != ai.FiringLocked {
		return false
	}
	wp, _ := ecs.Get(a.w, a.e, component.WeaponComponent.Kind())
	t, _ := ecs.Get(a.w, a.e, component.TransformComponent.Kind())

	wp.LastFired = common.At(a.sys.clock.Now())
	wp.ShotsFired++
	a.w.Events().Defer(ecs.Event{
		Type:   EventShotFired,
		Entity: a.e,
		Data: ShotFired{
			Origin: muzzle(wp, t),
			Target: wp.Target,
			Shots:  wp.ShotsFired,
		},
	})
	return true
}

func (a *aimActuator) LaunchSpeed() (float64, bool) {
	wp, ok := ecs.Get(a.w, a.e, component.WeaponComponent.Kind())
	if !ok {
		return 0, false
	}
	return wp.LaunchSpeed, wp.Launchable
}
