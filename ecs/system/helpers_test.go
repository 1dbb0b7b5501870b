package system

import (
	"testing"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
)

const (
	testTankLength = 100.0
	testTankHeight = 40.0
)

func addTerrain(t *testing.T, w *ecs.World, a, b common.Vec3) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TerrainTagComponent.Kind(), &component.TerrainTag{}); err != nil {
		t.Fatalf("add terrain tag: %v", err)
	}
	if err := ecs.Add(w, e, component.TerrainSegmentComponent.Kind(), &component.TerrainSegment{A: a, B: b, Friction: 0.9}); err != nil {
		t.Fatalf("add terrain: %v", err)
	}
	return e
}

func addFlatGround(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	return addTerrain(t, w, common.V3(-5000, 0, 0), common.V3(5000, 0, 0))
}

// addTank creates a tank resting on flat ground when z is half its height.
func addTank(t *testing.T, w *ecs.World, name string, loc common.Vec3, pitch float64) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	add := func(err error) {
		if err != nil {
			t.Fatalf("add %s component: %v", name, err)
		}
	}
	add(ecs.Add(w, e, component.TankComponent.Kind(), &component.Tank{
		Name:            name,
		MaxDriveForce:   5000,
		MaxSpeed:        400,
		BoostMultiplier: 1,
	}))
	add(ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(loc, pitch)))
	add(ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Length:   testTankLength,
		Height:   testTankHeight,
		Mass:     10,
		Friction: 0.8,
	}))
	add(ecs.Add(w, e, component.WeaponComponent.Kind(), &component.Weapon{
		TurnRate:      1,
		LockTolerance: 0.05,
		ReloadTime:    2,
		LaunchSpeed:   3000,
		Launchable:    true,
		MuzzleHeight:  10,
	}))
	return e
}

func collect(w *ecs.World, eventType string) *[]ecs.Event {
	var got []ecs.Event
	w.Events().Subscribe(eventType, func(evt ecs.Event) {
		got = append(got, evt)
	})
	return &got
}
