package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/prefabs"
)

// maxPrefabDepth bounds prefab inheritance chains.
const maxPrefabDepth = 8

var ErrPrefabCycle = errors.New("build entity: prefab chain too deep or cyclic")

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	Name string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":   addPlayerTag,
	"ai_tag":       addAITag,
	"tank":         addTank,
	"transform":    addTransform,
	"physics_body": addPhysicsBody,
	"weapon":       addWeapon,
	"track":        addTrack,
	"ai":           addAI,
	"patrol":       addPatrol,
}

var componentBuildOrder = []string{
	"player_tag",
	"ai_tag",
	"tank",
	"transform",
	"physics_body",
	"weapon",
	"track",
	"ai",
	"patrol",
}

// ResolvePrefab follows spec's prefab chain and returns the merged spec.
func ResolvePrefab(spec entityPrefabSpec) (entityPrefabSpec, error) {
	resolved := spec
	for depth := 0; resolved.Prefab != ""; depth++ {
		if depth >= maxPrefabDepth {
			return entityPrefabSpec{}, fmt.Errorf("%w: %q", ErrPrefabCycle, spec.Prefab)
		}
		base, err := prefabs.LoadEntityBuildSpec(resolved.Prefab)
		if err != nil {
			return entityPrefabSpec{}, fmt.Errorf("build entity: load %q: %w", resolved.Prefab, err)
		}
		merged := prefabs.MergeComponents(base, resolved)
		merged.Prefab = base.Prefab
		resolved = merged
	}
	return resolved, nil
}

// BuildPrefab builds an entity straight from a prefab file.
func BuildPrefab(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return BuildEntity(w, entityPrefabSpec{Prefab: prefabPath})
}

func BuildEntity(w *ecs.World, spec entityPrefabSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := ResolvePrefab(spec)
	if err != nil {
		return 0, err
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: %q does not define components", spec.Name)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{Name: spec.Name}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", spec.Name, names[0])
	}

	return e, nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addAITag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AITagComponent.Kind(), &component.AITag{})
}

func addTank(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TankComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tank spec: %w", err)
	}
	if spec.MaxDriveForce <= 0 {
		return fmt.Errorf("tank max_drive_force must be positive")
	}
	return ecs.Add(w, e, component.TankComponent.Kind(), &component.Tank{
		Name:            ctx.Name,
		MaxDriveForce:   spec.MaxDriveForce,
		MaxSpeed:        spec.MaxSpeed,
		BoostMultiplier: 1,
	})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(),
		component.NewTransform(common.V3(spec.X, spec.Y, spec.Z), prefabs.DegToRad(spec.Pitch)))
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.Length < 0 || spec.Height < 0 || spec.Mass < 0 {
		return fmt.Errorf("physics body dimensions must not be negative")
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Length:   spec.Length,
		Height:   spec.Height,
		Mass:     spec.Mass,
		Friction: spec.Friction,
	})
}

func addWeapon(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.WeaponComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode weapon spec: %w", err)
	}
	return ecs.Add(w, e, component.WeaponComponent.Kind(), &component.Weapon{
		TurnRate:      prefabs.DegToRad(spec.TurnRate),
		LockTolerance: prefabs.DegToRad(spec.LockTolerance),
		ReloadTime:    spec.ReloadTime,
		LaunchSpeed:   spec.LaunchSpeed,
		Launchable:    spec.Launchable,
		MuzzleHeight:  spec.MuzzleHeight,
	})
}

func addTrack(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec := prefabs.DefaultTrackComponentSpec()
	if err := prefabs.DecodeComponentSpecInto(raw, &spec); err != nil {
		return fmt.Errorf("decode track spec: %w", err)
	}
	stuck, flip, err := spec.Build()
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TrackComponent.Kind(), &component.Track{Stuck: stuck, Flip: flip})
}

func addAI(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AIComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ai spec: %w", err)
	}
	if spec.Config == "" {
		spec.Config = "ai.yaml"
	}
	cfg, err := prefabs.LoadAIConfig(spec.Config)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.AIComponent.Kind(), &component.AI{ConfigFile: spec.Config, Config: cfg})
}

func addPatrol(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PatrolComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode patrol spec: %w", err)
	}
	if len(spec.Waypoints) == 0 {
		return fmt.Errorf("patrol needs at least one waypoint")
	}
	points := make([]common.Vec3, len(spec.Waypoints))
	for i, p := range spec.Waypoints {
		points[i] = p.Vec3
	}
	return ecs.Add(w, e, component.PatrolComponent.Kind(), &component.Patrol{Waypoints: points, Radius: spec.Radius})
}
