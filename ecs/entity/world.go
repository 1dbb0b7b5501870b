package entity

import (
	"fmt"
	"path/filepath"

	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/prefabs"
)

// Level is what BuildWorld created.
type Level struct {
	Name    string
	Seed    int64
	Terrain []ecs.Entity
	Tanks   []ecs.Entity
}

func LoadWorld(w *ecs.World, filename string) (*Level, error) {
	spec, err := prefabs.LoadWorldSpec(filename)
	if err != nil {
		return nil, err
	}
	return BuildWorld(w, spec)
}

// BuildWorld adds terrain and entities. On error everything created so far is
// destroyed.
func BuildWorld(w *ecs.World, spec prefabs.WorldSpec) (*Level, error) {
	if w == nil {
		return nil, fmt.Errorf("build world: world is nil")
	}
	lvl := &Level{Name: spec.Name, Seed: spec.Seed}

	fail := func(err error) (*Level, error) {
		for _, e := range lvl.Terrain {
			ecs.DestroyEntity(w, e)
		}
		for _, e := range lvl.Tanks {
			ecs.DestroyEntity(w, e)
		}
		return nil, err
	}

	for i, seg := range spec.Terrain {
		if seg.A.Vec3 == seg.B.Vec3 {
			return fail(fmt.Errorf("build world: terrain %d is degenerate", i))
		}
		e := ecs.CreateEntity(w)
		lvl.Terrain = append(lvl.Terrain, e)
		if err := ecs.Add(w, e, component.TerrainTagComponent.Kind(), &component.TerrainTag{}); err != nil {
			return fail(err)
		}
		if err := ecs.Add(w, e, component.TerrainSegmentComponent.Kind(), &component.TerrainSegment{
			A:        seg.A.Vec3,
			B:        seg.B.Vec3,
			Radius:   seg.Radius,
			Friction: seg.Friction,
		}); err != nil {
			return fail(err)
		}
	}

	players := 0
	for _, es := range spec.Entities {
		e, err := BuildEntity(w, es)
		if err != nil {
			return fail(fmt.Errorf("build world %q: %w", spec.Name, err))
		}
		lvl.Tanks = append(lvl.Tanks, e)
		if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			players++
		}
	}
	if players > 1 {
		return fail(fmt.Errorf("build world %q: %d player tanks", spec.Name, players))
	}

	return lvl, nil
}

// ReloadAI rebuilds the config of every AI tank that uses file. A changed
// curve script reloads all of them. It returns how many tanks were updated.
func ReloadAI(w *ecs.World, file string) (int, error) {
	base := prefabs.BaseName(file)
	script := prefabs.IsScript(file)

	updated := 0
	var firstErr error
	cache := make(map[string]*component.AI)
	ecs.ForEach(w, component.AIComponent.Kind(), func(_ ecs.Entity, c *component.AI) {
		if !script && filepath.Base(c.ConfigFile) != base {
			return
		}
		if src, ok := cache[c.ConfigFile]; ok {
			c.Config = src.Config
		} else {
			cfg, err := prefabs.LoadAIConfig(c.ConfigFile)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			c.Config = cfg
			cache[c.ConfigFile] = c
		}
		if c.Controller != nil {
			if err := c.Controller.SetConfig(c.Config); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
		}
		updated++
	})
	return updated, firstErr
}
