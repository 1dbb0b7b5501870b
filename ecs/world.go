package ecs

import (
	"fmt"

	"github.com/milk9111/tankcombat/ecs/component"
)

type kind interface {
	ID() component.ComponentID
	Valid() bool
}

// World owns entities, component stores and the event bus.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	bus      *Bus
}

func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		bus:    NewBus(),
	}
}

func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and retires its handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	return w.entities.destroy(e)
}

func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

func (w *World) Events() *Bus {
	if w == nil {
		return nil
	}
	return w.bus
}

func (w *World) store(k kind, create bool) *SparseSet {
	s := w.stores[k.ID()]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[k.ID()] = s
	}
	return s
}

func (w *World) AddComponent(e Entity, k kind, value any) error {
	if w == nil {
		return component.ErrEntityNotAlive
	}
	if !k.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	w.store(k, true).Set(e.id(), value)
	return nil
}

func (w *World) GetComponent(e Entity, k kind) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v := w.store(k, false).Get(e.id())
	return v, v != nil
}

func (w *World) HasComponent(e Entity, k kind) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(k, false).Has(e.id())
}

func (w *World) RemoveComponent(e Entity, k kind) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(k, false).Remove(e.id())
}

// Query returns the live entities that have every listed component.
func (w *World) Query(kinds ...kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k, false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}

	var out []Entity
	for _, id := range smallest.ids() {
		ok := true
		for _, s := range sets {
			if !s.Has(id) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if e, alive := w.entities.current(id); alive {
			out = append(out, e)
		}
	}
	return out
}

// First returns the entity with the lowest slot id among those having k.
func (w *World) First(k kind) (Entity, bool) {
	ents := w.Query(k)
	if len(ents) == 0 {
		return 0, false
	}
	best := ents[0]
	for _, e := range ents[1:] {
		if e.id() < best.id() {
			best = e
		}
	}
	return best, true
}
