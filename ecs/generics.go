package ecs

import (
	"fmt"

	"github.com/milk9111/tankcombat/ecs/component"
)

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}

// Add stores value for e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, k component.ComponentKind[T], value *T) error {
	if value == nil {
		return fmt.Errorf("%w: %s", component.ErrNilComponent, k.Name())
	}
	return w.AddComponent(e, k, value)
}

func Remove[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	return w.RemoveComponent(e, k)
}

func Has[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	return w.HasComponent(e, k)
}

func Get[T any](w *World, e Entity, k component.ComponentKind[T]) (*T, bool) {
	value, ok := w.GetComponent(e, k)
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok
}

func First[T any](w *World, k component.ComponentKind[T]) (Entity, bool) {
	return w.First(k)
}

// MustGet panics when e lacks the component.
func MustGet[T any](w *World, e Entity, k component.ComponentKind[T]) *T {
	v, ok := Get(w, e, k)
	if !ok {
		panic("ecs: missing component on entity " + e.String())
	}
	return v
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range w.Query(ka) {
		a, ok := Get(w, e, ka)
		if ok {
			fn(e, a)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(ka, kb, kc, kd) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		d, okD := Get(w, e, kd)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}
