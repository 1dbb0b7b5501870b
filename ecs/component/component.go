// Package component holds the data attached to tank entities and the typed
// kinds used to look it up in an ecs.World.
package component

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	// ErrEntityNotAlive is returned for destroyed entities and for stale
	// handles whose slot has since been reused by a newer generation.
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a world's component stores. Zero is never issued.
type ComponentID uint32

var lastComponentID atomic.Uint32

// ComponentKind is a typed key for one component store. Kinds are process
// wide, so every world shares the same ids.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(lastComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

// Valid is false for the zero kind.
func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// Name is the Go type stored under k, for error messages.
func (k ComponentKind[T]) Name() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// ComponentHandle is declared once per component type as a package variable.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
