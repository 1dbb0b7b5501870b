// Package ringbuffer provides a fixed-capacity sliding window over samples.
package ringbuffer

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidCapacity = errors.New("ringbuffer: capacity must be positive")
	ErrInvalidWindow   = errors.New("ringbuffer: window and sample interval must be positive")
)

// Sample is the arithmetic a buffered value needs for Sum, Average and Delta.
type Sample[T any] interface {
	Add(T) T
	Sub(T) T
	Div(n int) T
}

// Float is a scalar sample.
type Float float64

func (f Float) Add(o Float) Float { return f + o }
func (f Float) Sub(o Float) Float { return f - o }

func (f Float) Div(n int) Float {
	if n == 0 {
		return 0
	}
	return f / Float(n)
}

// Buffer overwrites its oldest sample once full. It is not safe for concurrent use.
type Buffer[T Sample[T]] struct {
	data    []T
	written uint64
}

func New[T Sample[T]](capacity int) (*Buffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer[T]{data: make([]T, capacity)}, nil
}

func MustNew[T Sample[T]](capacity int) *Buffer[T] {
	b, err := New[T](capacity)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// CapacityForWindow returns ceil(window / interval).
func CapacityForWindow(windowSeconds, intervalSeconds float64) (int, error) {
	if windowSeconds <= 0 || intervalSeconds <= 0 || math.IsNaN(windowSeconds) || math.IsNaN(intervalSeconds) {
		return 0, fmt.Errorf("%w: window=%v interval=%v", ErrInvalidWindow, windowSeconds, intervalSeconds)
	}
	return int(math.Ceil(windowSeconds / intervalSeconds)), nil
}

func NewForWindow[T Sample[T]](windowSeconds, intervalSeconds float64) (*Buffer[T], error) {
	n, err := CapacityForWindow(windowSeconds, intervalSeconds)
	if err != nil {
		return nil, err
	}
	return New[T](n)
}

func (b *Buffer[T]) Capacity() int {
	return len(b.data)
}

func (b *Buffer[T]) Push(sample T) {
	b.data[b.written%uint64(len(b.data))] = sample
	b.written++
}

// Len is the number of valid samples, min(pushes, capacity).
func (b *Buffer[T]) Len() int {
	if b.written >= uint64(len(b.data)) {
		return len(b.data)
	}
	return int(b.written)
}

func (b *Buffer[T]) IsFull() bool {
	return b.written >= uint64(len(b.data))
}

func (b *Buffer[T]) oldest() int {
	if !b.IsFull() {
		return 0
	}
	return int(b.written % uint64(len(b.data)))
}

func (b *Buffer[T]) newest() int {
	return int((b.written - 1) % uint64(len(b.data)))
}

func (b *Buffer[T]) Sum() T {
	var sum T
	for i := 0; i < b.Len(); i++ {
		sum = sum.Add(b.data[i])
	}
	return sum
}

func (b *Buffer[T]) Average() T {
	n := b.Len()
	if n == 0 {
		var zero T
		return zero
	}
	return b.Sum().Div(n)
}

// Delta is the most recent sample minus the oldest valid one.
func (b *Buffer[T]) Delta() T {
	if b.written == 0 {
		var zero T
		return zero
	}
	return b.data[b.newest()].Sub(b.data[b.oldest()])
}

// IsNearZero reports magnitude(Sum()) <= threshold. A nil magnitude uses the
// absolute value for Float and Len() for vector types.
func (b *Buffer[T]) IsNearZero(threshold float64, magnitude func(T) float64) bool {
	if magnitude == nil {
		magnitude = DefaultMagnitude[T]
	}
	return magnitude(b.Sum()) <= threshold
}

// DefaultMagnitude panics for sample types that are neither Float nor expose Len.
func DefaultMagnitude[T any](v T) float64 {
	switch s := any(v).(type) {
	case Float:
		return math.Abs(float64(s))
	case interface{ Len() float64 }:
		return s.Len()
	default:
		panic(fmt.Sprintf("ringbuffer: no default magnitude for %T", v))
	}
}

// Values returns the valid samples from oldest to newest.
func (b *Buffer[T]) Values() []T {
	n := b.Len()
	out := make([]T, 0, n)
	start := b.oldest()
	for i := 0; i < n; i++ {
		out = append(out, b.data[(start+i)%len(b.data)])
	}
	return out
}

func (b *Buffer[T]) Clear() {
	b.written = 0
}

// Resize reallocates storage and drops every sample.
func (b *Buffer[T]) Resize(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	b.data = make([]T, capacity)
	b.written = 0
	return nil
}
