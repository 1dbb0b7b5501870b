// Package curve evaluates designer tunable 1D curves.
package curve

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNoKeys = errors.New("curve: at least one key is required")

type Curve interface {
	Eval(x float64) float64
}

type Constant float64

func (c Constant) Eval(float64) float64 {
	return float64(c)
}

type Key struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Keyed interpolates linearly between keys and clamps outside them.
type Keyed struct {
	keys []Key
}

func NewKeyed(keys ...Key) (*Keyed, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	sorted := append([]Key(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return &Keyed{keys: sorted}, nil
}

func MustKeyed(keys ...Key) *Keyed {
	k, err := NewKeyed(keys...)
	if err != nil {
		panic(fmt.Sprintf("curve: %v", err))
	}
	return k
}

func (k *Keyed) Keys() []Key {
	return append([]Key(nil), k.keys...)
}

func (k *Keyed) Eval(x float64) float64 {
	first, last := k.keys[0], k.keys[len(k.keys)-1]
	if x <= first.X {
		return first.Y
	}
	if x >= last.X {
		return last.Y
	}
	i := sort.Search(len(k.keys), func(i int) bool { return k.keys[i].X >= x })
	a, b := k.keys[i-1], k.keys[i]
	if b.X == a.X {
		return b.Y
	}
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y)
}
