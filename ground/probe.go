// Package ground turns world positions and unit bounds into ground contact data
// and safe reset poses.
package ground

import (
	"math/rand"

	"github.com/milk9111/tankcombat/common"
	"golang.org/x/image/math/f64"
)

const (
	DefaultUpOffset   = 200.0
	DefaultDownOffset = 2000.0
)

// Data is the contact point and surface normal of a ground hit.
type Data struct {
	Location common.Vec3
	Normal   common.Vec3
}

// Raycaster casts a segment against walkable ground only.
type Raycaster interface {
	RaycastGround(from, to common.Vec3) (Data, bool)
}

// Actor is what the ground utilities need from a unit.
type Actor interface {
	Location() common.Vec3
	Basis() f64.Mat3
	SetPose(location common.Vec3, basis f64.Mat3)
	// Bounds returns world bounds of the registered components. ok is false for
	// template units that have no registered components yet.
	Bounds() (Box, bool)
	// LocalBounds returns root component bounds relative to Location.
	LocalBounds() []Box
}

type Prober struct {
	Ray        Raycaster
	UpOffset   float64
	DownOffset float64
}

func NewProber(ray Raycaster) *Prober {
	return &Prober{
		Ray:        ray,
		UpOffset:   DefaultUpOffset,
		DownOffset: DefaultDownOffset,
	}
}

// GroundData casts from position+up*upOffset down to position-up*downOffset.
func (p *Prober) GroundData(position common.Vec3, upOffset, downOffset float64) (Data, bool) {
	if p == nil || p.Ray == nil {
		return Data{}, false
	}
	from := position.Add(common.Up.Scale(upOffset))
	to := position.Sub(common.Up.Scale(downOffset))
	return p.Ray.RaycastGround(from, to)
}

func (p *Prober) GroundDataForActor(a Actor) (Data, bool) {
	if p == nil || a == nil {
		return Data{}, false
	}
	return p.GroundData(a.Location(), p.UpOffset, p.DownOffset)
}

// FindResetGround probes below a jittered point inside the actor's bounds and
// falls back to the actor's current location. The returned half height is the
// offset to apply along the normal when resetting.
func (p *Prober) FindResetGround(a Actor, rng *rand.Rand) (Data, float64, bool) {
	if p == nil || a == nil {
		return Data{}, 0, false
	}
	candidate, halfHeight := FuzzyResetPosition(a, rng)
	if d, ok := p.GroundData(candidate, p.UpOffset, p.DownOffset+halfHeight); ok {
		return d, halfHeight, true
	}
	if d, ok := p.GroundDataForActor(a); ok {
		return d, halfHeight, true
	}
	return Data{}, halfHeight, false
}

// AxisAlignedBounds returns world bounds, summing root local bounds for
// template units.
func AxisAlignedBounds(a Actor) Box {
	if b, ok := a.Bounds(); ok {
		return b
	}
	var out Box
	for _, lb := range a.LocalBounds() {
		out = out.Merge(lb)
	}
	if !out.IsValid() {
		loc := a.Location()
		return NewBox(loc, loc)
	}
	return out.Translate(a.Location())
}

// FuzzyResetPosition picks a uniform point inside the actor's bounds raised by
// its half height.
func FuzzyResetPosition(a Actor, rng *rand.Rand) (common.Vec3, float64) {
	b := AxisAlignedBounds(a)
	halfHeight := (b.Max.Z - b.Min.Z) / 2
	p := common.Vec3{
		X: common.RandRange(rng, b.Min.X, b.Max.X),
		Y: common.RandRange(rng, b.Min.Y, b.Max.Y),
		Z: common.RandRange(rng, b.Min.Z, b.Max.Z),
	}
	p.Z += halfHeight
	return p, halfHeight
}

// ResetActorToGround places the actor at the hit raised along the normal and
// aligns its up axis with the normal. The right axis is kept so an upside down
// unit rolls back over in its own plane instead of turning around.
func ResetActorToGround(d Data, a Actor, extraZOffset float64) {
	normal := d.Normal.Normalize()
	if normal.IsNearlyZero() {
		normal = common.Up
	}
	basis := a.Basis()
	hint := common.BasisRight(basis).Cross(normal)
	if hint.IsNearlyZero() {
		hint = common.BasisForward(basis)
	}
	loc := d.Location.Add(normal.Scale(extraZOffset))
	a.SetPose(loc, common.BasisFromUp(normal, hint))
}
