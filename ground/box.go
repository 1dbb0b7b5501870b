package ground

import "github.com/milk9111/tankcombat/common"

// Box is an axis-aligned bounding box. The zero Box is empty.
type Box struct {
	Min common.Vec3
	Max common.Vec3
	set bool
}

func NewBox(min, max common.Vec3) Box {
	return Box{Min: min, Max: max, set: true}
}

// BoxAround returns the box centered on c with the given half extents.
func BoxAround(c, halfExtent common.Vec3) Box {
	return NewBox(c.Sub(halfExtent), c.Add(halfExtent))
}

func (b Box) IsValid() bool {
	return b.set
}

func (b Box) Center() common.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b Box) Extent() common.Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

func (b Box) Merge(o Box) Box {
	if !b.set {
		return o
	}
	if !o.set {
		return b
	}
	return NewBox(
		common.V3(min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y), min(b.Min.Z, o.Min.Z)),
		common.V3(max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y), max(b.Max.Z, o.Max.Z)),
	)
}

func (b Box) Translate(v common.Vec3) Box {
	if !b.set {
		return b
	}
	return NewBox(b.Min.Add(v), b.Max.Add(v))
}

func (b Box) Contains(p common.Vec3) bool {
	return b.set &&
		p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
