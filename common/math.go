package common

import "math"

// Epsilon is the tolerance used for near-zero vector checks.
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// InverseLerp returns where v sits between a and b. Equal endpoints map to 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Vec3 is a world-space vector. Z is up.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

var (
	Zero3 = Vec3{}
	Up    = Vec3{Z: 1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div divides every component by n. Dividing by zero yields the zero vector.
func (v Vec3) Div(n int) Vec3 {
	if n == 0 {
		return Vec3{}
	}
	f := float64(n)
	return Vec3{v.X / f, v.Y / f, v.Z / f}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

func (v Vec3) DistSq(o Vec3) float64 {
	return v.Sub(o).LenSq()
}

func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector, or the zero vector when v is too short.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsNearlyZero() bool {
	return v.LenSq() < Epsilon*Epsilon
}

// AngleBetween returns the angle in radians between a and b, 0 if either is zero.
func AngleBetween(a, b Vec3) float64 {
	a = a.Normalize()
	b = b.Normalize()
	if a.IsNearlyZero() || b.IsNearlyZero() {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b), -1, 1))
}
