package common

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Basis matrices are row major with the unit's forward, right and up axes
// stored as columns 0, 1 and 2.

func IdentityBasis() f64.Mat3 {
	return f64.Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func basisColumn(m f64.Mat3, c int) Vec3 {
	return Vec3{m[c], m[3+c], m[6+c]}
}

func basisFromColumns(x, y, z Vec3) f64.Mat3 {
	return f64.Mat3{
		x.X, y.X, z.X,
		x.Y, y.Y, z.Y,
		x.Z, y.Z, z.Z,
	}
}

func BasisForward(m f64.Mat3) Vec3 { return basisColumn(m, 0) }
func BasisRight(m f64.Mat3) Vec3   { return basisColumn(m, 1) }
func BasisUp(m f64.Mat3) Vec3      { return basisColumn(m, 2) }

// BasisFromUp builds an orthonormal basis whose up axis is up and whose forward
// axis is as close to forwardHint as possible.
func BasisFromUp(up, forwardHint Vec3) f64.Mat3 {
	z := up.Normalize()
	if z.IsNearlyZero() {
		z = Up
	}
	x := forwardHint.Sub(z.Scale(forwardHint.Dot(z))).Normalize()
	if x.IsNearlyZero() {
		// hint parallel to up
		alt := Vec3{X: 1}
		if math.Abs(z.X) > 0.9 {
			alt = Vec3{Y: 1}
		}
		x = alt.Sub(z.Scale(alt.Dot(z))).Normalize()
	}
	y := z.Cross(x)
	return basisFromColumns(x, y, z)
}

// BasisFromPitch returns the basis of a unit rotated by angle radians in the XZ
// plane. This is how a side-view physics body angle maps into world space.
func BasisFromPitch(angle float64) f64.Mat3 {
	s, c := math.Sincos(angle)
	return basisFromColumns(
		Vec3{X: c, Z: s},
		Vec3{Y: 1},
		Vec3{X: -s, Z: c},
	)
}

// PitchFromBasis is the inverse of BasisFromPitch for bases built in the XZ plane.
func PitchFromBasis(m f64.Mat3) float64 {
	f := BasisForward(m)
	return math.Atan2(f.Z, f.X)
}

// PitchFromUp is the body angle whose BasisFromPitch up axis points along up.
// Only the XZ components are used, so it is well defined for any basis.
func PitchFromUp(up Vec3) float64 {
	return math.Atan2(-up.X, up.Z)
}
