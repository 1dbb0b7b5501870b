package common

import (
	"math"
	"math/rand"
)

// RandRange draws uniformly from [lo, hi].
func RandRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// RandUnitVec3 draws a direction uniformly distributed over the unit sphere.
func RandUnitVec3(rng *rand.Rand) Vec3 {
	z := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	s, c := math.Sincos(theta)
	return Vec3{X: r * c, Y: r * s, Z: z}
}
