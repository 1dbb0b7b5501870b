package prefabs

import "math"

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// DegToRad converts designer-facing degrees.
func DegToRad(d float64) float64 { return degToRad(d) }
