package sdf

import (
	"math"
)

// MinFunc is a minimum functions for SDF blending.
type MinFunc func(a, b float64) float64

// MaxFunc is a maximum function for SDF blending.
type MaxFunc func(a, b float64) float64

// Clamp x between a and b, assume a <= b
func clamp(x, a, b float64) float64 {
	return math.Min(b, math.Max(x, a))
}

// Mix does a linear interpolation from x to y, a = [0,1]
func mix(x, y, a float64) float64 {
	return x + (a * (y - x))
}

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// PolyMin returns a minimum function (Try k = 0.1, a bigger k gives a larger blend).
// It fillets the seam between two unioned objects.
func PolyMin(k float64) MinFunc {
	return func(a, b float64) float64 {
		h := clamp(0.5+0.5*(b-a)/k, 0.0, 1.0)
		return mix(b, a, h) - k*h*(1.0-h)
	}
}

// sawTooth maps x onto [-period/2, period/2).
func sawTooth(x, period float64) float64 {
	x += period / 2
	t := x / period
	return period*(t-math.Floor(t)) - period/2
}
