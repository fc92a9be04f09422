package utils

import (
	"math"
)

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// WrapToPi returns the given angle in radians wrapped into [-pi, pi).
func WrapToPi(radians float64) float64 {
	wrapped := math.Mod(radians+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// AngleDiffRad returns the smallest absolute difference between two angles in radians.
func AngleDiffRad(a1, a2 float64) float64 {
	return math.Abs(WrapToPi(a1 - a2))
}
