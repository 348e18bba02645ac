package core

import "math"

// Clamp limits v to [lo, hi]. Swapped bounds are put back in order.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// WrapAngle folds a into (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDistance is the shortest arc between two angles, in [0, pi].
func AngleDistance(a, b float64) float64 {
	return math.Abs(WrapAngle(a - b))
}
