// Package testutil holds the test signals, random roots and assertions
// shared by the filter tests.
package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// DeterministicSine is amplitude*sin(2*pi*freqHz*n/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	x := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate
	for n := range x {
		x[n] = amplitude * math.Sin(w*float64(n))
	}
	return x
}

// DeterministicNoise is uniform noise in [-amplitude, amplitude) drawn from
// a seeded source, so a seed always yields the same block.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, length)
	for n := range x {
		x[n] = amplitude * (2*rng.Float64() - 1)
	}
	return x
}

// Impulse is a unit sample at pos. An out-of-range pos gives silence.
func Impulse(length, pos int) []float64 {
	x := make([]float64, length)
	if pos >= 0 && pos < length {
		x[pos] = 1
	}
	return x
}

// Step is zero before pos and one from pos on.
func Step(length, pos int) []float64 {
	x := make([]float64, length)
	for n := max(pos, 0); n < length; n++ {
		x[n] = 1
	}
	return x
}

// RandomRoot draws a root inside the disc of radius maxRadius. When onAxis is
// set the root is real, otherwise it lies strictly in the upper half plane.
func RandomRoot(rng *rand.Rand, maxRadius float64, onAxis bool) complex128 {
	r := maxRadius * rng.Float64()
	if onAxis {
		if rng.Intn(2) == 0 {
			r = -r
		}
		return complex(r, 0)
	}
	theta := 0.05 + (math.Pi-0.1)*rng.Float64()
	return cmplx.Rect(math.Max(r, 1e-3), theta)
}
