package biquad

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-pzfilter/internal/polyroot"
)

// Response is H evaluated on the unit circle at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	zi := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)
	num := complex(c.B0, 0) + zi*(complex(c.B1, 0)+zi*complex(c.B2, 0))
	den := 1 + zi*(complex(c.A1, 0)+zi*complex(c.A2, 0))
	return num / den
}

// MagnitudeDB is 20*log10|H| at freqHz.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Phase is arg H at freqHz, in [-pi, pi].
func (c Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// Poles returns the roots of z^2 + A1 z + A2. A first-order section
// reports its second pole at the origin.
func (c Coefficients) Poles() []complex128 {
	return sectionRoots(1, c.A1, c.A2)
}

// Zeros returns the finite roots of B0 z^2 + B1 z + B2. With B0 == 0 the
// missing zero lies at infinity and is not reported.
func (c Coefficients) Zeros() []complex128 {
	return sectionRoots(c.B0, c.B1, c.B2)
}

// Stable reports whether every pole lies strictly inside the unit circle.
func (c Coefficients) Stable() bool {
	for _, p := range c.Poles() {
		if cmplx.Abs(p) >= 1 {
			return false
		}
	}
	return true
}

func sectionRoots(a, b, c float64) []complex128 {
	roots, err := polyroot.RealRoots([]float64{a, b, c})
	if err != nil {
		return nil
	}
	return roots
}

// ImpulseResponse runs a rested copy of s for n samples. The receiver's
// state is left untouched.
func (s *Section) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}
	scratch := Section{Coefficients: s.Coefficients}
	ir := make([]float64, n)
	ir[0] = 1
	scratch.ProcessBlock(ir)
	return ir
}
