package cascade

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
)

var (
	// ErrNonCausal is returned when a section's numerator degree exceeds
	// its denominator degree.
	ErrNonCausal = errors.New("cascade: non-causal section")
	// ErrDegenerateSection is returned for a section with an all-zero
	// denominator.
	ErrDegenerateSection = errors.New("cascade: degenerate section")
	// ErrNegativeDelay is returned for a cascade with Delay < 0.
	ErrNegativeDelay = errors.New("cascade: negative delay")
)

// Section is one filter stage as a ratio of polynomials in z:
//
//	H(z) = (B0 z^2 + B1 z + B2) / (A0 z^2 + A1 z + A2)
//
// Coefficients are right aligned, so a first-order stage has B0 = A0 = 0.
type Section struct {
	B0, B1, B2 float64
	A0, A1, A2 float64
}

func (s Section) num() [3]float64 { return [3]float64{s.B0, s.B1, s.B2} }
func (s Section) den() [3]float64 { return [3]float64{s.A0, s.A1, s.A2} }

// NumeratorDegree returns the degree of the numerator in z, or -1 when the
// numerator is identically zero.
func (s Section) NumeratorDegree() int { return degree(s.num()) }

// DenominatorDegree returns the degree of the denominator in z, or -1 when
// the denominator is identically zero.
func (s Section) DenominatorDegree() int { return degree(s.den()) }

func degree(p [3]float64) int {
	for i, c := range p {
		if c != 0 {
			return 2 - i
		}
	}
	return -1
}

// Normalize converts s to DF-II-T coefficients with a0 = 1.
func (s Section) Normalize() (biquad.Coefficients, error) {
	num, den := s.num(), s.den()

	k := 0
	for k < 3 && den[k] == 0 {
		k++
	}
	if k == 3 {
		return biquad.Coefficients{}, ErrDegenerateSection
	}
	for i := range k {
		if num[i] != 0 {
			return biquad.Coefficients{}, fmt.Errorf("%w: numerator degree %d > denominator degree %d",
				ErrNonCausal, s.NumeratorDegree(), s.DenominatorDegree())
		}
	}

	var b [3]float64
	var a [3]float64
	lead := den[k]
	for i := k; i < 3; i++ {
		b[i-k] = num[i] / lead
		a[i-k] = den[i] / lead
	}

	return biquad.Coefficients{B0: b[0], B1: b[1], B2: b[2], A1: a[1], A2: a[2]}, nil
}

// Response evaluates the section at z = e^{jw}.
func (s Section) Response(freqHz, sampleRate float64) complex128 {
	z := unitPoint(freqHz, sampleRate)
	return evalDesc(s.num(), z) / evalDesc(s.den(), z)
}

// Taps are FIR coefficients in ascending powers of z^-1:
//
//	H(z) = T[0] + T[1] z^-1 + T[2] z^-2
type Taps [3]float64

// Response evaluates the taps at z = e^{jw}.
func (t Taps) Response(freqHz, sampleRate float64) complex128 {
	zi := 1 / unitPoint(freqHz, sampleRate)
	return complex(t[0], 0) + zi*(complex(t[1], 0)+zi*complex(t[2], 0))
}

// Cascade is a synthesized filter description. The zero value is silence;
// use [Identity] for a pass-through.
type Cascade struct {
	Sections []Section
	FIR      []Taps
	Delay    int
	Gain     float64
}

// Identity returns the pass-through cascade.
func Identity() *Cascade {
	return &Cascade{Gain: 1}
}

// Clone returns a deep copy of c.
func (c *Cascade) Clone() *Cascade {
	if c == nil {
		return nil
	}
	out := &Cascade{Delay: c.Delay, Gain: c.Gain}
	out.Sections = append([]Section(nil), c.Sections...)
	out.FIR = append([]Taps(nil), c.FIR...)
	return out
}

// Validate checks every section and the delay.
func (c *Cascade) Validate() error {
	if c.Delay < 0 {
		return ErrNegativeDelay
	}
	for i, s := range c.Sections {
		if _, err := s.Normalize(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

// Response evaluates the full cascade at z = e^{jw}.
func (c *Cascade) Response(freqHz, sampleRate float64) complex128 {
	h := complex(c.Gain, 0)
	for _, s := range c.Sections {
		h *= s.Response(freqHz, sampleRate)
	}
	for _, t := range c.FIR {
		h *= t.Response(freqHz, sampleRate)
	}
	if c.Delay > 0 {
		h *= delayResponse(c.Delay, freqHz, sampleRate)
	}
	return h
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (c *Cascade) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Order returns the number of poles realized by the sections.
func (c *Cascade) Order() int {
	n := 0
	for _, s := range c.Sections {
		n += max(s.DenominatorDegree(), 0)
	}
	return n + c.Delay
}

func unitPoint(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	return cmplx.Exp(complex(0, w))
}

func evalDesc(p [3]float64, z complex128) complex128 {
	return (complex(p[0], 0)*z+complex(p[1], 0))*z + complex(p[2], 0)
}

func delayResponse(n int, freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	return cmplx.Exp(complex(0, -w*float64(n)))
}
