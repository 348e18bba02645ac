package design

import (
	"math"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// rbj carries the cookbook terms cos(w0), sin(w0) and alpha for one
// frequency and Q.
type rbj struct {
	cw, sw, alpha float64
}

func newRBJ(freq, q, sampleRate float64) (rbj, bool) {
	w0, ok := omega(freq, sampleRate)
	if !ok {
		return rbj{}, false
	}
	sw := math.Sin(w0)
	return rbj{cw: math.Cos(w0), sw: sw, alpha: sw / (2 * qOrDefault(q))}, true
}

// over divides the numerator by the resonator denominator
// (1+alpha) - 2cos(w0) z^-1 + (1-alpha) z^-2 that most designs share.
func (t rbj) over(b0, b1, b2 float64) biquad.Coefficients {
	return section(b0, b1, b2, 1+t.alpha, -2*t.cw, 1-t.alpha)
}

// Lowpass is the cookbook lowpass at freq Hz. Out-of-band frequencies give
// the zero section.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	b := (1 - t.cw) / 2
	return t.over(b, 2*b, b)
}

// Highpass is the cookbook highpass at freq Hz.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	b := (1 + t.cw) / 2
	return t.over(b, -2*b, b)
}

// Bandpass has constant skirt gain, so its peak reaches Q.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return t.over(t.sw/2, 0, -t.sw/2)
}

// Notch places a zero pair on the unit circle at freq Hz.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return t.over(1, -2*t.cw, 1)
}

// Allpass mirrors the resonator poles into zeros outside the circle.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return t.over(1-t.alpha, -2*t.cw, 1+t.alpha)
}

// Peak boosts or cuts gainDB around freq Hz.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	a := math.Pow(10, gainDB/40)
	return section(1+t.alpha*a, -2*t.cw, 1-t.alpha*a, 1+t.alpha/a, -2*t.cw, 1-t.alpha/a)
}

// LowShelf reaches gainDB at DC.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return shelf(freq, gainDB, q, sampleRate, 1)
}

// HighShelf reaches gainDB at Nyquist.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return shelf(freq, gainDB, q, sampleRate, -1)
}

// shelf covers both shelves. side is +1 for the low shelf and -1 for the
// high shelf, which flips the sign of every cos(w0) term.
func shelf(freq, gainDB, q, sampleRate, side float64) biquad.Coefficients {
	t, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * t.alpha
	c := side * t.cw
	p, m := a+1, a-1

	return section(
		a*(p-m*c+beta),
		side*2*a*(m-p*c),
		a*(p-m*c-beta),
		p+m*c+beta,
		-side*2*(m+p*c),
		p+m*c-beta,
	)
}

// omega maps freq to radians per sample. ok is false unless freq lies
// strictly between DC and Nyquist.
func omega(freq, sampleRate float64) (float64, bool) {
	if !finite(freq) || !finite(sampleRate) || sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}
	return 2 * math.Pi * freq / sampleRate, true
}

func qOrDefault(q float64) float64 {
	if q > 0 && finite(q) {
		return q
	}
	return defaultQ
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// section scales a raw design so that a0 becomes 1. A degenerate a0 gives
// the zero section.
func section(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !finite(a0) {
		return biquad.Coefficients{}
	}
	return biquad.Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}
