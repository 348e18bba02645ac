package fir

import (
	"math"
	"math/cmplx"
)

// Filter computes y[n] = sum_k h[k] x[n-k]. hist holds the previous inputs
// with the most recent first.
type Filter struct {
	taps []float64
	hist []float64
}

// New returns a Filter with a private copy of taps.
func New(taps []float64) *Filter {
	f := new(Filter)
	f.SetCoefficients(taps)
	return f
}

// SetCoefficients swaps in new taps and silences the history. Storage is
// reused while the tap count does not grow.
func (f *Filter) SetCoefficients(taps []float64) {
	f.taps = append(f.taps[:0], taps...)
	if n := max(len(taps)-1, 0); cap(f.hist) >= n {
		f.hist = f.hist[:n]
	} else {
		f.hist = make([]float64, n)
	}
	f.Reset()
}

// ProcessSample advances the stage by one input.
func (f *Filter) ProcessSample(x float64) float64 {
	if len(f.taps) == 0 {
		return 0
	}
	y := f.taps[0] * x
	for k, h := range f.taps[1:] {
		y += h * f.hist[k]
	}
	if len(f.hist) > 0 {
		copy(f.hist[1:], f.hist)
		f.hist[0] = x
	}
	return y
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset silences the history.
func (f *Filter) Reset() {
	clear(f.hist)
}

// Coefficients returns a copy of the taps.
func (f *Filter) Coefficients() []float64 {
	return append([]float64(nil), f.taps...)
}

// Response is the tap polynomial evaluated on the unit circle at freqHz.
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	zi := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)
	var h complex128
	for k := len(f.taps) - 1; k >= 0; k-- {
		h = h*zi + complex(f.taps[k], 0)
	}
	return h
}
