package fir

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pzfilter/internal/testutil"
)

// convolve is the reference y = h * x truncated to len(x).
func convolve(h, x []float64) []float64 {
	y := make([]float64, len(x))
	for n := range x {
		for k := 0; k < len(h) && k <= n; k++ {
			y[n] += h[k] * x[n-k]
		}
	}
	return y
}

func TestFilter_MatchesConvolution(t *testing.T) {
	x := testutil.DeterministicNoise(21, 1, 40)
	for _, h := range [][]float64{
		{0.7},
		{1, -0.5},
		{1, -1.2, 0.81},
		{0.1, 0.2, 0.3, 0.2, 0.1},
	} {
		f := New(h)
		got := append([]float64(nil), x...)
		f.ProcessBlock(got[:13])
		f.ProcessBlock(got[13:])
		testutil.RequireSliceNearlyEqual(t, got, convolve(h, x), 1e-12)
	}
}

func TestFilter_CopiesTaps(t *testing.T) {
	h := []float64{1, 2, 3}
	f := New(h)
	h[0] = 99
	if got := f.Coefficients(); got[0] != 1 {
		t.Fatalf("taps aliased caller slice: %v", got)
	}
	f.Coefficients()[1] = 99
	if got := f.Coefficients(); got[1] != 2 {
		t.Fatalf("Coefficients exposed internal storage: %v", got)
	}
}

func TestFilter_SetCoefficientsClearsHistory(t *testing.T) {
	f := New([]float64{1, 2, 3})
	f.ProcessBlock([]float64{1, 1, 1})
	taps := &f.taps[0]

	f.SetCoefficients([]float64{1, 0, -1})
	if &f.taps[0] != taps {
		t.Fatal("tap storage was reallocated")
	}
	if y := f.ProcessSample(0); y != 0 {
		t.Fatalf("stale history leaked into %v", y)
	}
}

func TestFilter_Empty(t *testing.T) {
	f := New(nil)
	if y := f.ProcessSample(1); y != 0 {
		t.Fatalf("empty filter output = %v", y)
	}
	if h := f.Response(1000, 48000); h != 0 {
		t.Fatalf("empty filter response = %v", h)
	}
}

func TestFilter_Response(t *testing.T) {
	// 1 - z^-1 nulls DC and doubles Nyquist.
	f := New([]float64{1, -1, 0})
	testutil.RequireComplexNear(t, f.Response(0, 48000), 0, 1e-12, "dc")
	testutil.RequireComplexNear(t, f.Response(24000, 48000), 2, 1e-12, "nyquist")

	// A pure two-sample delay has unit magnitude and linear phase.
	d := New([]float64{0, 0, 1})
	h := d.Response(6000, 48000)
	testutil.RequireComplexNear(t, h, complex(math.Cos(-math.Pi/2), math.Sin(-math.Pi/2)), 1e-12, "delay")
}

func TestFilter_ProcessBlockNoAlloc(t *testing.T) {
	f := New([]float64{1, -1.2, 0.81})
	buf := make([]float64, 256)
	if allocs := testing.AllocsPerRun(100, func() { f.ProcessBlock(buf) }); allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per run", allocs)
	}
}
