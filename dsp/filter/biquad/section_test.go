package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pzfilter/internal/testutil"
)

// resonant has poles at 0.9*e^{+-j*pi/5} and a double zero at Nyquist.
var resonant = Coefficients{
	B0: 0.25, B1: 0.5, B2: 0.25,
	A1: -2 * 0.9 * math.Cos(math.Pi/5), A2: 0.81,
}

// differenceEquation filters x with the textbook recursion, independent of
// the transposed form used by Section.
func differenceEquation(c Coefficients, x []float64) []float64 {
	y := make([]float64, len(x))
	var x1, x2, y1, y2 float64
	for n, xn := range x {
		y[n] = c.B0*xn + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
		x1, x2 = xn, x1
		y1, y2 = y[n], y1
	}
	return y
}

func TestSection_ImpulseTable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want []float64
	}{
		{"passthrough", Coefficients{B0: 1}, []float64{1, 0, 0, 0, 0}},
		{"unit delay", Coefficients{B1: 1}, []float64{0, 1, 0, 0, 0}},
		{"two sample delay", Coefficients{B2: 1}, []float64{0, 0, 1, 0, 0}},
		{"zero at -1", Coefficients{B0: 0.5, B1: 0.5}, []float64{0.5, 0.5, 0, 0, 0}},
		{"pole at 0.5", Coefficients{B0: 1, A1: -0.5}, []float64{1, 0.5, 0.25, 0.125, 0.0625}},
		{"silent", Coefficients{}, []float64{0, 0, 0, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSection(tc.c)
			got := make([]float64, len(tc.want))
			for i := range got {
				var x float64
				if i == 0 {
					x = 1
				}
				got[i] = s.ProcessSample(x)
			}
			testutil.RequireSliceNearlyEqual(t, got, tc.want, 1e-15)
		})
	}
}

func TestSection_MatchesDifferenceEquation(t *testing.T) {
	x := testutil.DeterministicNoise(11, 1, 257)
	want := differenceEquation(resonant, x)

	s := NewSection(resonant)
	got := make([]float64, len(x))
	for i, v := range x {
		got[i] = s.ProcessSample(v)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestSection_BlockMatchesSample(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1, 19)

	// Every length up to 19 covers the unrolled body and each tail size.
	for n := range len(x) + 1 {
		ref := NewSection(resonant)
		want := make([]float64, n)
		for i := range n {
			want[i] = ref.ProcessSample(x[i])
		}

		s := NewSection(resonant)
		got := append([]float64(nil), x[:n]...)
		s.ProcessBlock(got)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

		// The block kernel must leave the same state behind.
		if a, b := s.ProcessSample(0.5), ref.ProcessSample(0.5); math.Abs(a-b) > 1e-12 {
			t.Fatalf("n=%d: continuation %v, want %v", n, a, b)
		}
	}
}

func TestSection_BlockSplitInvariant(t *testing.T) {
	x := testutil.DeterministicNoise(5, 1, 300)

	whole := append([]float64(nil), x...)
	NewSection(resonant).ProcessBlock(whole)

	split := append([]float64(nil), x...)
	s := NewSection(resonant)
	for _, cut := range [][2]int{{0, 7}, {7, 64}, {64, 65}, {65, 300}} {
		s.ProcessBlock(split[cut[0]:cut[1]])
	}
	testutil.RequireSliceNearlyEqual(t, split, whole, 1e-12)
}

func TestSection_Reset(t *testing.T) {
	s := NewSection(resonant)
	s.ProcessBlock(testutil.DeterministicNoise(9, 1, 32))
	s.Reset()

	got := testutil.Impulse(8, 0)
	s.ProcessBlock(got)
	want := differenceEquation(resonant, testutil.Impulse(8, 0))
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-15)
}

func TestSection_Decays(t *testing.T) {
	s := NewSection(resonant)
	buf := testutil.Impulse(6000, 0)
	s.ProcessBlock(buf)
	testutil.RequireFinite(t, buf)
	if tail := math.Abs(buf[len(buf)-1]); tail > 1e-200 {
		t.Fatalf("impulse tail %g did not decay", tail)
	}
}

func TestSection_ProcessBlockNoAlloc(t *testing.T) {
	s := NewSection(resonant)
	buf := make([]float64, 512)
	s.ProcessBlock(buf)

	if allocs := testing.AllocsPerRun(100, func() { s.ProcessBlock(buf) }); allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per run", allocs)
	}
}

func TestKernelName(t *testing.T) {
	switch name := KernelName(); name {
	case "generic", "unroll4":
	default:
		t.Fatalf("unexpected kernel %q", name)
	}
}
