package testutil

import (
	"math"
	"math/cmplx"
	"testing"
)

// RequireSliceNearlyEqual stops the test at the first sample where got and
// want differ by more than eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i, w := range want {
		if d := math.Abs(got[i] - w); d > eps {
			t.Fatalf("sample %d = %v, want %v (off by %g, eps %g)", i, got[i], w, d, eps)
		}
	}
}

// RequireComplexNear compares two response values. eps scales with |want|
// once |want| exceeds one.
func RequireComplexNear(t testing.TB, got, want complex128, eps float64, what string) {
	t.Helper()
	if d := cmplx.Abs(got - want); d > eps*math.Max(1, cmplx.Abs(want)) {
		t.Fatalf("%s = %v, want %v (off by %g)", what, got, want, d)
	}
}

// RequireFinite rejects NaN and Inf samples.
func RequireFinite(t testing.TB, x []float64) {
	t.Helper()
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", i, v)
		}
	}
}

// MaxStep is the largest sample-to-sample jump in x. A crossfade between
// two settled outputs keeps it bounded by the gap divided by the ramp length.
func MaxStep(x []float64) float64 {
	var step float64
	for i := 1; i < len(x); i++ {
		step = max(step, math.Abs(x[i]-x[i-1]))
	}
	return step
}
