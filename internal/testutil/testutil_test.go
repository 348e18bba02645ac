package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

func TestProbeSignals(t *testing.T) {
	sine := DeterministicSine(12000, 48000, 2, 5)
	RequireSliceNearlyEqual(t, sine, []float64{0, 2, 0, -2, 0}, 1e-12)

	RequireSliceNearlyEqual(t, Impulse(4, 2), []float64{0, 0, 1, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(3, 7), []float64{0, 0, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(3, -1), []float64{0, 0, 0}, 0)
	RequireSliceNearlyEqual(t, Step(4, 1), []float64{0, 1, 1, 1}, 0)
	RequireSliceNearlyEqual(t, Step(3, -2), []float64{1, 1, 1}, 0)
}

func TestDeterministicNoiseIsSeeded(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 256)
	RequireSliceNearlyEqual(t, DeterministicNoise(42, 0.5, 256), a, 0)

	b := DeterministicNoise(43, 0.5, 256)
	same := true
	for i := range a {
		if math.Abs(a[i]) >= 0.5 {
			t.Fatalf("sample %d = %v outside amplitude", i, a[i])
		}
		same = same && a[i] == b[i]
	}
	if same {
		t.Fatal("different seeds produced the same noise")
	}
}

func TestRandomRoot(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 500 {
		r := RandomRoot(rng, 0.9, false)
		if imag(r) <= 0 || cmplx.Abs(r) > 0.9 {
			t.Fatalf("off-axis root %v outside the upper half disc", r)
		}
		r = RandomRoot(rng, 0.9, true)
		if imag(r) != 0 || math.Abs(real(r)) > 0.9 {
			t.Fatalf("axis root %v", r)
		}
	}
}

func TestMaxStep(t *testing.T) {
	if got := MaxStep([]float64{0, 0.25, -0.5, -0.25}); got != 0.75 {
		t.Fatalf("MaxStep = %v, want 0.75", got)
	}
	if got := MaxStep([]float64{3}); got != 0 {
		t.Fatalf("MaxStep of one sample = %v", got)
	}
}
