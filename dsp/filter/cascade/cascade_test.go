package cascade

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
)

func TestSectionNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Section
		want biquad.Coefficients
	}{
		{
			name: "second order",
			in:   Section{B0: 2, B1: -1, B2: 0.5, A0: 2, A1: -0.4, A2: 0.1},
			want: biquad.Coefficients{B0: 1, B1: -0.5, B2: 0.25, A1: -0.2, A2: 0.05},
		},
		{
			name: "first order",
			in:   Section{B1: 1, B2: -0.5, A1: 1, A2: -0.8},
			want: biquad.Coefficients{B0: 1, B1: -0.5, A1: -0.8},
		},
		{
			name: "pole with delay",
			in:   Section{B2: 1, A1: 1, A2: -0.3},
			want: biquad.Coefficients{B1: 1, A1: -0.3},
		},
		{
			name: "conjugate pole unmatched",
			in:   Section{B0: 1, A0: 1, A1: -1, A2: 0.5},
			want: biquad.Coefficients{B0: 1, A1: -1, A2: 0.5},
		},
		{
			name: "zero absorbed at origin",
			in:   Section{B1: 1, B2: -0.9, A1: 1},
			want: biquad.Coefficients{B0: 1, B1: -0.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSectionNormalize_Errors(t *testing.T) {
	if _, err := (Section{B0: 1, A1: 1, A2: -0.5}).Normalize(); !errors.Is(err, ErrNonCausal) {
		t.Fatalf("err = %v, want ErrNonCausal", err)
	}
	if _, err := (Section{B2: 1}).Normalize(); !errors.Is(err, ErrDegenerateSection) {
		t.Fatalf("err = %v, want ErrDegenerateSection", err)
	}
}

func TestSectionDegrees(t *testing.T) {
	s := Section{B1: 1, B2: -0.5, A0: 1, A1: 0, A2: 0.25}
	if s.NumeratorDegree() != 1 || s.DenominatorDegree() != 2 {
		t.Fatalf("degrees = %d/%d, want 1/2", s.NumeratorDegree(), s.DenominatorDegree())
	}
	if (Section{}).NumeratorDegree() != -1 {
		t.Fatal("zero numerator should have degree -1")
	}
}

func TestCascadeResponse_MatchesRationalFunction(t *testing.T) {
	// gain * (z - 0.5) * (z^2 + 0.81) / ((z - 0.8) * z^2) * z^-1
	c := &Cascade{
		Sections: []Section{{B1: 1, B2: -0.5, A1: 1, A2: -0.8}},
		FIR:      []Taps{{1, 0, 0.81}},
		Delay:    1,
		Gain:     0.7,
	}

	for _, f := range []float64{0, 300, 2500, 11000, 23999} {
		z := cmplx.Exp(complex(0, 2*math.Pi*f/48000))
		want := 0.7 * (z - 0.5) * (z*z + 0.81) / ((z - 0.8) * z * z * z)
		got := c.Response(f, 48000)
		if cmplx.Abs(got-want) > 1e-9*math.Max(1, cmplx.Abs(want)) {
			t.Fatalf("f=%v: got %v, want %v", f, got, want)
		}
	}
}

func TestCascadeCloneIsDeep(t *testing.T) {
	c := &Cascade{Sections: []Section{{B0: 1, A0: 1}}, FIR: []Taps{{1}}, Delay: 2, Gain: 3}
	d := c.Clone()
	d.Sections[0].B0 = 5
	d.FIR[0][0] = 5
	if c.Sections[0].B0 != 1 || c.FIR[0][0] != 1 {
		t.Fatal("Clone shares storage with the original")
	}
	if (*Cascade)(nil).Clone() != nil {
		t.Fatal("Clone of nil should be nil")
	}
}

func TestCascadeValidate(t *testing.T) {
	if err := (&Cascade{Delay: -1}).Validate(); !errors.Is(err, ErrNegativeDelay) {
		t.Fatalf("err = %v, want ErrNegativeDelay", err)
	}
	bad := &Cascade{Sections: []Section{{A0: 1}, {B0: 1, A2: 1}}}
	if err := bad.Validate(); !errors.Is(err, ErrNonCausal) {
		t.Fatalf("err = %v, want ErrNonCausal", err)
	}
}

func TestCascadeOrder(t *testing.T) {
	c := &Cascade{
		Sections: []Section{{B0: 1, A0: 1, A1: -1, A2: 0.5}, {B1: 1, A1: 1, A2: -0.2}},
		Delay:    2,
	}
	if got := c.Order(); got != 5 {
		t.Fatalf("Order() = %d, want 5", got)
	}
}
