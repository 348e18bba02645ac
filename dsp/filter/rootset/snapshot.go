package rootset

import "github.com/cwbudde/algo-pzfilter/internal/polyroot"

// Snapshot is an immutable copy of a Store, taken on the control side and
// handed to synthesis.
type Snapshot struct {
	Zeros            []Root
	Poles            []Root
	Gain             float64
	TotalOrder       int
	FiniteZerosOrder int
	Version          uint64
}

// Empty reports whether the snapshot holds no roots.
func (s Snapshot) Empty() bool {
	return len(s.Zeros) == 0 && len(s.Poles) == 0
}

// Polynomial expands roots into real coefficients in descending powers of z.
// Each root contributes |Order| factors; a root off the real axis contributes
// its conjugate too. An empty slice yields {1}.
func Polynomial(roots []Root) []float64 {
	var values []complex128
	for _, r := range roots {
		v := r.Value
		if imag(v) < 0 {
			v = complex(real(v), -imag(v))
		}
		for range r.Multiplicity() {
			values = append(values, v)
		}
	}
	return polyroot.Expand(values)
}

// TransferFunction returns numerator b (gain included) and denominator a of
// the snapshot's rational function, in ascending powers of z^-1 and padded
// to a common length of TotalOrder+1.
func (s Snapshot) TransferFunction() (b, a []float64) {
	num := Polynomial(s.Zeros)
	den := Polynomial(s.Poles)

	n := max(len(num), len(den))
	b = make([]float64, n)
	a = make([]float64, n)
	for i, c := range num {
		b[n-len(num)+i] = s.Gain * c
	}
	copy(a[n-len(den):], den)
	return b, a
}
