package rootset

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
	"github.com/cwbudde/algo-pzfilter/internal/polyroot"
)

// mergeTol decides when two imported roots are the same root.
const mergeTol = 1e-9

// FromPolynomials builds a store from a transfer function given in
// ascending powers of z^-1. Repeated roots are merged into one root of
// higher order.
func FromPolynomials(b, a []float64, opts ...Option) (*Store, error) {
	n := max(len(b), len(a))
	num := make([]float64, n)
	den := make([]float64, n)
	copy(num, b)
	copy(den, a)

	nb, okb := leading(num)
	na, oka := leading(den)
	if !okb || !oka {
		return nil, ErrDegenerate
	}

	zeros, err := rootsOf(num)
	if err != nil {
		return nil, fmt.Errorf("%w: numerator: %w", ErrDegenerate, err)
	}
	poles, err := rootsOf(den)
	if err != nil {
		return nil, fmt.Errorf("%w: denominator: %w", ErrDegenerate, err)
	}

	return build(zeros, poles, nb/na, opts)
}

// FromSections builds a store from normalized biquad sections and an
// overall gain. Origin roots shared by a section's numerator and
// denominator cancel.
func FromSections(sections []biquad.Coefficients, gain float64, opts ...Option) (*Store, error) {
	var zeros, poles []complex128
	for i, c := range sections {
		num := []float64{c.B0, c.B1, c.B2}
		den := []float64{1, c.A1, c.A2}
		for len(num) > 1 && num[len(num)-1] == 0 && den[len(den)-1] == 0 {
			num = num[:len(num)-1]
			den = den[:len(den)-1]
		}

		lead, ok := leading(num)
		if !ok {
			return nil, fmt.Errorf("%w: section %d has an all-zero numerator", ErrDegenerate, i)
		}
		gain *= lead

		z, err := rootsOf(num)
		if err != nil {
			return nil, fmt.Errorf("%w: section %d: %w", ErrDegenerate, i, err)
		}
		p, err := rootsOf(den)
		if err != nil {
			return nil, fmt.Errorf("%w: section %d: %w", ErrDegenerate, i, err)
		}
		zeros = append(zeros, z...)
		poles = append(poles, p...)
	}

	return build(zeros, poles, gain, opts)
}

func leading(p []float64) (float64, bool) {
	for _, c := range p {
		if c != 0 {
			return c, true
		}
	}
	return 0, false
}

// rootsOf returns one representative per real root or conjugate pair.
func rootsOf(desc []float64) ([]complex128, error) {
	roots, err := polyroot.RealRoots(desc)
	if err != nil {
		return nil, err
	}
	g, err := polyroot.Split(roots, mergeTol)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, 0, len(g.Real)+len(g.Conjugate))
	for _, r := range g.Real {
		out = append(out, complex(r, 0))
	}
	return append(out, g.Conjugate...), nil
}

func build(zeros, poles []complex128, gain float64, opts []Option) (*Store, error) {
	s := New(opts...)
	s.SetGain(gain)

	// Poles go first so no compensating origin pole is appended.
	for _, r := range merge(poles) {
		ref, err := s.Add(-r.Order)
		if err != nil {
			return nil, err
		}
		if err := s.SetValue(ref, r.Value); err != nil {
			return nil, err
		}
	}
	for _, r := range merge(zeros) {
		ref, err := s.Add(r.Order)
		if err != nil {
			return nil, err
		}
		if err := s.SetValue(ref, r.Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// merge collapses coincident values into roots with a positive count.
func merge(values []complex128) []Root {
	var out []Root
	for _, v := range values {
		found := false
		for i := range out {
			if cmplx.Abs(out[i].Value-v) <= mergeTol {
				out[i].Order++
				found = true
				break
			}
		}
		if !found {
			out = append(out, Root{Value: v, Order: 1})
		}
	}
	return out
}
