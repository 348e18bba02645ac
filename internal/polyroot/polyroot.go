// Package polyroot finds and groups the roots of real polynomials and
// expands root sets back into real coefficients.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, convergence failure, unpaired complex roots).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Group is a root set of a real polynomial split into real roots and one
// representative (positive imaginary part) per conjugate pair.
type Group struct {
	Real      []float64
	Conjugate []complex128
}

// Degree returns the number of roots represented by g.
func (g Group) Degree() int {
	return len(g.Real) + 2*len(g.Conjugate)
}

// RealRoots returns all roots of the real polynomial coeff, given in
// descending powers (coeff[0]*z^n + ... + coeff[n]). Leading zeros lower the
// degree. Trailing zeros are reported as exact roots at the origin.
func RealRoots(coeff []float64) ([]complex128, error) {
	first := 0
	for first < len(coeff) && coeff[first] == 0 {
		first++
	}
	if first == len(coeff) {
		return nil, ErrDegeneratePolynomial
	}

	coeff = coeff[first:]
	last := len(coeff)
	for last > 1 && coeff[last-1] == 0 {
		last--
	}
	origin := len(coeff) - last

	roots := make([]complex128, 0, len(coeff)-1)
	switch last {
	case 1:
	case 2:
		roots = append(roots, complex(-coeff[1]/coeff[0], 0))
	case 3:
		r1, r2 := quadratic(coeff[0], coeff[1], coeff[2])
		roots = append(roots, r1, r2)
	default:
		c := make([]complex128, last)
		for i := range last {
			c[i] = complex(coeff[i], 0)
		}
		found, err := durandKerner(c)
		if err != nil {
			return nil, err
		}
		roots = append(roots, found...)
	}

	for range origin {
		roots = append(roots, 0)
	}
	return roots, nil
}

// quadratic solves a*z^2 + b*z + c with c != 0. Repeated roots come out
// exact when the discriminant vanishes.
func quadratic(a, b, c float64) (complex128, complex128) {
	disc := b*b - 4*a*c
	if disc < 0 {
		re := -b / (2 * a)
		im := math.Abs(math.Sqrt(-disc) / (2 * a))
		return complex(re, im), complex(re, -im)
	}
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	return complex(q/a, 0), complex(c/q, 0)
}

// Split groups roots into real roots and conjugate pairs. Roots whose
// imaginary part is within tol of zero are treated as real.
func Split(roots []complex128, tol float64) (Group, error) {
	var g Group
	var complexRoots []complex128
	for _, r := range roots {
		if math.Abs(imag(r)) <= tol*math.Max(1, cmplx.Abs(r)) {
			g.Real = append(g.Real, real(r))
			continue
		}
		complexRoots = append(complexRoots, r)
	}

	used := make([]bool, len(complexRoots))
	for i, r := range complexRoots {
		if used[i] {
			continue
		}
		conj := cmplx.Conj(r)
		best := -1
		bestDist := math.MaxFloat64
		for j := range complexRoots {
			if i == j || used[j] {
				continue
			}
			if d := cmplx.Abs(complexRoots[j] - conj); d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best == -1 || !isConjugate(r, complexRoots[best]) {
			return Group{}, ErrDegeneratePolynomial
		}
		used[i] = true
		used[best] = true

		avg := complex((real(r)+real(complexRoots[best]))/2, math.Abs(imag(r)-imag(complexRoots[best]))/2)
		g.Conjugate = append(g.Conjugate, avg)
	}

	return g, nil
}

// factor returns the monic real factor contributed by root v in descending
// powers of z: {1, -v} for a real root, {1, -2re, re^2+im^2} for a root
// standing for a conjugate pair.
func factor(v complex128) []float64 {
	if imag(v) == 0 {
		return []float64{1, -real(v)}
	}
	re, im := real(v), imag(v)
	return []float64{1, -2 * re, re*re + im*im}
}

// multiply returns the product of two polynomials in the same power order.
func multiply(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// Expand returns the monic polynomial whose roots are the given factors'
// roots. Roots are multiplied smallest magnitude first, which keeps the
// intermediate coefficients small for clustered root sets.
func Expand(roots []complex128) []float64 {
	sorted := append([]complex128(nil), roots...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmplx.Abs(sorted[i]) < cmplx.Abs(sorted[j])
	})

	poly := []float64{1}
	for _, r := range sorted {
		poly = multiply(poly, factor(r))
	}
	return poly
}

const (
	dkMaxIter = 500
	dkTol     = 1e-12

	// clusterTol is the distance within which roots are tried as one
	// multiple root.
	clusterTol = 2e-2
	polishIter = 50

	// conjugateTol is the relative tolerance for accepting two roots as a
	// conjugate pair.
	conjugateTol = 1e-7
)

// durandKerner refines all roots of coeff (descending powers) at once. The
// starting points sit on a circle outside the Cauchy bound, rotated off the
// real axis so no start is itself a symmetric fixed point.
func durandKerner(coeff []complex128) ([]complex128, error) {
	n := len(coeff) - 1
	if n < 1 || coeff[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	p := make([]complex128, n+1)
	bound := 1.0
	for i, c := range coeff {
		p[i] = c / coeff[0]
		if i > 0 {
			bound = math.Max(bound, 1+cmplx.Abs(p[i]))
		}
	}

	z := make([]complex128, n)
	for i := range z {
		frac := float64(i) / float64(n)
		z[i] = cmplx.Rect(bound*(1+0.05*frac), 2*math.Pi*frac+0.4)
	}

	for range dkMaxIter {
		worst := 0.0
		for i, zi := range z {
			den := complex(1, 0)
			for j, zj := range z {
				if j != i {
					den *= zi - zj
				}
			}
			if den == 0 {
				z[i] += complex(1e-10, 1e-10)
				worst = math.Inf(1)
				continue
			}
			step := horner(p, zi) / den
			z[i] = zi - step
			worst = math.Max(worst, cmplx.Abs(step))
		}
		if worst < dkTol {
			polishClusters(p, z)
			return z, nil
		}
	}

	// Clustered roots converge linearly; accept them when the residual is
	// small even though the steps never dropped below dkTol.
	polishClusters(p, z)
	for _, zi := range z {
		if cmplx.Abs(horner(p, zi)) > 1e-6 {
			return nil, ErrDegeneratePolynomial
		}
	}
	return z, nil
}

// polishClusters replaces each group of m nearby roots by the multiple
// root it approximates when that root fits p at least as well as every
// member, up to the rounding error of evaluating p.
// A root of multiplicity m is a simple root of the (m-1)th derivative, so
// Newton's method on that derivative converges quadratically to it.
func polishClusters(p, z []complex128) {
	assigned := make([]bool, len(z))
	members := make([]int, 0, len(z))
	for i := range z {
		if assigned[i] {
			continue
		}
		members = members[:0]
		var centroid complex128
		for j := i; j < len(z); j++ {
			if !assigned[j] && cmplx.Abs(z[j]-z[i]) <= clusterTol {
				members = append(members, j)
				centroid += z[j]
			}
		}
		if len(members) < 2 {
			continue
		}
		centroid /= complex(float64(len(members)), 0)

		q := p
		for range len(members) - 1 {
			q = derivative(q)
		}
		root, ok := newton(q, centroid)
		if !ok {
			continue
		}

		fit := cmplx.Abs(horner(p, root))
		floor := hornerError(p, root)
		better := true
		for _, j := range members {
			if r := cmplx.Abs(horner(p, z[j])); fit > math.Max(r, floor) {
				better = false
				break
			}
		}
		if !better {
			continue
		}
		for _, j := range members {
			z[j] = root
			assigned[j] = true
		}
	}
}

// derivative returns the derivative of p in descending powers.
func derivative(p []complex128) []complex128 {
	n := len(p) - 1
	if n < 1 {
		return nil
	}
	out := make([]complex128, n)
	for i := range out {
		out[i] = p[i] * complex(float64(n-i), 0)
	}
	return out
}

func newton(q []complex128, x complex128) (complex128, bool) {
	dq := derivative(q)
	if len(dq) == 0 {
		return x, false
	}
	for range polishIter {
		d := horner(dq, x)
		if d == 0 {
			return x, false
		}
		step := horner(q, x) / d
		x -= step
		if cmplx.Abs(step) <= 1e-15*math.Max(1, cmplx.Abs(x)) {
			break
		}
	}
	return x, !cmplx.IsNaN(x) && !cmplx.IsInf(x)
}

func horner(p []complex128, x complex128) complex128 {
	var v complex128
	for _, c := range p {
		v = v*x + c
	}
	return v
}

// hornerError bounds the rounding error of horner(p, x).
func hornerError(p []complex128, x complex128) float64 {
	ax := cmplx.Abs(x)
	var sum float64
	for _, c := range p {
		sum = sum*ax + cmplx.Abs(c)
	}
	return 4 * float64(len(p)) * 0x1p-52 * sum
}

func isConjugate(a, b complex128) bool {
	return math.Abs(real(a)-real(b)) <= conjugateTol*math.Max(1, math.Abs(real(a))) &&
		math.Abs(imag(a)+imag(b)) <= conjugateTol*math.Max(1, math.Abs(imag(a)))
}
