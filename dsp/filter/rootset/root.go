package rootset

import "math"

// Root is one pole or zero. Order > 0 is a zero, Order < 0 a pole, and
// |Order| the multiplicity. A Value off the real axis implies its conjugate.
type Root struct {
	Value complex128
	Order int
}

// IsZero reports whether r is a zero.
func (r Root) IsZero() bool { return r.Order > 0 }

// IsPole reports whether r is a pole.
func (r Root) IsPole() bool { return r.Order < 0 }

// OnAxis reports whether r lies on the real axis.
func (r Root) OnAxis() bool { return imag(r.Value) == 0 }

// Multiplicity returns |Order|.
func (r Root) Multiplicity() int {
	if r.Order < 0 {
		return -r.Order
	}
	return r.Order
}

// Degree returns the number of polynomial roots r contributes: |Order| on
// the real axis, twice that off it.
func (r Root) Degree() int {
	if r.OnAxis() {
		return r.Multiplicity()
	}
	return 2 * r.Multiplicity()
}

// Ref is a stable handle to a root inside a Store. The zero Ref is never
// valid.
type Ref struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether ref is the zero Ref.
func (ref Ref) IsZero() bool { return ref.gen == 0 }

type slot struct {
	root Root
	gen  uint32
	live bool
}

func clampRadius(v complex128, maxRadius float64) complex128 {
	mag := math.Hypot(real(v), imag(v))
	if mag <= maxRadius || mag == 0 {
		return v
	}
	scale := maxRadius / mag
	return complex(real(v)*scale, imag(v)*scale)
}
