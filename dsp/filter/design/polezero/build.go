package polezero

import (
	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
)

// Designer pairs root sets and builds cascades. A Designer is immutable
// and safe for concurrent use.
type Designer struct {
	cfg Config
}

// New returns a Designer with the given options applied to DefaultConfig.
func New(opts ...Option) *Designer {
	return &Designer{cfg: ApplyOptions(opts...)}
}

// Config returns the pairing constants.
func (d *Designer) Config() Config {
	return d.cfg
}

// Design pairs snap and builds its cascade.
func (d *Designer) Design(snap rootset.Snapshot) (*cascade.Cascade, Plan) {
	plan := d.Pair(snap)
	return d.Build(plan), plan
}

// Build writes plan out as a cascade. Pole stages come in priority order,
// followed by the origin-absorbed zero stages; the list is then reversed so
// the highest-priority stage runs last.
func (d *Designer) Build(plan Plan) *cascade.Cascade {
	out := &cascade.Cascade{
		Sections: make([]cascade.Section, 0, len(plan.Matches)+len(plan.NullMatches)),
		Delay:    plan.Delay,
		Gain:     plan.Gain,
	}

	for _, m := range plan.Matches {
		out.Sections = append(out.Sections, poleStage(m))
	}
	for _, z := range plan.NullMatches {
		out.Sections = append(out.Sections, originStage(z))
	}
	reverse(out.Sections)

	if len(plan.Leftover) > 0 {
		out.FIR = make([]cascade.Taps, len(plan.Leftover))
		for i, z := range plan.Leftover {
			out.FIR[i] = firStage(z)
		}
	}

	return out
}

func poleStage(m PoleMatch) cascade.Section {
	var s cascade.Section

	switch m.Kind {
	case PartnerPole:
		p1, p2 := real(m.Pole.Value), real(m.Partner.Value)
		s.A0, s.A1, s.A2 = 1, -(p1 + p2), p1*p2
		if m.HasZero {
			s.B0, s.B1, s.B2 = numerator(m.Zero)
		} else {
			s.B0 = 1
		}
		return s
	case PartnerZero:
		if m.Pole.Conjugate {
			s.B0, s.B1, s.B2 = numerator(m.Zero)
		} else {
			s.B1, s.B2 = 1, -real(m.Zero.Value)
		}
	case PartnerDelay:
		s.B2 = 1
	default:
		if m.Pole.Conjugate {
			s.B0 = 1
		} else {
			s.B1 = 1
		}
	}

	if m.Pole.Conjugate {
		s.A0, s.A1, s.A2 = quadratic(m.Pole.Value)
	} else {
		s.A1, s.A2 = 1, -real(m.Pole.Value)
	}
	return s
}

// numerator returns the zero factor of a second-order stage. A real zero
// becomes z(z - r), keeping the numerator degree equal to the pole degree.
func numerator(z Unit) (float64, float64, float64) {
	if z.Conjugate {
		return quadratic(z.Value)
	}
	return 1, -real(z.Value), 0
}

func originStage(z Unit) cascade.Section {
	if z.Conjugate {
		b0, b1, b2 := quadratic(z.Value)
		return cascade.Section{B0: b0, B1: b1, B2: b2, A0: 1}
	}
	return cascade.Section{B1: 1, B2: -real(z.Value), A1: 1}
}

func firStage(z Unit) cascade.Taps {
	if z.Conjugate {
		b0, b1, b2 := quadratic(z.Value)
		return cascade.Taps{b0, b1, b2}
	}
	return cascade.Taps{1, -real(z.Value), 0}
}

// quadratic returns the monic factor (z - v)(z - conj(v)).
func quadratic(v complex128) (float64, float64, float64) {
	re, im := real(v), imag(v)
	return 1, -2 * re, re*re + im*im
}

func reverse(s []cascade.Section) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
