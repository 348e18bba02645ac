package polezero

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
)

// maxQ caps the Q of poles on or outside the unit circle.
const maxQ = 1e6

// PartnerKind says what a pole was paired with.
type PartnerKind int

const (
	// PartnerNone leaves the pole alone in its stage.
	PartnerNone PartnerKind = iota
	// PartnerZero pairs the pole with a zero. Real poles only take real
	// zeros. Conjugate poles take conjugate zeros, and real zeros that no
	// origin pole is left to absorb.
	PartnerZero
	// PartnerDelay pairs a real pole with one sample of delay.
	PartnerDelay
	// PartnerPole combines two real poles into one second-order stage.
	PartnerPole
)

func (k PartnerKind) String() string {
	switch k {
	case PartnerNone:
		return "none"
	case PartnerZero:
		return "zero"
	case PartnerDelay:
		return "delay"
	case PartnerPole:
		return "pole"
	default:
		return "unknown"
	}
}

// Unit is one instance of a root. A Conjugate unit stands for the pair
// Value, conj(Value).
type Unit struct {
	Value     complex128
	Conjugate bool
}

// Degree returns 1 for a real unit and 2 for a conjugate unit.
func (u Unit) Degree() int {
	if u.Conjugate {
		return 2
	}
	return 1
}

// PoleMatch records the partner chosen for one pole unit.
type PoleMatch struct {
	Pole Unit
	Key  float64
	Kind PartnerKind

	// Zero is set for PartnerZero, and for PartnerPole when the combined
	// stage claimed a zero (HasZero).
	Zero    Unit
	HasZero bool

	// Partner is the second real pole of a PartnerPole stage.
	Partner Unit
}

// Plan is the result of pairing a snapshot.
type Plan struct {
	// Matches holds one entry per pole stage in priority order.
	Matches []PoleMatch
	// NullMatches holds zeros absorbed by origin poles.
	NullMatches []Unit
	// Leftover holds zeros realized as FIR stages.
	Leftover []Unit
	// OriginUnits counts the degree of poles at the origin.
	OriginUnits int
	// Delay is the pure sample delay of the cascade.
	Delay int
	// Gain is the snapshot gain.
	Gain float64
}

type poleUnit struct {
	Unit
	key  float64
	used bool
}

type zeroUnit struct {
	Unit
	claimed bool
}

// zeroKinds selects the zero units a stage may claim.
type zeroKinds uint8

const (
	realZeros zeroKinds = 1 << iota
	conjugateZeros
)

func (k zeroKinds) accepts(u Unit) bool {
	if u.Conjugate {
		return k&conjugateZeros != 0
	}
	return k&realZeros != 0
}

// Key returns the priority key of a pole.
func (cfg Config) Key(p complex128) float64 {
	mag := cmplx.Abs(p)
	angle := math.Abs(cmplx.Phase(p))

	var q float64
	switch {
	case mag == 0:
		q = 0.5
	case mag >= 1:
		q = maxQ
	default:
		q = math.Min(-0.5*angle/math.Log(mag), maxQ)
	}

	return cfg.QWeight*q + cfg.MagnitudeWeight*mag + cfg.AngleWeight*angle
}

// Pair computes the pairing plan for snap.
func (d *Designer) Pair(snap rootset.Snapshot) Plan {
	cfg := d.cfg
	plan := Plan{Gain: snap.Gain}

	zeros := expandZeros(snap.Zeros)
	poles, originUnits := d.expandPoles(snap.Poles)
	plan.OriginUnits = originUnits

	budget := snap.TotalOrder - snap.FiniteZerosOrder
	freeOrigin := originUnits
	delayPartners := 0

	for i := range poles {
		p := &poles[i]
		if p.used {
			continue
		}
		p.used = true

		match := PoleMatch{Pole: p.Unit, Key: p.key}

		kinds := realZeros
		if p.Conjugate {
			kinds = conjugateZeros
			if unclaimedReal(zeros) > freeOrigin {
				kinds |= realZeros
			}
		}

		if z := cfg.bestZero(p.Value, kinds, zeros); z >= 0 {
			zeros[z].claimed = true
			match.Kind = PartnerZero
			match.Zero = zeros[z].Unit
			match.HasZero = true
			plan.Matches = append(plan.Matches, match)
			continue
		}

		if !p.Conjugate {
			switch {
			case freeOrigin > 0 && budget-delayPartners > 0:
				freeOrigin--
				delayPartners++
				match.Kind = PartnerDelay
			default:
				if q := closestRealPole(poles, i); q >= 0 {
					poles[q].used = true
					match.Kind = PartnerPole
					match.Partner = poles[q].Unit
					if z := cfg.bestZero(p.Value, realZeros|conjugateZeros, zeros); z >= 0 {
						zeros[z].claimed = true
						match.Zero = zeros[z].Unit
						match.HasZero = true
					}
				}
			}
		}

		plan.Matches = append(plan.Matches, match)
	}

	for _, z := range zeros {
		if z.claimed {
			continue
		}
		if need := z.Degree(); freeOrigin >= need {
			freeOrigin -= need
			plan.NullMatches = append(plan.NullMatches, z.Unit)
			continue
		}
		plan.Leftover = append(plan.Leftover, z.Unit)
	}

	plan.Delay = max(budget-delayPartners, 0)
	return plan
}

func expandZeros(roots []rootset.Root) []zeroUnit {
	var out []zeroUnit
	for _, r := range roots {
		u := Unit{Value: r.Value, Conjugate: !r.OnAxis()}
		for range r.Multiplicity() {
			out = append(out, zeroUnit{Unit: u})
		}
	}
	return out
}

// expandPoles returns the non-origin pole units in priority order together
// with the degree of the origin poles.
func (d *Designer) expandPoles(roots []rootset.Root) ([]poleUnit, int) {
	var out []poleUnit
	origin := 0
	for _, r := range roots {
		if cmplx.Abs(r.Value) <= d.cfg.NullTolerance {
			origin += r.Degree()
			continue
		}
		u := Unit{Value: r.Value, Conjugate: !r.OnAxis()}
		key := d.cfg.Key(r.Value)
		for range r.Multiplicity() {
			out = append(out, poleUnit{Unit: u, key: key})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].key > out[j].key
	})
	return out, origin
}

// bestZero returns the index of the unclaimed zero of an accepted kind
// closest in angle to p, or -1. A zero on the unit circle within the
// similarity window wins over a closer zero off it. Ties go to the zero
// nearest to p, then to the earlier zero.
func (cfg Config) bestZero(p complex128, kinds zeroKinds, zeros []zeroUnit) int {
	angle := math.Abs(cmplx.Phase(p))

	best, bestNotch := -1, -1
	var bestDist, bestNotchDist float64
	for i := range zeros {
		z := &zeros[i]
		if z.claimed || !kinds.accepts(z.Unit) {
			continue
		}

		dist := core.AngleDistance(angle, math.Abs(cmplx.Phase(z.Value)))
		if best < 0 || closer(dist, bestDist, z.Value, zeros[best].Value, p) {
			best, bestDist = i, dist
		}

		onCircle := math.Abs(cmplx.Abs(z.Value)-1) <= cfg.UnitCircleTolerance
		if onCircle && dist <= cfg.AngleSimilarity {
			if bestNotch < 0 || closer(dist, bestNotchDist, z.Value, zeros[bestNotch].Value, p) {
				bestNotch, bestNotchDist = i, dist
			}
		}
	}

	if bestNotch >= 0 {
		return bestNotch
	}
	return best
}

func unclaimedReal(zeros []zeroUnit) int {
	n := 0
	for _, z := range zeros {
		if !z.claimed && !z.Conjugate {
			n++
		}
	}
	return n
}

func closer(dist, bestDist float64, z, bestZ, p complex128) bool {
	if dist != bestDist {
		return dist < bestDist
	}
	return cmplx.Abs(z-p) < cmplx.Abs(bestZ-p)
}

// closestRealPole returns the unused real pole after index i closest in
// value to poles[i], or -1.
func closestRealPole(poles []poleUnit, i int) int {
	best := -1
	bestDist := math.Inf(1)
	for j := i + 1; j < len(poles); j++ {
		if poles[j].used || poles[j].Conjugate {
			continue
		}
		if d := math.Abs(real(poles[j].Value) - real(poles[i].Value)); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
