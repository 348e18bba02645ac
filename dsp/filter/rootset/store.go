package rootset

import (
	"fmt"
	"math"
	"slices"
)

// Store holds the editable root set. It is not safe for concurrent use;
// callers serialize access on the control side.
type Store struct {
	cfg config

	slots []slot
	free  []uint32
	zeros []uint32
	poles []uint32

	gain             float64
	totalOrder       int
	finiteZerosOrder int
	version          uint64
}

// New returns an empty store.
func New(opts ...Option) *Store {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Store{cfg: cfg, gain: cfg.gain}
}

// Add appends a root of the given order. Zeros start at 1+0i and poles at
// the origin. Adding a zero may append a compensating origin pole.
func (s *Store) Add(order int) (Ref, error) {
	if order == 0 {
		return Ref{}, violation(ErrZeroOrder)
	}

	var v complex128
	if order > 0 {
		v = 1
	}
	ref := s.insert(Root{Value: v, Order: order})
	s.fixup()
	return ref, nil
}

// Remove detaches the root behind ref. It returns false for a stale ref.
func (s *Store) Remove(ref Ref) bool {
	sl, ok := s.lookup(ref)
	if !ok {
		return false
	}

	root := sl.root
	if root.IsZero() {
		s.zeros = deleteIndex(s.zeros, ref.slot)
		s.finiteZerosOrder -= root.Degree()
	} else {
		s.poles = deleteIndex(s.poles, ref.slot)
		s.totalOrder -= root.Degree()
	}

	sl.live = false
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.root = Root{}
	s.free = append(s.free, ref.slot)

	s.version++
	s.fixup()
	return true
}

// SetValue moves the root behind ref to v. Poles are clamped inside the
// configured radius. Crossing the real axis changes the root's degree and
// the counters follow.
func (s *Store) SetValue(ref Ref, v complex128) error {
	sl, ok := s.lookup(ref)
	if !ok {
		return violation(ErrStaleRef)
	}

	if s.cfg.axisSnap > 0 && math.Abs(imag(v)) <= s.cfg.axisSnap {
		v = complex(real(v), 0)
	}
	if sl.root.IsPole() {
		v = clampRadius(v, s.cfg.maxPoleRadius)
	}

	before := sl.root.Degree()
	sl.root.Value = v
	s.adjust(sl.root, sl.root.Degree()-before)

	s.version++
	s.fixup()
	return nil
}

// SetOrder changes the multiplicity of the root behind ref. The sign of the
// order must not change.
func (s *Store) SetOrder(ref Ref, order int) error {
	if order == 0 {
		return violation(ErrZeroOrder)
	}
	sl, ok := s.lookup(ref)
	if !ok {
		return violation(ErrStaleRef)
	}
	if (order > 0) != sl.root.IsZero() {
		return violation(fmt.Errorf("%w: %d -> %d", ErrOrderSign, sl.root.Order, order))
	}

	before := sl.root.Degree()
	sl.root.Order = order
	s.adjust(sl.root, sl.root.Degree()-before)

	s.version++
	s.fixup()
	return nil
}

// SetGain sets the linear output gain.
func (s *Store) SetGain(g float64) {
	s.gain = g
	s.version++
}

// Gain returns the linear output gain.
func (s *Store) Gain() float64 { return s.gain }

// Get returns the root behind ref.
func (s *Store) Get(ref Ref) (Root, bool) {
	sl, ok := s.lookup(ref)
	if !ok {
		return Root{}, false
	}
	return sl.root, true
}

// Zeros returns the zeros in insertion order.
func (s *Store) Zeros() []Root { return s.collect(s.zeros) }

// Poles returns the poles in insertion order.
func (s *Store) Poles() []Root { return s.collect(s.poles) }

// ZeroRefs returns handles to the zeros in insertion order.
func (s *Store) ZeroRefs() []Ref { return s.refs(s.zeros) }

// PoleRefs returns handles to the poles in insertion order.
func (s *Store) PoleRefs() []Ref { return s.refs(s.poles) }

// Len returns the number of stored roots.
func (s *Store) Len() int { return len(s.zeros) + len(s.poles) }

// TotalOrder returns the summed pole degree.
func (s *Store) TotalOrder() int { return s.totalOrder }

// FiniteZerosOrder returns the summed zero degree.
func (s *Store) FiniteZerosOrder() int { return s.finiteZerosOrder }

// Version increases on every mutation.
func (s *Store) Version() uint64 { return s.version }

// Clear removes every root. Outstanding refs go stale; the gain is kept.
func (s *Store) Clear() {
	for _, idx := range slices.Concat(s.zeros, s.poles) {
		sl := &s.slots[idx]
		sl.live = false
		sl.gen++
		if sl.gen == 0 {
			sl.gen = 1
		}
		sl.root = Root{}
		s.free = append(s.free, idx)
	}
	s.zeros = s.zeros[:0]
	s.poles = s.poles[:0]
	s.totalOrder = 0
	s.finiteZerosOrder = 0
	s.version++
}

// Validate checks the causality invariant.
func (s *Store) Validate() error {
	if s.finiteZerosOrder > s.totalOrder {
		return fmt.Errorf("%w: %d zeros, %d poles", ErrCausality, s.finiteZerosOrder, s.totalOrder)
	}
	return nil
}

// Snapshot returns an immutable copy of the root set.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Zeros:            s.Zeros(),
		Poles:            s.Poles(),
		Gain:             s.gain,
		TotalOrder:       s.totalOrder,
		FiniteZerosOrder: s.finiteZerosOrder,
		Version:          s.version,
	}
}

// fixup appends an origin pole absorbing any excess zero degree. Running it
// on a causal store does nothing.
func (s *Store) fixup() {
	if slack := s.finiteZerosOrder - s.totalOrder; slack > 0 {
		s.insert(Root{Value: 0, Order: -slack})
	}
}

func (s *Store) insert(root Root) Ref {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		idx = uint32(len(s.slots) - 1)
	}

	sl := &s.slots[idx]
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.root = root
	sl.live = true

	if root.IsZero() {
		s.zeros = append(s.zeros, idx)
	} else {
		s.poles = append(s.poles, idx)
	}
	s.adjust(root, root.Degree())
	s.version++

	return Ref{slot: idx, gen: sl.gen}
}

func (s *Store) adjust(root Root, delta int) {
	if root.IsZero() {
		s.finiteZerosOrder += delta
	} else {
		s.totalOrder += delta
	}
}

func (s *Store) lookup(ref Ref) (*slot, bool) {
	if ref.gen == 0 || int(ref.slot) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[ref.slot]
	if !sl.live || sl.gen != ref.gen {
		return nil, false
	}
	return sl, true
}

func (s *Store) collect(idx []uint32) []Root {
	out := make([]Root, len(idx))
	for i, j := range idx {
		out[i] = s.slots[j].root
	}
	return out
}

func (s *Store) refs(idx []uint32) []Ref {
	out := make([]Ref, len(idx))
	for i, j := range idx {
		out[i] = Ref{slot: j, gen: s.slots[j].gen}
	}
	return out
}

func deleteIndex(list []uint32, idx uint32) []uint32 {
	if i := slices.Index(list, idx); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
