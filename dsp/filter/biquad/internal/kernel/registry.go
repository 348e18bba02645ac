// Package kernel holds the block-processing kernels for a single biquad
// section and picks one for the running CPU.
package kernel

import (
	"cmp"
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients are biquad transfer coefficients (a0 normalized to 1).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// ProcessBlockFn filters buf in place, starting from the transposed-form
// registers s1 and s2, and returns their values after the last sample.
type ProcessBlockFn func(c Coefficients, s1, s2 float64, buf []float64) (next1, next2 float64)

// Entry is one registered kernel.
type Entry struct {
	Name         string
	SIMDLevel    cpu.SIMDLevel
	Priority     int
	ProcessBlock ProcessBlockFn
}

// Registry keeps kernels ordered by descending priority.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// Global is the registry the biquad package dispatches through.
var Global = &Registry{}

func init() {
	Global.Register(Entry{
		Name:         "generic",
		SIMDLevel:    cpu.SIMDNone,
		Priority:     0,
		ProcessBlock: processBlock2,
	})
	Global.Register(Entry{
		Name:         "unroll4",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock4,
	})
}

// Register adds a kernel.
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	slices.SortStableFunc(r.entries, func(a, b Entry) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// Lookup returns the highest-priority kernel supported by features, or nil.
func (r *Registry) Lookup(features cpu.Features) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		if cpu.Supports(features, r.entries[i].SIMDLevel) {
			entry := r.entries[i]
			return &entry
		}
	}
	return nil
}

// Names lists registered kernels in priority order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}
