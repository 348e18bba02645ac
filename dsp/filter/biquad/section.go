package biquad

import (
	"sync"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients is one normalized section in z^-1:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
//
// A first-order stage leaves B2 and A2 at zero.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section runs Coefficients in transposed direct form II. The two state
// registers carry the partial sums of the feedforward and feedback paths.
type Section struct {
	Coefficients

	s1, s2 float64
}

var (
	blockKernel     kernel.ProcessBlockFn
	blockKernelName string
	blockKernelOnce sync.Once
)

// NewSection returns a Section at rest.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample advances the section by one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.s1 + s.B0*x
	s.s1 = s.s2 + s.B1*x - s.A1*y
	s.s2 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters buf in place without allocating.
func (s *Section) ProcessBlock(buf []float64) {
	blockKernelOnce.Do(selectKernel)
	k := kernel.Coefficients{B0: s.B0, B1: s.B1, B2: s.B2, A1: s.A1, A2: s.A2}
	s.s1, s.s2 = blockKernel(k, s.s1, s.s2, buf)
}

// Reset returns the section to rest.
func (s *Section) Reset() {
	s.s1, s.s2 = 0, 0
}

// KernelName is the block kernel selected for this CPU.
func KernelName() string {
	blockKernelOnce.Do(selectKernel)
	return blockKernelName
}

func selectKernel() {
	entry := kernel.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.ProcessBlock == nil {
		panic("biquad: no block kernel available for this CPU")
	}
	blockKernel = entry.ProcessBlock
	blockKernelName = entry.Name
}
