package hotswap

import (
	"testing"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
)

func benchScheduler(b *testing.B) (*Scheduler, [][]float64) {
	b.Helper()
	s := New()
	if err := s.Prepare(48000, 256, 2); err != nil {
		b.Fatal(err)
	}
	cs := &cascade.Cascade{
		Sections: []cascade.Section{{B0: 1, B1: 0, B2: 1, A0: 1, A1: -1.6, A2: 0.81}},
		Gain:     0.5,
	}
	if _, err := s.Publish(cs); err != nil {
		b.Fatal(err)
	}
	return s, dcBlock(2, 256, 0.25)
}

func BenchmarkProcessBlockSteady(b *testing.B) {
	s, bufs := benchScheduler(b)
	s.ProcessBlock(bufs)
	b.ReportAllocs()
	for b.Loop() {
		s.ProcessBlock(bufs)
	}
}

func BenchmarkProcessBlockSwap(b *testing.B) {
	s, bufs := benchScheduler(b)
	a := gainCascade(0.5)
	c := gainCascade(0.75)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		b.StopTimer()
		next := a
		if i%2 == 1 {
			next = c
		}
		if _, err := s.Publish(next); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		s.ProcessBlock(bufs)
	}
}
