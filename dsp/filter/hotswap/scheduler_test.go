package hotswap

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
	"github.com/cwbudde/algo-pzfilter/internal/testutil"
)

const testBlock = 32

func gainCascade(g float64) *cascade.Cascade {
	return &cascade.Cascade{Gain: g}
}

func dcBlock(channels, n int, v float64) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, n)
		for i := range out[ch] {
			out[ch][i] = v
		}
	}
	return out
}

func fill(bufs [][]float64, v float64) {
	for _, b := range bufs {
		for i := range b {
			b[i] = v
		}
	}
}

func prepared(t *testing.T, channels int) *Scheduler {
	t.Helper()
	s := New()
	if err := s.Prepare(48000, testBlock, channels); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPublishBeforePrepare(t *testing.T) {
	s := New()
	if s.State() != Unprepared {
		t.Fatalf("state = %v", s.State())
	}

	out, err := s.Publish(gainCascade(0.5))
	if err != nil || out != Applied {
		t.Fatalf("Publish = %v, %v; want Applied", out, err)
	}

	bufs := dcBlock(1, testBlock, 1)
	s.ProcessBlock(bufs)
	testutil.RequireSliceNearlyEqual(t, bufs[0], testutil.Step(testBlock, 0), 0)

	if err := s.Prepare(48000, testBlock, 1); err != nil {
		t.Fatal(err)
	}
	if s.State() != Active {
		t.Fatalf("state = %v, want active", s.State())
	}
	s.ProcessBlock(bufs)
	for i, v := range bufs[0] {
		if v != 0.5 {
			t.Fatalf("sample %d = %v, want 0.5", i, v)
		}
	}
	if s.Stats().Swaps != 0 {
		t.Fatalf("Prepare counted as a swap: %+v", s.Stats())
	}
}

func TestSwapCrossfadesOneBlock(t *testing.T) {
	s := prepared(t, 2)

	out, err := s.Publish(gainCascade(0))
	if err != nil || out != Pending {
		t.Fatalf("Publish = %v, %v; want Pending", out, err)
	}
	if s.State() != PendingReady {
		t.Fatalf("state = %v, want pending", s.State())
	}

	bufs := dcBlock(2, testBlock, 1)
	s.ProcessBlock(bufs)
	for ch := range bufs {
		for i, v := range bufs[ch] {
			want := 1 - float64(i)/testBlock
			if math.Abs(v-want) > 1e-15 {
				t.Fatalf("ch %d sample %d = %v, want %v", ch, i, v, want)
			}
		}
	}

	fill(bufs, 1)
	s.ProcessBlock(bufs)
	for _, v := range bufs[0] {
		if v != 0 {
			t.Fatalf("after swap output = %v, want 0", v)
		}
	}
	if st := s.Stats(); st.Swaps != 1 || s.State() != Active {
		t.Fatalf("stats = %+v, state = %v", st, s.State())
	}
}

func TestCrossfadeIsContinuous(t *testing.T) {
	s := prepared(t, 1)
	if _, err := s.Publish(&cascade.Cascade{
		Sections: []cascade.Section{{B1: 0.1, A1: 1, A2: -0.9}},
		Gain:     1,
	}); err != nil {
		t.Fatal(err)
	}

	sine := testutil.DeterministicSine(300, 48000, 1, 8*testBlock)
	out := append([]float64(nil), sine...)
	for off := 0; off < len(out); off += testBlock {
		s.ProcessBlock([][]float64{out[off : off+testBlock]})
	}

	// The input moves at most 2*pi*300/48000 per sample; the crossfade
	// must not add a jump much larger than that.
	if step := testutil.MaxStep(out); step > 0.1 {
		t.Fatalf("largest sample step %v suggests a click", step)
	}
}

func TestOneSwapPerUpdate(t *testing.T) {
	s := prepared(t, 1)
	if _, err := s.Publish(gainCascade(2)); err != nil {
		t.Fatal(err)
	}
	bufs := dcBlock(1, testBlock, 1)
	for range 5 {
		s.ProcessBlock(bufs)
	}
	if st := s.Stats(); st.Swaps != 1 {
		t.Fatalf("swaps = %d, want 1", st.Swaps)
	}
}

func TestDeferredResultIsEventuallyApplied(t *testing.T) {
	s := prepared(t, 1)

	if out, _ := s.Publish(gainCascade(0.1)); out != Pending {
		t.Fatalf("first Publish = %v", out)
	}
	if out, _ := s.Publish(gainCascade(0.2)); out != Deferred {
		t.Fatalf("second Publish = %v", out)
	}
	if out, _ := s.Publish(gainCascade(0.3)); out != Deferred {
		t.Fatalf("third Publish = %v", out)
	}
	if !s.HasDeferred() {
		t.Fatal("no deferred cascade")
	}
	if s.Flush() {
		t.Fatal("Flush succeeded while a swap was pending")
	}

	bufs := dcBlock(1, testBlock, 1)
	s.ProcessBlock(bufs)

	if !s.Flush() {
		t.Fatal("Flush failed after the swap")
	}
	if s.HasDeferred() {
		t.Fatal("deferred cascade still held")
	}
	fill(bufs, 1)
	s.ProcessBlock(bufs)
	fill(bufs, 1)
	s.ProcessBlock(bufs)
	if v := bufs[0][testBlock-1]; math.Abs(v-0.3) > 1e-15 {
		t.Fatalf("output = %v, want the last published gain 0.3", v)
	}

	st := s.Stats()
	if st.Swaps != 2 || st.Deferrals != 2 || st.Superseded != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if got := s.Latest().Gain; got != 0.3 {
		t.Fatalf("Latest().Gain = %v", got)
	}
}

func TestPublishReplacesDeferred(t *testing.T) {
	s := prepared(t, 1)
	_, _ = s.Publish(gainCascade(0.1))
	_, _ = s.Publish(gainCascade(0.2))

	s.ProcessBlock(dcBlock(1, testBlock, 1))

	if out, _ := s.Publish(gainCascade(0.4)); out != Pending {
		t.Fatalf("Publish after swap = %v, want Pending", out)
	}
	if s.HasDeferred() {
		t.Fatal("superseded cascade still deferred")
	}
	if s.Stats().Superseded != 1 {
		t.Fatalf("stats = %+v", s.Stats())
	}
}

func TestLongBlocksAreChunked(t *testing.T) {
	s := prepared(t, 1)
	_, _ = s.Publish(gainCascade(0.5))
	s.ProcessBlock(dcBlock(1, testBlock, 1))

	bufs := dcBlock(1, 3*testBlock+5, 1)
	s.ProcessBlock(bufs)
	for i, v := range bufs[0] {
		if v != 0.5 {
			t.Fatalf("sample %d = %v, want 0.5", i, v)
		}
	}
}

func TestShortBlockCrossfade(t *testing.T) {
	s := prepared(t, 1)
	_, _ = s.Publish(gainCascade(0))

	bufs := dcBlock(1, 8, 1)
	s.ProcessBlock(bufs)
	for i, v := range bufs[0] {
		if want := 1 - float64(i)/8; math.Abs(v-want) > 1e-15 {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestExtraChannelsPassThrough(t *testing.T) {
	s := prepared(t, 1)
	_, _ = s.Publish(gainCascade(0.5))
	s.ProcessBlock(dcBlock(1, testBlock, 1))

	bufs := dcBlock(2, testBlock, 1)
	s.ProcessBlock(bufs)
	if bufs[0][0] != 0.5 || bufs[1][0] != 1 {
		t.Fatalf("outputs = %v, %v", bufs[0][0], bufs[1][0])
	}
}

func TestPublishRejectsInvalidCascade(t *testing.T) {
	s := prepared(t, 1)
	if _, err := s.Publish(&cascade.Cascade{Delay: -1}); !errors.Is(err, cascade.ErrNegativeDelay) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Publish(&cascade.Cascade{Sections: []cascade.Section{{B0: 1, A2: 1}}}); !errors.Is(err, cascade.ErrNonCausal) {
		t.Fatalf("err = %v", err)
	}
	if s.State() != Active {
		t.Fatalf("state = %v after rejected publish", s.State())
	}
}

func TestPrepareRejectsInvalidConfig(t *testing.T) {
	if err := New().Prepare(0, 64, 2); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestReleaseKeepsLatest(t *testing.T) {
	s := prepared(t, 1)
	_, _ = s.Publish(gainCascade(0.25))
	s.Release()

	if s.State() != Unprepared {
		t.Fatalf("state = %v", s.State())
	}
	bufs := dcBlock(1, testBlock, 1)
	s.ProcessBlock(bufs)
	if bufs[0][0] != 1 {
		t.Fatalf("released scheduler altered audio: %v", bufs[0][0])
	}

	if err := s.Prepare(44100, testBlock, 1); err != nil {
		t.Fatal(err)
	}
	s.ProcessBlock(bufs)
	if bufs[0][0] != 0.25 {
		t.Fatalf("output = %v, want 0.25", bufs[0][0])
	}
}

func TestProcessBlockNoAlloc(t *testing.T) {
	s := prepared(t, 2)
	_, _ = s.Publish(&cascade.Cascade{
		Sections: []cascade.Section{{B0: 1, A0: 1, A1: -1.2, A2: 0.5}},
		FIR:      []cascade.Taps{{1, 0.5, 0}},
		Delay:    3,
		Gain:     0.7,
	})
	bufs := dcBlock(2, testBlock, 0.1)
	s.ProcessBlock(bufs)

	allocs := testing.AllocsPerRun(100, func() {
		s.ProcessBlock(bufs)
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per run", allocs)
	}
}

func TestConcurrentPublishAndProcess(t *testing.T) {
	s := prepared(t, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 300 {
			g := 0.5 + 0.5*float64(i%7)/6
			if _, err := s.Publish(gainCascade(g)); err != nil {
				t.Error(err)
				return
			}
			s.Flush()
		}
		_, _ = s.Publish(gainCascade(0.75))
	}()

	bufs := dcBlock(2, testBlock, 1)
	for range 3000 {
		fill(bufs, 1)
		s.ProcessBlock(bufs)
		for _, v := range bufs[0] {
			if v < 0.5-1e-12 || v > 1+1e-12 {
				t.Fatalf("output %v outside the published gain range", v)
			}
		}
	}
	wg.Wait()

	for s.HasDeferred() || s.State() == PendingReady {
		s.Flush()
		fill(bufs, 1)
		s.ProcessBlock(bufs)
	}
	fill(bufs, 1)
	s.ProcessBlock(bufs)
	if v := bufs[1][testBlock-1]; math.Abs(v-0.75) > 1e-12 {
		t.Fatalf("final output %v, want 0.75", v)
	}
}

func TestConcurrentPrepareAndProcess(t *testing.T) {
	s := prepared(t, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		bufs := dcBlock(1, testBlock, 1)
		for range 2000 {
			fill(bufs, 1)
			s.ProcessBlock(bufs)
		}
	}()

	for i := range 50 {
		_, _ = s.Publish(gainCascade(0.5))
		if i%10 == 9 {
			s.Release()
		}
		if err := s.Prepare(48000, testBlock, 1); err != nil {
			t.Fatal(err)
		}
	}
	<-done
}

func TestStringers(t *testing.T) {
	if Applied.String() != "applied" || Pending.String() != "pending" || Deferred.String() != "deferred" {
		t.Fatal("unexpected Outcome strings")
	}
	if Unprepared.String() != "unprepared" || Active.String() != "active" || PendingReady.String() != "pending" {
		t.Fatal("unexpected State strings")
	}
}
