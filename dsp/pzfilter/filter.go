package pzfilter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/design/polezero"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/hotswap"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
)

// ErrInterval is returned by Run for a non-positive interval.
var ErrInterval = errors.New("pzfilter: flush interval must be positive")

// minFlushInterval bounds the default flush interval for tiny blocks.
const minFlushInterval = time.Millisecond

// Stats reports synthesis and swap counters.
type Stats struct {
	Syntheses uint64
	Scheduler hotswap.Stats
}

// Filter ties a root store, a designer and a swap scheduler together.
// Control methods may be called from any goroutine; they serialize on an
// internal mutex. Audio methods must be called from one goroutine at a time.
type Filter struct {
	mu        sync.Mutex
	store     *rootset.Store
	storeOpts []rootset.Option
	designer  *polezero.Designer
	sched     *hotswap.Scheduler
	log       *slog.Logger

	synthesized uint64
	syntheses   uint64
	current     *cascade.Cascade
	plan        polezero.Plan
	lastOrder   int

	frames atomic.Pointer[frameBuffer]

	flushEvery time.Duration
	loopMu     sync.Mutex
	stopLoop   context.CancelFunc
	loopDone   chan struct{}
}

// frameBuffer is the planar scratch ProcessInterleaved works in.
type frameBuffer struct {
	planar [][]float64
	views  [][]float64
}

// New returns a filter with an empty root set. Its cascade is the identity.
func New(opts ...Option) *Filter {
	f := &Filter{
		designer: polezero.New(),
		sched:    hotswap.New(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.store == nil {
		f.store = rootset.New(f.storeOpts...)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.synthesize(); err != nil {
		f.log.Error("initial synthesis failed", "err", err)
	}
	return f
}

// Add appends a root of the given order and re-synthesizes.
func (f *Filter) Add(order int) (rootset.Ref, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ref, err := f.store.Add(order)
	if err != nil {
		return ref, err
	}
	return ref, f.commit()
}

// Remove deletes the root behind ref and re-synthesizes. It reports false
// for a stale ref.
func (f *Filter) Remove(ref rootset.Ref) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.store.Remove(ref) {
		return false
	}
	if err := f.commit(); err != nil {
		f.log.Error("synthesis after remove failed", "err", err)
	}
	return true
}

// SetValue moves the root behind ref and re-synthesizes.
func (f *Filter) SetValue(ref rootset.Ref, v complex128) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.SetValue(ref, v); err != nil {
		return err
	}
	return f.commit()
}

// SetOrder changes the multiplicity of the root behind ref and
// re-synthesizes.
func (f *Filter) SetOrder(ref rootset.Ref, order int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.SetOrder(ref, order); err != nil {
		return err
	}
	return f.commit()
}

// SetGain sets the linear output gain and re-synthesizes.
func (f *Filter) SetGain(g float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.store.SetGain(g)
	return f.commit()
}

// Edit runs fn against the store and re-synthesizes once afterwards if
// anything changed. Changes made before fn returns an error are kept.
func (f *Filter) Edit(fn func(s *rootset.Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fnErr := fn(f.store)
	if err := f.commit(); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

// Snapshot returns a copy of the current root set.
func (f *Filter) Snapshot() rootset.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Snapshot()
}

// Cascade returns a copy of the most recently synthesized cascade.
func (f *Filter) Cascade() *cascade.Cascade {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Clone()
}

// Plan returns the pairing plan behind the current cascade.
func (f *Filter) Plan() polezero.Plan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plan
}

// Stats returns synthesis and swap counters.
func (f *Filter) Stats() Stats {
	f.mu.Lock()
	n := f.syntheses
	f.mu.Unlock()
	return Stats{Syntheses: n, Scheduler: f.sched.Stats()}
}

// Flush hands a deferred cascade to the audio side once the previous swap
// has completed. It reports whether one was handed over.
func (f *Filter) Flush() bool {
	return f.sched.Flush()
}

// Run flushes deferred cascades every interval until ctx is done.
func (f *Filter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if f.sched.Flush() {
				f.log.Debug("flushed deferred cascade")
			}
		}
	}
}

// Prepare sizes the audio side and starts flushing deferred cascades in
// the background until Close. It may be called again to change the
// context; the current cascade goes live without a crossfade.
func (f *Filter) Prepare(sampleRate float64, blockSize, channels int) error {
	if err := f.sched.Prepare(sampleRate, blockSize, channels); err != nil {
		return err
	}

	fb := &frameBuffer{
		planar: core.EnsureChannels(nil, channels, blockSize),
		views:  make([][]float64, channels),
	}
	f.frames.Store(fb)

	interval := f.flushEvery
	if interval == 0 {
		interval = max(time.Duration(float64(blockSize)/sampleRate*float64(time.Second)), minFlushInterval)
	}
	f.startFlushLoop(interval)

	f.log.Info("prepared",
		"sampleRate", sampleRate,
		"blockSize", blockSize,
		"channels", channels,
		"flushInterval", interval)
	return nil
}

// ProcessBlock filters planar channels in place.
func (f *Filter) ProcessBlock(channels [][]float64) {
	f.sched.ProcessBlock(channels)
}

// ProcessInterleaved filters interleaved frames in place using the prepared
// channel count. Trailing samples that do not fill a frame are left alone.
func (f *Filter) ProcessInterleaved(buf []float64) {
	fb := f.frames.Load()
	if fb == nil {
		return
	}
	channels := len(fb.planar)
	blockSize := len(fb.planar[0])
	frames := len(buf) / channels

	for off := 0; off < frames; off += blockSize {
		n := min(blockSize, frames-off)
		for ch := range channels {
			fb.views[ch] = fb.planar[ch][:n]
		}
		chunk := buf[off*channels : (off+n)*channels]
		core.Deinterleave(fb.views, chunk)
		f.sched.ProcessBlock(fb.views)
		core.Interleave(chunk, fb.views, n)
	}
}

// Close stops the background flush and releases the audio side.
func (f *Filter) Close() error {
	f.stopFlushLoop()
	f.sched.Release()
	f.frames.Store(nil)
	return nil
}

// startFlushLoop replaces the background flush loop. A negative interval leaves
// flushing to the caller.
func (f *Filter) startFlushLoop(interval time.Duration) {
	f.stopFlushLoop()
	if interval < 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	f.loopMu.Lock()
	f.stopLoop, f.loopDone = cancel, done
	f.loopMu.Unlock()

	go func() {
		defer close(done)
		_ = f.Run(ctx, interval)
	}()
}

func (f *Filter) stopFlushLoop() {
	f.loopMu.Lock()
	cancel, done := f.stopLoop, f.loopDone
	f.stopLoop, f.loopDone = nil, nil
	f.loopMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// commit re-synthesizes when the store changed since the last synthesis.
func (f *Filter) commit() error {
	if f.store.Version() == f.synthesized {
		return nil
	}
	return f.synthesize()
}

func (f *Filter) synthesize() error {
	snap := f.store.Snapshot()

	if snap.TotalOrder != f.lastOrder {
		f.log.Debug("order changed",
			"from", f.lastOrder,
			"to", snap.TotalOrder,
			"zeros", snap.FiniteZerosOrder)
		f.lastOrder = snap.TotalOrder
	}

	c, plan := f.designer.Design(snap)
	outcome, err := f.sched.Publish(c)
	if err != nil {
		return err
	}

	f.current = c
	f.plan = plan
	f.synthesized = snap.Version
	f.syntheses++

	f.log.Debug("synthesized",
		"version", snap.Version,
		"sections", len(c.Sections),
		"fir", len(c.FIR),
		"delay", c.Delay,
		"outcome", outcome)
	return nil
}
