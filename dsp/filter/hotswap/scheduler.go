package hotswap

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/cascade"
	"github.com/cwbudde/algo-vecmath"
)

// ErrNotPrepared is returned by operations that need a prepared scheduler.
var ErrNotPrepared = errors.New("hotswap: scheduler not prepared")

// Outcome reports what Publish did with a cascade.
type Outcome int

const (
	// Applied means the cascade is stored and goes live at Prepare.
	Applied Outcome = iota
	// Pending means the cascade is loaded and swaps in on the next block.
	Pending
	// Deferred means a previous cascade is still waiting; this one is held
	// until that swap completes.
	Deferred
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Pending:
		return "pending"
	case Deferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// State is the scheduler's lifecycle state.
type State int

const (
	Unprepared State = iota
	Active
	PendingReady
)

func (s State) String() string {
	switch s {
	case Unprepared:
		return "unprepared"
	case Active:
		return "active"
	case PendingReady:
		return "pending"
	default:
		return "unknown"
	}
}

// Stats counts scheduler events.
type Stats struct {
	Swaps      uint64
	Deferrals  uint64
	Superseded uint64
}

// Scheduler double-buffers cascades between a control goroutine and an
// audio goroutine. Publish, Flush, Prepare and Release are control-side
// calls and serialize on an internal mutex. ProcessBlock is the audio-side
// call; it must not be called from more than one goroutine at a time.
type Scheduler struct {
	mu sync.Mutex

	latest   *cascade.Cascade
	deferred *cascade.Cascade

	slots     [2][]*cascade.Chain
	scratch   [][]float64
	rampDown  []float64
	rampUp    []float64
	blockSize int

	prepared atomic.Bool
	active   atomic.Int32
	ready    atomic.Bool
	inUse    [2]atomic.Bool

	swaps      atomic.Uint64
	deferrals  atomic.Uint64
	superseded atomic.Uint64
}

// New returns an unprepared scheduler holding the identity cascade.
func New() *Scheduler {
	return &Scheduler{latest: cascade.Identity()}
}

// Publish hands c to the audio side. See Outcome for the possible results.
// c is copied; the caller may reuse it.
func (s *Scheduler) Publish(c *cascade.Cascade) (Outcome, error) {
	if c == nil {
		c = cascade.Identity()
	}
	if err := c.Validate(); err != nil {
		return Applied, err
	}
	c = c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prepared.Load() {
		s.latest = c
		s.deferred = nil
		return Applied, nil
	}

	if s.ready.Load() {
		if s.deferred != nil {
			s.superseded.Add(1)
		}
		s.deferred = c
		s.deferrals.Add(1)
		return Deferred, nil
	}

	if s.deferred != nil {
		s.superseded.Add(1)
		s.deferred = nil
	}
	if err := s.loadPending(c); err != nil {
		return Applied, err
	}
	return Pending, nil
}

// Flush publishes the deferred cascade if the audio side has consumed the
// previous one. It reports whether a cascade was loaded.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deferred == nil || !s.prepared.Load() || s.ready.Load() {
		return false
	}
	c := s.deferred
	s.deferred = nil
	return s.loadPending(c) == nil
}

// HasDeferred reports whether a cascade is waiting for Flush.
func (s *Scheduler) HasDeferred() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deferred != nil
}

// loadPending loads c into the inactive slot and raises the ready flag.
// The audio side does not touch the inactive slot while ready is clear.
func (s *Scheduler) loadPending(c *cascade.Cascade) error {
	next := 1 - s.active.Load()
	for _, chain := range s.slots[next] {
		if err := chain.Load(c); err != nil {
			return err
		}
	}
	s.latest = c
	s.ready.Store(true)
	return nil
}

// Prepare allocates per-channel chains for the given context and makes the
// most recent cascade live without a crossfade.
func (s *Scheduler) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(blockSize),
		core.WithChannels(channels),
	)
	if sampleRate <= 0 || blockSize <= 0 || channels <= 0 {
		return core.ErrInvalidConfig
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quiesce()

	if s.deferred != nil {
		s.latest = s.deferred
		s.deferred = nil
	}

	for slot := range s.slots {
		chains := make([]*cascade.Chain, cfg.Channels)
		for ch := range chains {
			chain := cascade.NewChain()
			if err := chain.Prepare(cfg); err != nil {
				return err
			}
			if err := chain.Load(s.latest); err != nil {
				return err
			}
			chains[ch] = chain
		}
		s.slots[slot] = chains
	}

	s.scratch = core.EnsureChannels(s.scratch, cfg.Channels, cfg.BlockSize)
	s.rampDown = make([]float64, cfg.BlockSize)
	s.rampUp = make([]float64, cfg.BlockSize)
	for i := range cfg.BlockSize {
		t := float64(i) / float64(cfg.BlockSize)
		s.rampUp[i] = t
		s.rampDown[i] = 1 - t
	}
	s.blockSize = cfg.BlockSize

	s.active.Store(0)
	s.ready.Store(false)
	s.prepared.Store(true)
	return nil
}

// Release drops the chains. ProcessBlock passes audio through until the
// next Prepare. The most recent cascade is kept.
func (s *Scheduler) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quiesce()
	if s.deferred != nil {
		s.latest = s.deferred
		s.deferred = nil
	}
	s.slots = [2][]*cascade.Chain{}
	s.scratch = nil
	s.ready.Store(false)
}

// quiesce stops the audio side from entering the slots and waits until it
// has left them.
func (s *Scheduler) quiesce() {
	s.prepared.Store(false)
	for s.inUse[0].Load() || s.inUse[1].Load() {
		runtime.Gosched()
	}
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	switch {
	case !s.prepared.Load():
		return Unprepared
	case s.ready.Load():
		return PendingReady
	default:
		return Active
	}
}

// Stats returns event counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Swaps:      s.swaps.Load(),
		Deferrals:  s.deferrals.Load(),
		Superseded: s.superseded.Load(),
	}
}

// Latest returns a copy of the most recently loaded or stored cascade.
func (s *Scheduler) Latest() *cascade.Cascade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest.Clone()
}

// ProcessBlock filters planar channels in place. Channels beyond the
// prepared count pass through. Blocks longer than the prepared block size
// are handled in block-size chunks. Before Prepare the audio passes through.
func (s *Scheduler) ProcessBlock(channels [][]float64) {
	if len(channels) == 0 {
		return
	}
	n := len(channels[0])
	for _, ch := range channels[1:] {
		n = min(n, len(ch))
	}

	act := s.active.Load()
	s.inUse[act].Store(true)
	held := [2]bool{act == 0, act == 1}
	defer s.release(&held)

	// A Prepare between the two loads may have reset the active slot.
	if !s.prepared.Load() || s.active.Load() != act {
		return
	}

	for off := 0; off < n; off += s.blockSize {
		end := min(off+s.blockSize, n)
		act = s.processChunk(channels, off, end, act, &held)
	}
}

// release clears the slot guards taken by one ProcessBlock call. Guards are
// held for the whole call so quiesce never sees a gap between two slots.
func (s *Scheduler) release(held *[2]bool) {
	for slot, h := range held {
		if h {
			s.inUse[slot].Store(false)
		}
	}
}

func (s *Scheduler) processChunk(channels [][]float64, off, end int, act int32, held *[2]bool) int32 {
	chains := s.slots[act]
	count := min(len(channels), len(chains))

	if !s.ready.Load() {
		for ch := range count {
			chains[ch].ProcessBlock(channels[ch][off:end])
		}
		return act
	}

	next := 1 - act
	if !held[next] {
		s.inUse[next].Store(true)
		held[next] = true
	}
	pending := s.slots[next]

	for ch := range count {
		buf := channels[ch][off:end]
		tmp := s.scratch[ch][:len(buf)]
		copy(tmp, buf)

		chains[ch].ProcessBlock(buf)
		pending[ch].ProcessBlock(tmp)
		s.crossfade(buf, tmp)
	}

	s.active.Store(next)
	s.ready.Store(false)
	s.swaps.Add(1)
	return next
}

// crossfade writes old*(1-t) + fresh*t into old, t running from 0 to 1.
func (s *Scheduler) crossfade(old, fresh []float64) {
	n := len(old)
	if n == len(s.rampDown) {
		vecmath.MulBlockInPlace(old, s.rampDown)
		vecmath.MulBlockInPlace(fresh, s.rampUp)
		vecmath.AddBlockInPlace(old, fresh)
		return
	}
	for i := range n {
		t := float64(i) / float64(n)
		old[i] = old[i]*(1-t) + fresh[i]*t
	}
}
