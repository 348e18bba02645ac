// Package delay holds the whole-sample delay a cascade applies for its
// surplus poles at the origin.
package delay

import (
	"errors"
	"fmt"
)

// ErrNegativeDelay rejects a negative delay length.
var ErrNegativeDelay = errors.New("delay: negative length")

// Line delays its input by a fixed number of samples through a ring. The
// zero Line passes samples straight through.
type Line struct {
	ring []float64
	head int
}

// New returns a silent Line of n samples.
func New(n int) (*Line, error) {
	l := new(Line)
	if err := l.SetDelay(n); err != nil {
		return nil, err
	}
	return l, nil
}

// SetDelay resizes the ring to n samples and silences it. The backing array
// is kept when it is large enough.
func (l *Line) SetDelay(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDelay, n)
	}
	if cap(l.ring) < n {
		l.ring = make([]float64, n)
	}
	l.ring = l.ring[:n]
	l.Reset()
	return nil
}

// Delay is the length in samples.
func (l *Line) Delay() int {
	return len(l.ring)
}

// ProcessSample stores x and returns the input from Delay samples ago.
func (l *Line) ProcessSample(x float64) float64 {
	if len(l.ring) == 0 {
		return x
	}
	y := l.ring[l.head]
	l.ring[l.head] = x
	l.head = (l.head + 1) % len(l.ring)
	return y
}

// ProcessBlock delays buf in place without allocating.
func (l *Line) ProcessBlock(buf []float64) {
	n := len(l.ring)
	if n == 0 {
		return
	}
	h := l.head
	for i := range buf {
		buf[i], l.ring[h] = l.ring[h], buf[i]
		if h++; h == n {
			h = 0
		}
	}
	l.head = h
}

// Reset silences the ring.
func (l *Line) Reset() {
	clear(l.ring)
	l.head = 0
}
