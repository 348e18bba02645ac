package pzfilter

import (
	"log/slog"
	"time"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/design/polezero"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
)

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the logger used for control-side events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.log = l
		}
	}
}

// WithDesigner replaces the default pole/zero designer.
func WithDesigner(d *polezero.Designer) Option {
	return func(f *Filter) {
		if d != nil {
			f.designer = d
		}
	}
}

// WithStoreOptions configures the root store the filter creates.
func WithStoreOptions(opts ...rootset.Option) Option {
	return func(f *Filter) {
		f.storeOpts = append(f.storeOpts, opts...)
	}
}

// WithStore starts the filter from an existing root set, for example one
// built by rootset.FromPolynomials. The filter takes ownership of s.
func WithStore(s *rootset.Store) Option {
	return func(f *Filter) {
		f.store = s
	}
}

// WithFlushInterval sets how often the loop started by Prepare hands a
// deferred cascade to the audio side. The default is one block. A negative
// d disables the loop; the caller then drives Flush or Run.
func WithFlushInterval(d time.Duration) Option {
	return func(f *Filter) {
		f.flushEvery = d
	}
}
