package core

import "errors"

// ErrInvalidConfig rejects a non-positive sample rate, block size or
// channel count.
var ErrInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig is the audio context a runtime is prepared for. Every
// channel runs its own copy of the filter state.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// ProcessorOption adjusts a ProcessorConfig. Options given out-of-range
// values leave the field alone.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig is 48 kHz stereo in 512-frame blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, BlockSize: 512, Channels: 2}
}

// WithSampleRate sets the rate in Hz.
func WithSampleRate(hz float64) ProcessorOption {
	return func(c *ProcessorConfig) {
		if hz > 0 {
			c.SampleRate = hz
		}
	}
}

// WithBlockSize sets the largest frame count a single process call sees.
func WithBlockSize(frames int) ProcessorOption {
	return func(c *ProcessorConfig) {
		if frames > 0 {
			c.BlockSize = frames
		}
	}
}

// WithChannels sets the channel count.
func WithChannels(n int) ProcessorOption {
	return func(c *ProcessorConfig) {
		if n > 0 {
			c.Channels = n
		}
	}
}

// ApplyProcessorOptions starts from the default config and applies opts in
// order. Nil options are skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	c := DefaultProcessorConfig()
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return c
}

// Valid reports whether c can be prepared.
func (c ProcessorConfig) Valid() bool {
	return c.SampleRate > 0 && c.BlockSize > 0 && c.Channels > 0
}
