package cascade

import (
	"errors"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
	"github.com/cwbudde/algo-pzfilter/dsp/delay"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/fir"
	"github.com/cwbudde/algo-vecmath"
)

// ErrNotPrepared is returned when Load is called before Prepare.
var ErrNotPrepared = errors.New("cascade: chain not prepared")

// Chain evaluates a Cascade on one channel. ProcessBlock never allocates or
// locks; Prepare and Load are control-side calls.
type Chain struct {
	cfg      core.ProcessorConfig
	prepared bool

	line     delay.Line
	sections []biquad.Section
	fir      []*fir.Filter
	gain     float64

	coeffs []biquad.Coefficients
}

// NewChain returns an unprepared chain holding the identity cascade.
func NewChain() *Chain {
	return &Chain{gain: 1}
}

// Prepare records the processing context and clears the chain history.
func (c *Chain) Prepare(cfg core.ProcessorConfig) error {
	if !cfg.Valid() {
		return core.ErrInvalidConfig
	}
	c.cfg = cfg
	c.prepared = true
	c.Reset()
	return nil
}

// Config returns the context passed to Prepare.
func (c *Chain) Config() core.ProcessorConfig {
	return c.cfg
}

// Load replaces the chain's stages with cs and resets all history. Storage
// from a previous Load is reused. On error the chain is left unchanged.
func (c *Chain) Load(cs *Cascade) error {
	if !c.prepared {
		return ErrNotPrepared
	}
	if cs == nil {
		cs = Identity()
	}
	if cs.Delay < 0 {
		return ErrNegativeDelay
	}

	c.coeffs = c.coeffs[:0]
	for _, s := range cs.Sections {
		coeffs, err := s.Normalize()
		if err != nil {
			return err
		}
		c.coeffs = append(c.coeffs, coeffs)
	}

	if cap(c.sections) >= len(c.coeffs) {
		c.sections = c.sections[:len(c.coeffs)]
	} else {
		c.sections = make([]biquad.Section, len(c.coeffs))
	}
	for i, coeffs := range c.coeffs {
		c.sections[i] = biquad.Section{Coefficients: coeffs}
	}

	for len(c.fir) < len(cs.FIR) {
		c.fir = append(c.fir, fir.New(nil))
	}
	c.fir = c.fir[:len(cs.FIR)]
	for i, taps := range cs.FIR {
		c.fir[i].SetCoefficients(taps[:])
	}

	if err := c.line.SetDelay(cs.Delay); err != nil {
		return err
	}
	c.gain = cs.Gain
	return nil
}

// ProcessBlock filters buf in place.
func (c *Chain) ProcessBlock(buf []float64) {
	c.line.ProcessBlock(buf)
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
	for _, f := range c.fir {
		f.ProcessBlock(buf)
	}
	if c.gain != 1 {
		vecmath.ScaleBlock(buf, buf, c.gain)
	}
}

// ProcessSample filters a single sample.
func (c *Chain) ProcessSample(x float64) float64 {
	x = c.line.ProcessSample(x)
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	for _, f := range c.fir {
		x = f.ProcessSample(x)
	}
	return x * c.gain
}

// Reset clears all stage history.
func (c *Chain) Reset() {
	c.line.Reset()
	for i := range c.sections {
		c.sections[i].Reset()
	}
	for _, f := range c.fir {
		f.Reset()
	}
}

// Response evaluates the loaded stages at z = e^{jw}.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(c.gain, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freqHz, sampleRate)
	}
	for _, f := range c.fir {
		h *= f.Response(freqHz, sampleRate)
	}
	if d := c.line.Delay(); d > 0 {
		h *= delayResponse(d, freqHz, sampleRate)
	}
	return h
}

// ImpulseResponse returns n samples of the loaded filter's impulse response.
// The chain's running state is not touched.
func (c *Chain) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	scratch := &Chain{cfg: c.cfg, prepared: true}
	_ = scratch.Load(c.describe())

	ir := make([]float64, n)
	ir[0] = 1
	scratch.ProcessBlock(ir)
	return ir
}

// Sections returns a copy of the normalized section coefficients.
func (c *Chain) Sections() []biquad.Coefficients {
	out := make([]biquad.Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}
	return out
}

// NumFIR returns the number of FIR stages.
func (c *Chain) NumFIR() int { return len(c.fir) }

// Delay returns the integer delay in samples.
func (c *Chain) Delay() int { return c.line.Delay() }

// Gain returns the output gain.
func (c *Chain) Gain() float64 { return c.gain }

func (c *Chain) describe() *Cascade {
	out := &Cascade{Delay: c.line.Delay(), Gain: c.gain}
	for i := range c.sections {
		k := c.sections[i].Coefficients
		out.Sections = append(out.Sections, Section{
			B0: k.B0, B1: k.B1, B2: k.B2,
			A0: 1, A1: k.A1, A2: k.A2,
		})
	}
	for _, f := range c.fir {
		var t Taps
		copy(t[:], f.Coefficients())
		out.FIR = append(out.FIR, t)
	}
	return out
}
