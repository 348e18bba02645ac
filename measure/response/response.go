package response

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the analyzer.
var (
	ErrInvalidSize       = errors.New("response: FFT size must be a power of two >= 2")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrEmptyIR           = errors.New("response: impulse response is empty")
)

// floorDB bounds the magnitude of exact nulls.
const floorDB = -300.0

// ImpulseSource produces an impulse response of n samples. cascade.Chain
// implements it.
type ImpulseSource interface {
	ImpulseResponse(n int) []float64
}

// ExactSource evaluates a transfer function at a frequency. cascade.Cascade
// and cascade.Chain implement it.
type ExactSource interface {
	Response(freqHz, sampleRate float64) complex128
}

// Point is one bin of a measured response.
type Point struct {
	FreqHz      float64
	Magnitude   float64
	MagnitudeDB float64
	Phase       float64
}

// Analyzer transforms impulse responses of a fixed length. It reuses its
// buffers and is not safe for concurrent use.
type Analyzer struct {
	sampleRate float64
	size       int
	plan       *algofft.Plan[complex128]

	in, out []complex128
	re, im  []float64
	mag     []float64
}

// NewAnalyzer returns an analyzer for size-point transforms.
func NewAnalyzer(sampleRate float64, size int) (*Analyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}
	if size < 2 || bits.OnesCount(uint(size)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1
	return &Analyzer{
		sampleRate: sampleRate,
		size:       size,
		plan:       plan,
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		mag:        make([]float64, bins),
	}, nil
}

// Size returns the transform length.
func (a *Analyzer) Size() int { return a.size }

// BinFrequency returns the centre frequency of bin k.
func (a *Analyzer) BinFrequency(k int) float64 {
	return float64(k) * a.sampleRate / float64(a.size)
}

// Measure records the impulse response of src and analyzes it.
func (a *Analyzer) Measure(src ImpulseSource) ([]Point, error) {
	return a.Analyze(src.ImpulseResponse(a.size))
}

// Analyze returns the bins from DC to Nyquist of ir. Longer responses are
// truncated to the analyzer size, shorter ones zero-padded.
func (a *Analyzer) Analyze(ir []float64) ([]Point, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	clear(a.in)
	for i, v := range ir[:min(len(ir), a.size)] {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}
	vecmath.Magnitude(a.mag, a.re, a.im)

	points := make([]Point, len(a.mag))
	for k, m := range a.mag {
		points[k] = Point{
			FreqHz:      a.BinFrequency(k),
			Magnitude:   m,
			MagnitudeDB: toDB(m),
			Phase:       math.Atan2(a.im[k], a.re[k]),
		}
	}
	return points, nil
}

// MaxDeviationDB returns the largest magnitude difference in dB between
// points and the exact response of want, ignoring bins where either side
// is below floor dB.
func MaxDeviationDB(points []Point, want ExactSource, sampleRate, floor float64) float64 {
	worst := 0.0
	for _, p := range points {
		exact := toDB(cmplx.Abs(want.Response(p.FreqHz, sampleRate)))
		if exact < floor || p.MagnitudeDB < floor {
			continue
		}
		worst = max(worst, math.Abs(exact-p.MagnitudeDB))
	}
	return worst
}

func toDB(m float64) float64 {
	if m <= 0 {
		return floorDB
	}
	return max(20*math.Log10(m), floorDB)
}
