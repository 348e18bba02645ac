package design

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
)

// ErrInvalidPreset is returned for an unknown kind or out-of-range
// parameters.
var ErrInvalidPreset = errors.New("design: invalid preset")

// Kind names a preset response.
type Kind int

const (
	KindLowpass Kind = iota
	KindHighpass
	KindBandpass
	KindNotch
	KindAllpass
	KindPeak
	KindLowShelf
	KindHighShelf
	KindButterworthLP
	KindButterworthHP
)

var kindNames = [...]string{
	KindLowpass:       "lowpass",
	KindHighpass:      "highpass",
	KindBandpass:      "bandpass",
	KindNotch:         "notch",
	KindAllpass:       "allpass",
	KindPeak:          "peak",
	KindLowShelf:      "lowshelf",
	KindHighShelf:     "highshelf",
	KindButterworthLP: "butterworth-lp",
	KindButterworthHP: "butterworth-hp",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every preset name.
func Kinds() []string {
	return append([]string(nil), kindNames[:]...)
}

// ParseKind resolves a preset name case-insensitively.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidPreset, name)
}

// Preset describes a classic response. Q is ignored by the Butterworth
// kinds, Order by the RBJ kinds and GainDB by all but Peak and the shelves.
type Preset struct {
	Kind   Kind
	Freq   float64
	Q      float64
	GainDB float64
	Order  int
}

// Sections designs the preset at sampleRate.
func (p Preset) Sections(sampleRate float64) ([]biquad.Coefficients, error) {
	if _, ok := omega(p.Freq, sampleRate); !ok {
		return nil, fmt.Errorf("%w: frequency %g Hz at %g Hz sample rate", ErrInvalidPreset, p.Freq, sampleRate)
	}

	var c biquad.Coefficients
	switch p.Kind {
	case KindLowpass:
		c = Lowpass(p.Freq, p.Q, sampleRate)
	case KindHighpass:
		c = Highpass(p.Freq, p.Q, sampleRate)
	case KindBandpass:
		c = Bandpass(p.Freq, p.Q, sampleRate)
	case KindNotch:
		c = Notch(p.Freq, p.Q, sampleRate)
	case KindAllpass:
		c = Allpass(p.Freq, p.Q, sampleRate)
	case KindPeak:
		c = Peak(p.Freq, p.GainDB, p.Q, sampleRate)
	case KindLowShelf:
		c = LowShelf(p.Freq, p.GainDB, p.Q, sampleRate)
	case KindHighShelf:
		c = HighShelf(p.Freq, p.GainDB, p.Q, sampleRate)
	case KindButterworthLP, KindButterworthHP:
		if p.Order <= 0 {
			return nil, fmt.Errorf("%w: order %d", ErrInvalidPreset, p.Order)
		}
		if p.Kind == KindButterworthLP {
			return ButterworthLP(p.Freq, p.Order, sampleRate), nil
		}
		return ButterworthHP(p.Freq, p.Order, sampleRate), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, p.Kind)
	}
	return []biquad.Coefficients{c}, nil
}

// Seed designs the preset and factors it into an editable root set.
func Seed(p Preset, sampleRate float64, opts ...rootset.Option) (*rootset.Store, error) {
	sections, err := p.Sections(sampleRate)
	if err != nil {
		return nil, err
	}
	s, err := rootset.FromSections(sections, 1, opts...)
	if err != nil {
		return nil, fmt.Errorf("design: factoring %v: %w", p.Kind, err)
	}
	return s, nil
}
