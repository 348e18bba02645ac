package design

import (
	"math"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass Butterworth cascade. Odd orders end with
// a first-order section (B2 = A2 = 0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworth(freq, order, sampleRate, Lowpass, func(k, norm float64) biquad.Coefficients {
		return biquad.Coefficients{B0: k * norm, B1: k * norm, A1: (k - 1) * norm}
	})
}

// ButterworthHP designs a highpass Butterworth cascade. Odd orders end with
// a first-order section (B2 = A2 = 0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworth(freq, order, sampleRate, Highpass, func(k, norm float64) biquad.Coefficients {
		return biquad.Coefficients{B0: norm, B1: -norm, A1: (k - 1) * norm}
	})
}

func butterworth(
	freq float64, order int, sampleRate float64,
	second func(freq, q, sampleRate float64) biquad.Coefficients,
	first func(k, norm float64) biquad.Coefficients,
) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}
	if _, ok := omega(freq, sampleRate); !ok {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, second(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		k := math.Tan(math.Pi * freq / sampleRate)
		sections = append(sections, first(k, 1/(1+k)))
	}
	return sections
}

// butterworthQ returns the quality factor of biquad index of an order-n
// Butterworth cascade.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}
	return 1 / (2 * s)
}
