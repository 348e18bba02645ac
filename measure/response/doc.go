// Package response measures the frequency response of a running filter
// chain by transforming its impulse response.
//
// The measurement is independent of how the chain was designed, so it
// cross-checks synthesis: for a stable cascade the measured magnitude
// agrees with the exact rational response up to truncation of the impulse
// response.
//
// # Usage
//
//	a, err := response.NewAnalyzer(48000, 4096)
//	points, err := a.Measure(chain)
//	fmt.Printf("%.0f Hz: %.1f dB\n", points[100].FreqHz, points[100].MagnitudeDB)
package response
