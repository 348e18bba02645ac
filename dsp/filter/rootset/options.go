package rootset

// DefaultMaxPoleRadius keeps poles strictly inside the unit circle.
const DefaultMaxPoleRadius = 1 - 1e-6

type config struct {
	maxPoleRadius float64
	axisSnap      float64
	gain          float64
}

func defaultConfig() config {
	return config{
		maxPoleRadius: DefaultMaxPoleRadius,
		gain:          1,
	}
}

// Option configures a Store.
type Option func(*config)

// WithMaxPoleRadius sets the radius poles are clamped to. Values outside
// (0, 1) are ignored.
func WithMaxPoleRadius(r float64) Option {
	return func(cfg *config) {
		if r > 0 && r < 1 {
			cfg.maxPoleRadius = r
		}
	}
}

// WithAxisSnap makes SetValue move roots whose imaginary part is within eps
// of zero onto the real axis.
func WithAxisSnap(eps float64) Option {
	return func(cfg *config) {
		if eps >= 0 {
			cfg.axisSnap = eps
		}
	}
}

// WithGain sets the initial linear gain.
func WithGain(g float64) Option {
	return func(cfg *config) {
		cfg.gain = g
	}
}
