package polezero

import "math"

// Config holds the pairing constants.
type Config struct {
	// QWeight, MagnitudeWeight and AngleWeight combine into the pole
	// priority key.
	QWeight         float64
	MagnitudeWeight float64
	AngleWeight     float64

	// UnitCircleTolerance is how close to |z| = 1 a zero must be to count
	// as a notch zero.
	UnitCircleTolerance float64

	// AngleSimilarity is the largest angle difference at which a notch
	// zero is preferred over the globally closest zero.
	AngleSimilarity float64

	// NullTolerance is the radius under which a pole counts as sitting at
	// the origin.
	NullTolerance float64
}

// DefaultConfig returns the standard pairing constants.
func DefaultConfig() Config {
	return Config{
		QWeight:             0.6,
		MagnitudeWeight:     0.3,
		AngleWeight:         0.1,
		UnitCircleTolerance: 1e-5,
		AngleSimilarity:     0.1 * math.Pi,
		NullTolerance:       1e-12,
	}
}

// Option mutates a Config.
type Option func(*Config)

// WithPriorityWeights sets the Q, magnitude and angle weights of the pole
// priority key. Negative weights are ignored.
func WithPriorityWeights(q, magnitude, angle float64) Option {
	return func(cfg *Config) {
		if q < 0 || magnitude < 0 || angle < 0 {
			return
		}
		cfg.QWeight = q
		cfg.MagnitudeWeight = magnitude
		cfg.AngleWeight = angle
	}
}

// WithUnitCircleTolerance sets the notch zero radius tolerance.
func WithUnitCircleTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol >= 0 {
			cfg.UnitCircleTolerance = tol
		}
	}
}

// WithAngleSimilarity sets the notch zero preference window in radians.
func WithAngleSimilarity(rad float64) Option {
	return func(cfg *Config) {
		if rad >= 0 {
			cfg.AngleSimilarity = rad
		}
	}
}

// WithNullTolerance sets the radius under which a pole is an origin pole.
func WithNullTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol >= 0 {
			cfg.NullTolerance = tol
		}
	}
}

// ApplyOptions applies opts to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
