package rootset

import "errors"

var (
	// ErrZeroOrder is returned for a root order of 0.
	ErrZeroOrder = errors.New("rootset: order must be non-zero")
	// ErrStaleRef is returned for a reference to a removed root.
	ErrStaleRef = errors.New("rootset: stale root reference")
	// ErrOrderSign is returned when SetOrder would turn a zero into a pole
	// or the reverse.
	ErrOrderSign = errors.New("rootset: order sign cannot change")
	// ErrCausality is returned by Validate when the finite-zero degree
	// exceeds the pole degree.
	ErrCausality = errors.New("rootset: more zeros than poles")
	// ErrDegenerate is returned when a design cannot be turned into roots.
	ErrDegenerate = errors.New("rootset: degenerate design")
)

// violation reports a caller contract violation.
func violation(err error) error {
	if debugContracts {
		panic(err)
	}
	return err
}
