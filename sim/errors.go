package sim

import "errors"

// Error kinds returned by the pricing core. Callers match them with errors.Is;
// the wrapped message carries the offending value. None of these are retried.
var (
	// ErrConfig reports a malformed price lattice or market configuration.
	ErrConfig = errors.New("invalid market configuration")

	// ErrInvalidChoice reports an empty choice vector or an index outside the lattice.
	ErrInvalidChoice = errors.New("invalid agent choice")

	// ErrInvalidInput reports an empty revenue vector or an unusable parameter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation reports NaN, infinite or negative values reaching the
	// reward normalizer. It always indicates an upstream defect.
	ErrInvariantViolation = errors.New("invariant violation")
)
