package domain

import "errors"

// Sentinel errors for the benchmark harness. Callers distinguish failure
// kinds with errors.Is; none of these are transient, so nothing retries.
var (
	// ErrInvalidArgument reports an unrecognized motion type, a
	// non-positive sequence length, or a motion field containing
	// non-finite values about to reach the advection primitive.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEstimator reports a failure inside an optical-flow estimator.
	ErrEstimator = errors.New("estimator failure")

	// ErrShapeMismatch reports fields or motion fields with incompatible
	// grid shapes.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDegenerateMetric reports zero ground-truth energy inside the
	// scoring mask, which makes the relative error undefined.
	ErrDegenerateMetric = errors.New("degenerate metric")
)
