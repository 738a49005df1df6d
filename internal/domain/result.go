package domain

import (
	"errors"
	"time"
)

// Outcome classifies how a scenario run ended. The values double as metric
// label values, so they stay lowercase and stable.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeInvalidArgument Outcome = "invalid_argument"
	OutcomeEstimatorError  Outcome = "estimator_error"
	OutcomeShapeMismatch   Outcome = "shape_mismatch"
	OutcomeDegenerate      Outcome = "degenerate_metric"
)

// ClassifyError maps a scenario error to its outcome label using the
// sentinel taxonomy. Unknown errors classify as estimator errors since the
// estimator is the only collaborator that can fail in unanticipated ways.
func ClassifyError(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, ErrShapeMismatch):
		return OutcomeShapeMismatch
	case errors.Is(err, ErrDegenerateMetric):
		return OutcomeDegenerate
	default:
		return OutcomeEstimatorError
	}
}

// Result records the outcome of one (motion type × estimator) scenario.
type Result struct {
	MotionType     MotionType    `json:"motion_type"`
	Method         string        `json:"method"`
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	SequenceLength int           `json:"sequence_length"`
	MaskedPixels   int           `json:"masked_pixels,omitempty"`
	RelRMSEPercent float64       `json:"rel_rmse_percent,omitempty"`
	Outcome        Outcome       `json:"outcome"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration_ns"`
	EvaluatedAt    time.Time     `json:"evaluated_at"`
}

// StampEvaluatedAt sets the evaluation timestamp from the package clock.
// Tests freeze the clock via SetClock for deterministic output.
func (r *Result) StampEvaluatedAt() {
	r.EvaluatedAt = clock.Now().UTC()
}
