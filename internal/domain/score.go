package domain

import (
	"fmt"
	"math"
)

// Default scoring parameters, matching the benchmark's reference setup.
const (
	DefaultSmoothingWindow = 20
	DefaultMaskThreshold   = 0.1
)

// ScoreOptions controls precipitation-mask derivation.
type ScoreOptions struct {
	// SmoothingWindow is the side length of the uniform filter applied to
	// the maximum-intensity projection before thresholding.
	SmoothingWindow int
	// Threshold is the minimum smoothed intensity for a pixel to count as
	// precipitation.
	Threshold float64
}

func (o ScoreOptions) withDefaults() ScoreOptions {
	if o.SmoothingWindow == 0 {
		o.SmoothingWindow = DefaultSmoothingWindow
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultMaskThreshold
	}
	return o
}

// PrecipitationMask derives the scoring region for a synthetic sequence:
// box-smooth the maximum-intensity projection, keep pixels whose smoothed
// intensity exceeds the threshold, and drop any pixel that was invalid at
// any timestep. Both no-precipitation and no-data regions are excluded.
func PrecipitationMask(seq []Field, opts ScoreOptions) []bool {
	opts = opts.withDefaults()

	proj := MaxProjection(seq)
	smoothed := proj.BoxSmooth(opts.SmoothingWindow)

	mask := make([]bool, len(smoothed.Values))
	for i, v := range smoothed.Values {
		mask[i] = v > opts.Threshold && proj.Mask[i]
	}
	return mask
}

// RelativeRMSE scores a computed motion field against the ideal one over the
// given pixel mask, returning the relative root-mean-square error as a
// percentage:
//
//	100 · sqrt( Σ_mask[(u−û)² + (v−v̂)²] / Σ_mask[u² + v²] )
//
// Only masked pixels contribute to either sum. The ratio is dimensionless,
// so uniformly scaling both fields by the same nonzero constant leaves the
// score unchanged.
//
// Fails with ErrShapeMismatch when the fields disagree in shape or the mask
// has the wrong length, and with ErrDegenerateMetric when the ideal motion
// has zero energy inside the mask (including an empty mask) — the undefined
// ratio is reported explicitly instead of surfacing as NaN or Inf.
func RelativeRMSE(ideal, computed MotionField, mask []bool) (float64, error) {
	if !ideal.SameShape(computed) {
		return 0, fmt.Errorf("%w: ideal motion is %dx%d but computed is %dx%d",
			ErrShapeMismatch, ideal.Rows, ideal.Cols, computed.Rows, computed.Cols)
	}
	if len(mask) != len(ideal.U) {
		return 0, fmt.Errorf("%w: mask has %d entries for a %dx%d grid",
			ErrShapeMismatch, len(mask), ideal.Rows, ideal.Cols)
	}

	var num, den float64
	for i, in := range mask {
		if !in {
			continue
		}
		du := ideal.U[i] - computed.U[i]
		dv := ideal.V[i] - computed.V[i]
		num += du*du + dv*dv
		den += ideal.U[i]*ideal.U[i] + ideal.V[i]*ideal.V[i]
	}

	if den == 0 {
		return 0, fmt.Errorf("%w: ideal motion has zero energy in the scoring mask", ErrDegenerateMetric)
	}
	return 100 * math.Sqrt(num/den), nil
}

// MaskedPixels counts the true entries in a scoring mask.
func MaskedPixels(mask []bool) int {
	n := 0
	for _, in := range mask {
		if in {
			n++
		}
	}
	return n
}
