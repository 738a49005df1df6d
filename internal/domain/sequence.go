package domain

import "fmt"

// Warper advects a field one step along a motion field. Implementations
// return the warped field with every pixel whose backward-traced source
// fell outside the valid domain marked invalid, never silently zeroed.
type Warper interface {
	Warp(field Field, motion MotionField) (Field, error)
}

// GenerateOptions controls observation sequence generation.
type GenerateOptions struct {
	// Compounding unions each frame's invalid mask with the previous
	// frame's, so regions that leave the domain stay invalid for the rest
	// of the sequence. Off by default: each frame carries only its own
	// warp's mask, matching the per-step behavior of the advection
	// primitive.
	Compounding bool
}

// GenerateSequence builds n synthetic observations by repeatedly warping the
// most recent frame along a fixed motion field: frame 0 is warp(initial),
// frame k is warp(frame k−1). The chain always advances from the previous
// output, never from the original field.
//
// Invalid pixels remain masked while the chain runs. After the last warp,
// any non-finite values left behind by interpolation are marked invalid,
// and only then are invalid cells filled with zero — the mask still records
// which zeros mean "unknown" rather than "no precipitation".
//
// The motion field is checked for non-finite values up front and rejected
// with ErrInvalidArgument before the warper ever sees it; some warp
// implementations cannot recover from non-finite displacements.
func GenerateSequence(initial Field, motion MotionField, n int, w Warper, opts GenerateOptions) ([]Field, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sequence length must be at least 1, got %d", ErrInvalidArgument, n)
	}
	if initial.Rows != motion.Rows || initial.Cols != motion.Cols {
		return nil, fmt.Errorf("%w: field is %dx%d but motion is %dx%d",
			ErrShapeMismatch, initial.Rows, initial.Cols, motion.Rows, motion.Cols)
	}
	if !motion.Finite() {
		return nil, fmt.Errorf("%w: motion field contains non-finite values", ErrInvalidArgument)
	}

	frames := make([]Field, n)
	prev := initial
	for k := 0; k < n; k++ {
		frame, err := w.Warp(prev, motion)
		if err != nil {
			return nil, fmt.Errorf("warp frame %d: %w", k, err)
		}
		if opts.Compounding && k > 0 {
			for i, ok := range frames[k-1].Mask {
				if !ok {
					frame.Mask[i] = false
				}
			}
		}
		frames[k] = frame
		prev = frame
	}

	coalesce(frames)
	return frames, nil
}

// coalesce materializes the masked sequence: non-finite values become
// invalid, then every invalid cell is assigned zero. Runs once, after all
// warps, so intermediate frames keep the unknown/zero distinction.
func coalesce(frames []Field) {
	for _, f := range frames {
		for i, v := range f.Values {
			if !isFinite(v) {
				f.Mask[i] = false
			}
			if !f.Mask[i] {
				f.Values[i] = 0
			}
		}
	}
}
