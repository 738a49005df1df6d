package domain

import (
	"fmt"
	"math"
)

// MotionType identifies one of the supported idealized motion patterns.
type MotionType string

const (
	MotionLinearX MotionType = "linear-x"
	MotionLinearY MotionType = "linear-y"
	MotionRotor   MotionType = "rotor"
)

// idealSpeed is the displacement magnitude, in pixels per step, shared by
// all idealized motion types.
const idealSpeed = 2.0

// MotionTypes lists the supported motion types in a stable order.
func MotionTypes() []MotionType {
	return []MotionType{MotionLinearX, MotionLinearY, MotionRotor}
}

// ParseMotionType validates a motion-type name. Unknown names fail with
// ErrInvalidArgument rather than falling back to a default.
func ParseMotionType(s string) (MotionType, error) {
	switch MotionType(s) {
	case MotionLinearX, MotionLinearY, MotionRotor:
		return MotionType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown motion type %q", ErrInvalidArgument, s)
	}
}

// IdealMotion synthesizes the ground-truth motion field for the given motion
// type over a rows × cols grid.
//
// The rotor field rotates around the continuous grid center ((cols−1)/2,
// (rows−1)/2). On odd-sized grids one pixel sits exactly on that center; it
// keeps zero velocity instead of dividing by zero.
func IdealMotion(mt MotionType, rows, cols int) (MotionField, error) {
	if rows < 1 || cols < 1 {
		return MotionField{}, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidArgument, rows, cols)
	}

	m := NewMotionField(rows, cols)
	switch mt {
	case MotionLinearX:
		for i := range m.U {
			m.U[i] = idealSpeed
		}
	case MotionLinearY:
		for i := range m.V {
			m.V[i] = idealSpeed
		}
	case MotionRotor:
		yc := float64(rows-1) / 2
		xc := float64(cols-1) / 2
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				dy := float64(r) - yc
				dx := float64(c) - xc
				dist := math.Hypot(dx, dy)
				if dist == 0 {
					continue
				}
				i := r*cols + c
				m.U[i] = idealSpeed * dy / dist
				m.V[i] = -idealSpeed * dx / dist
			}
		}
	default:
		return MotionField{}, fmt.Errorf("%w: unknown motion type %q", ErrInvalidArgument, mt)
	}
	return m, nil
}
