// Package advect implements the warp primitive used to build synthetic
// observation sequences: backward semi-Lagrangian advection with bilinear
// interpolation.
package advect

import (
	"fmt"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
)

// SemiLagrangian advects fields backward along a motion field: each target
// pixel looks upstream by its own displacement and interpolates the source
// there. It implements domain.Warper.
type SemiLagrangian struct{}

// New creates a semi-Lagrangian warper.
func New() *SemiLagrangian {
	return &SemiLagrangian{}
}

// Warp produces the field advected one step along the motion field. Target
// pixels whose upstream source lies outside the grid, or whose interpolation
// stencil touches an invalid source cell, come back masked invalid — they
// are never zero-filled here.
//
// Non-finite displacements would send the backward trace to undefined
// coordinates, so they are rejected with domain.ErrInvalidArgument before
// any pixel is touched.
func (s *SemiLagrangian) Warp(field domain.Field, motion domain.MotionField) (domain.Field, error) {
	if field.Rows != motion.Rows || field.Cols != motion.Cols {
		return domain.Field{}, fmt.Errorf("%w: field is %dx%d but motion is %dx%d",
			domain.ErrShapeMismatch, field.Rows, field.Cols, motion.Rows, motion.Cols)
	}
	if !motion.Finite() {
		return domain.Field{}, fmt.Errorf("%w: motion field contains non-finite values", domain.ErrInvalidArgument)
	}

	out := domain.NewField(field.Rows, field.Cols)
	for r := 0; r < field.Rows; r++ {
		for c := 0; c < field.Cols; c++ {
			i := r*field.Cols + c
			// Backward trace: the value arriving at (c, r) left from
			// (c − u, r − v) one step ago.
			x := float64(c) - motion.U[i]
			y := float64(r) - motion.V[i]

			v, ok := bilinear(field, x, y)
			if !ok {
				out.Mask[i] = false
				continue
			}
			out.Values[i] = v
		}
	}
	return out, nil
}

// bilinear interpolates the field at continuous coordinates (x, y), with x
// along columns and y along rows. Returns ok=false when the point falls
// outside the grid or any stencil corner with nonzero weight is invalid.
func bilinear(f domain.Field, x, y float64) (float64, bool) {
	if x < 0 || y < 0 || x > float64(f.Cols-1) || y > float64(f.Rows-1) {
		return 0, false
	}

	c0 := int(x)
	r0 := int(y)
	c1 := min(c0+1, f.Cols-1)
	r1 := min(r0+1, f.Rows-1)
	fx := x - float64(c0)
	fy := y - float64(r0)

	w00 := (1 - fx) * (1 - fy)
	w01 := fx * (1 - fy)
	w10 := (1 - fx) * fy
	w11 := fx * fy

	corners := [4]struct {
		r, c int
		w    float64
	}{
		{r0, c0, w00},
		{r0, c1, w01},
		{r1, c0, w10},
		{r1, c1, w11},
	}

	sum := 0.0
	for _, p := range corners {
		if p.w == 0 {
			continue
		}
		if !f.Valid(p.r, p.c) {
			return 0, false
		}
		sum += p.w * f.At(p.r, p.c)
	}
	return sum, true
}
