package flow

import (
	"context"
	"fmt"
	"math"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
)

// defaultMaxShift bounds the displacement search. Idealized benchmark motion
// is 2 pixels per step, so 10 leaves generous headroom.
const defaultMaxShift = 10

// BlockMatch estimates a single global translation between the last two
// frames by exhaustive shift search: the integer (dx, dy) minimizing the
// mean squared difference over the overlapping valid region wins, and the
// result is broadcast to a dense motion field. It recovers uniform
// translation exactly on clean data and serves as the benchmark's fast
// baseline estimator.
type BlockMatch struct {
	maxShift int
}

// NewBlockMatch creates a block-matching estimator with the default search
// radius.
func NewBlockMatch() *BlockMatch {
	return &BlockMatch{maxShift: defaultMaxShift}
}

func (b *BlockMatch) MinFrames() int { return 2 }

// Estimate searches integer displacements in [−maxShift, maxShift]² between
// the two most recent frames. Ties prefer the smaller displacement so a
// featureless scene estimates zero motion rather than an arbitrary shift.
func (b *BlockMatch) Estimate(ctx context.Context, seq []domain.Field) (domain.MotionField, error) {
	if len(seq) < b.MinFrames() {
		return domain.MotionField{}, fmt.Errorf("%w: block matching needs %d frames, got %d",
			domain.ErrInvalidArgument, b.MinFrames(), len(seq))
	}
	prev := seq[len(seq)-2]
	curr := seq[len(seq)-1]
	if !prev.SameShape(curr) {
		return domain.MotionField{}, fmt.Errorf("%w: frames are %dx%d and %dx%d",
			domain.ErrShapeMismatch, prev.Rows, prev.Cols, curr.Rows, curr.Cols)
	}

	bestDx, bestDy := 0, 0
	bestCost := math.Inf(1)
	for dy := -b.maxShift; dy <= b.maxShift; dy++ {
		if err := ctx.Err(); err != nil {
			return domain.MotionField{}, err
		}
		for dx := -b.maxShift; dx <= b.maxShift; dx++ {
			cost, ok := shiftCost(prev, curr, dx, dy)
			if !ok {
				continue
			}
			if cost < bestCost || (cost == bestCost && closerToZero(dx, dy, bestDx, bestDy)) {
				bestCost = cost
				bestDx, bestDy = dx, dy
			}
		}
	}

	out := domain.NewMotionField(curr.Rows, curr.Cols)
	for i := range out.U {
		out.U[i] = float64(bestDx)
		out.V[i] = float64(bestDy)
	}
	return out, nil
}

// shiftCost is the mean squared difference between curr and prev shifted by
// (dx, dy), over pixels valid in both frames. ok=false when the overlap is
// empty.
func shiftCost(prev, curr domain.Field, dx, dy int) (float64, bool) {
	sum := 0.0
	n := 0
	r0, r1 := max(0, dy), min(curr.Rows, curr.Rows+dy)
	c0, c1 := max(0, dx), min(curr.Cols, curr.Cols+dx)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			if !curr.Valid(r, c) || !prev.Valid(r-dy, c-dx) {
				continue
			}
			d := curr.At(r, c) - prev.At(r-dy, c-dx)
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func closerToZero(dx, dy, refDx, refDy int) bool {
	return dx*dx+dy*dy < refDx*refDx+refDy*refDy
}
