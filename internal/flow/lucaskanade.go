package flow

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
)

const (
	// defaultWindowSize is the side length of the interrogation windows the
	// grid is tiled into; each window yields one flow vector.
	defaultWindowSize = 16

	// minEigenvalue rejects windows whose structure tensor is too close to
	// singular for a trustworthy solve (the aperture problem: flat or
	// single-edge regions constrain at most one flow component).
	minEigenvalue = 1e-6
)

// LucasKanade estimates local flow by least squares over interrogation
// windows: within each window the spatio-temporal gradients constrain a
// single (u, v), obtained by solving the 2×2 normal equations. Gradient
// constraints are accumulated over every consecutive frame pair, so more
// temporal history tightens the estimate.
type LucasKanade struct {
	windowSize int
}

// NewLucasKanade creates a windowed least-squares estimator with the default
// window size.
func NewLucasKanade() *LucasKanade {
	return &LucasKanade{windowSize: defaultWindowSize}
}

// MinFrames is 3: with a single frame pair the temporal gradient carries the
// full brightness change, so at least two pairs are required before the
// least-squares system averages out stepping artifacts.
func (l *LucasKanade) MinFrames() int { return 3 }

// Estimate tiles the grid into windows and solves each window's normal
// equations with gonum. Windows failing the eigenvalue check keep zero flow.
// The result is a dense field: every pixel takes its window's vector.
func (l *LucasKanade) Estimate(ctx context.Context, seq []domain.Field) (domain.MotionField, error) {
	if len(seq) < l.MinFrames() {
		return domain.MotionField{}, fmt.Errorf("%w: lucas-kanade needs %d frames, got %d",
			domain.ErrInvalidArgument, l.MinFrames(), len(seq))
	}
	rows, cols := seq[0].Rows, seq[0].Cols
	for _, f := range seq[1:] {
		if f.Rows != rows || f.Cols != cols {
			return domain.MotionField{}, fmt.Errorf("%w: frames disagree on grid shape", domain.ErrShapeMismatch)
		}
	}

	out := domain.NewMotionField(rows, cols)
	for wr := 0; wr < rows; wr += l.windowSize {
		if err := ctx.Err(); err != nil {
			return domain.MotionField{}, err
		}
		for wc := 0; wc < cols; wc += l.windowSize {
			u, v := l.solveWindow(seq, wr, wc, min(wr+l.windowSize, rows), min(wc+l.windowSize, cols))
			for r := wr; r < min(wr+l.windowSize, rows); r++ {
				for c := wc; c < min(wc+l.windowSize, cols); c++ {
					i := r*cols + c
					out.U[i] = u
					out.V[i] = v
				}
			}
		}
	}
	return out, nil
}

// solveWindow accumulates gradient constraints over all consecutive frame
// pairs inside the window and solves A'A x = A'b for (u, v). Border pixels
// and invalid pixels contribute nothing.
func (l *LucasKanade) solveWindow(seq []domain.Field, r0, c0, r1, c1 int) (u, v float64) {
	var sxx, sxy, syy, sxt, syt float64

	for k := 1; k < len(seq); k++ {
		prev, curr := seq[k-1], seq[k]
		for r := max(r0, 1); r < min(r1, prev.Rows-1); r++ {
			for c := max(c0, 1); c < min(c1, prev.Cols-1); c++ {
				if !gradientStencilValid(prev, curr, r, c) {
					continue
				}
				ix := (prev.At(r, c+1) - prev.At(r, c-1)) / 2
				iy := (prev.At(r+1, c) - prev.At(r-1, c)) / 2
				it := curr.At(r, c) - prev.At(r, c)
				sxx += ix * ix
				sxy += ix * iy
				syy += iy * iy
				sxt += ix * it
				syt += iy * it
			}
		}
	}

	a := mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy})
	var eig mat.EigenSym
	if !eig.Factorize(a, false) {
		return 0, 0
	}
	vals := eig.Values(nil)
	if vals[0] < minEigenvalue {
		return 0, 0
	}

	b := mat.NewVecDense(2, []float64{-sxt, -syt})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return 0, 0
	}
	return x.AtVec(0), x.AtVec(1)
}

// gradientStencilValid reports whether the central-difference stencil at
// (r, c) touches only valid pixels in both frames.
func gradientStencilValid(prev, curr domain.Field, r, c int) bool {
	return prev.Valid(r, c) && curr.Valid(r, c) &&
		prev.Valid(r, c+1) && prev.Valid(r, c-1) &&
		prev.Valid(r+1, c) && prev.Valid(r-1, c)
}
