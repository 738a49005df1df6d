package domain

import "math"

// Field is a rows × cols scalar grid with an explicit validity mask.
// Values are stored row-major: Values[r*Cols+c]. Mask[i] is true when
// Values[i] is a real observation and false when the cell is unknown.
type Field struct {
	Rows, Cols int
	Values     []float64
	Mask       []bool
}

// NewField creates a zero-valued field with every cell marked valid.
func NewField(rows, cols int) Field {
	mask := make([]bool, rows*cols)
	for i := range mask {
		mask[i] = true
	}
	return Field{
		Rows:   rows,
		Cols:   cols,
		Values: make([]float64, rows*cols),
		Mask:   mask,
	}
}

// ReferenceField builds the standard benchmark input: a zero field with a
// rectangular block of intensity 1 covering rows/cols [dim/10, dim/10+2·dim/5).
// On a 100×100 grid that is the classic 40×40 block at [10:50, 10:50].
func ReferenceField(rows, cols int) Field {
	f := NewField(rows, cols)
	r0, r1 := rows/10, rows/10+2*rows/5
	c0, c1 := cols/10, cols/10+2*cols/5
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			f.Values[r*cols+c] = 1
		}
	}
	return f
}

// At returns the value at (r, c). Callers are responsible for bounds; the
// hot loops in this package never index out of range.
func (f Field) At(r, c int) float64 { return f.Values[r*f.Cols+c] }

// Valid reports whether the cell at (r, c) holds a real observation.
func (f Field) Valid(r, c int) bool { return f.Mask[r*f.Cols+c] }

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := Field{
		Rows:   f.Rows,
		Cols:   f.Cols,
		Values: make([]float64, len(f.Values)),
		Mask:   make([]bool, len(f.Mask)),
	}
	copy(out.Values, f.Values)
	copy(out.Mask, f.Mask)
	return out
}

// SameShape reports whether two fields share grid dimensions.
func (f Field) SameShape(other Field) bool {
	return f.Rows == other.Rows && f.Cols == other.Cols
}

// MaxProjection returns the per-pixel maximum intensity across a sequence of
// same-shaped fields. A pixel is valid in the projection only when it is
// valid at every timestep; invalid timesteps contribute nothing to the max.
func MaxProjection(seq []Field) Field {
	if len(seq) == 0 {
		return Field{}
	}
	out := seq[0].Clone()
	for _, f := range seq[1:] {
		for i, v := range f.Values {
			if !f.Mask[i] {
				out.Mask[i] = false
				continue
			}
			if v > out.Values[i] {
				out.Values[i] = v
			}
		}
	}
	return out
}

// BoxSmooth applies a window × window uniform (box) filter to the field
// values, ignoring the mask: masked cells smooth like any other so the
// downstream threshold sees a spatially continuous intensity surface. The
// window is clamped to the grid edge, so border pixels average over a
// truncated neighborhood.
func (f Field) BoxSmooth(window int) Field {
	if window < 2 {
		return f.Clone()
	}
	half := window / 2
	out := f.Clone()
	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			r0, r1 := max(0, r-half), min(f.Rows-1, r+half)
			c0, c1 := max(0, c-half), min(f.Cols-1, c+half)
			sum := 0.0
			for rr := r0; rr <= r1; rr++ {
				for cc := c0; cc <= c1; cc++ {
					sum += f.Values[rr*f.Cols+cc]
				}
			}
			out.Values[r*f.Cols+c] = sum / float64((r1-r0+1)*(c1-c0+1))
		}
	}
	return out
}

// MotionField is a dense per-pixel displacement field over a rows × cols
// grid. U is displacement along x (columns), V along y (rows), both stored
// row-major like Field values. A motion field has no mask: it must be
// defined everywhere so invalid displacements never enter a warp.
type MotionField struct {
	Rows, Cols int
	U, V       []float64
}

// NewMotionField creates a zero motion field.
func NewMotionField(rows, cols int) MotionField {
	return MotionField{
		Rows: rows,
		Cols: cols,
		U:    make([]float64, rows*cols),
		V:    make([]float64, rows*cols),
	}
}

// At returns the (u, v) displacement at (r, c).
func (m MotionField) At(r, c int) (u, v float64) {
	i := r*m.Cols + c
	return m.U[i], m.V[i]
}

// SameShape reports whether two motion fields share grid dimensions.
func (m MotionField) SameShape(other MotionField) bool {
	return m.Rows == other.Rows && m.Cols == other.Cols
}

// Finite reports whether every displacement component is a finite number.
func (m MotionField) Finite() bool {
	for i := range m.U {
		if !isFinite(m.U[i]) || !isFinite(m.V[i]) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
