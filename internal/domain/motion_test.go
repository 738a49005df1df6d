package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMotionType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MotionType
		wantErr bool
	}{
		{"linear-x", "linear-x", MotionLinearX, false},
		{"linear-y", "linear-y", MotionLinearY, false},
		{"rotor", "rotor", MotionRotor, false},
		{"unknown", "spiral", "", true},
		{"empty", "", "", true},
		{"case sensitive", "Linear-X", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMotionType(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdealMotion_Shape(t *testing.T) {
	for _, mt := range MotionTypes() {
		t.Run(string(mt), func(t *testing.T) {
			m, err := IdealMotion(mt, 37, 53)
			require.NoError(t, err)
			assert.Equal(t, 37, m.Rows)
			assert.Equal(t, 53, m.Cols)
			assert.Len(t, m.U, 37*53)
			assert.Len(t, m.V, 37*53)
			assert.True(t, m.Finite())
		})
	}
}

func TestIdealMotion_Linear(t *testing.T) {
	t.Run("linear-x is u=2 v=0 everywhere", func(t *testing.T) {
		m, err := IdealMotion(MotionLinearX, 20, 30)
		require.NoError(t, err)
		for i := range m.U {
			require.Equal(t, 2.0, m.U[i])
			require.Equal(t, 0.0, m.V[i])
		}
	})

	t.Run("linear-y is u=0 v=2 everywhere", func(t *testing.T) {
		m, err := IdealMotion(MotionLinearY, 20, 30)
		require.NoError(t, err)
		for i := range m.U {
			require.Equal(t, 0.0, m.U[i])
			require.Equal(t, 2.0, m.V[i])
		}
	})
}

func TestIdealMotion_Rotor(t *testing.T) {
	t.Run("center pixel of odd grid keeps zero velocity", func(t *testing.T) {
		m, err := IdealMotion(MotionRotor, 51, 51)
		require.NoError(t, err)
		u, v := m.At(25, 25)
		assert.Zero(t, u)
		assert.Zero(t, v)
	})

	t.Run("speed is 2 off center", func(t *testing.T) {
		m, err := IdealMotion(MotionRotor, 51, 51)
		require.NoError(t, err)
		for r := 0; r < m.Rows; r++ {
			for c := 0; c < m.Cols; c++ {
				if r == 25 && c == 25 {
					continue
				}
				u, v := m.At(r, c)
				require.InDelta(t, 2.0, math.Hypot(u, v), 1e-12, "pixel (%d,%d)", r, c)
			}
		}
	})

	t.Run("rotation is tangential", func(t *testing.T) {
		m, err := IdealMotion(MotionRotor, 51, 51)
		require.NoError(t, err)

		// Directly right of center: dy=0, dx>0 → u=0, v=−2.
		u, v := m.At(25, 40)
		assert.InDelta(t, 0.0, u, 1e-12)
		assert.InDelta(t, -2.0, v, 1e-12)

		// Directly below center: dy>0, dx=0 → u=2, v=0.
		u, v = m.At(40, 25)
		assert.InDelta(t, 2.0, u, 1e-12)
		assert.InDelta(t, 0.0, v, 1e-12)
	})

	t.Run("even grid has no zero-velocity pixel", func(t *testing.T) {
		m, err := IdealMotion(MotionRotor, 50, 50)
		require.NoError(t, err)
		for i := range m.U {
			require.InDelta(t, 2.0, math.Hypot(m.U[i], m.V[i]), 1e-12)
		}
	})
}

func TestIdealMotion_Errors(t *testing.T) {
	t.Run("unknown motion type", func(t *testing.T) {
		_, err := IdealMotion("spiral", 10, 10)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("degenerate grid", func(t *testing.T) {
		_, err := IdealMotion(MotionLinearX, 0, 10)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
