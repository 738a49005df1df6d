package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullMask(n int) []bool {
	m := make([]bool, n)
	for i := range m {
		m[i] = true
	}
	return m
}

func TestRelativeRMSE(t *testing.T) {
	ideal, err := IdealMotion(MotionLinearX, 10, 10)
	require.NoError(t, err)

	t.Run("exact match scores zero", func(t *testing.T) {
		computed, err := IdealMotion(MotionLinearX, 10, 10)
		require.NoError(t, err)

		score, err := RelativeRMSE(ideal, computed, fullMask(100))
		require.NoError(t, err)
		assert.Zero(t, score)
	})

	t.Run("invariant under uniform scaling", func(t *testing.T) {
		computed := NewMotionField(10, 10)
		for i := range computed.U {
			computed.U[i] = 1.5 // off by 0.5 from ideal u=2
		}
		mask := fullMask(100)

		base, err := RelativeRMSE(ideal, computed, mask)
		require.NoError(t, err)

		scaledIdeal := NewMotionField(10, 10)
		scaledComputed := NewMotionField(10, 10)
		for i := range ideal.U {
			scaledIdeal.U[i] = ideal.U[i] * 7
			scaledIdeal.V[i] = ideal.V[i] * 7
			scaledComputed.U[i] = computed.U[i] * 7
			scaledComputed.V[i] = computed.V[i] * 7
		}
		scaled, err := RelativeRMSE(scaledIdeal, scaledComputed, mask)
		require.NoError(t, err)

		assert.InDelta(t, base, scaled, 1e-9)
	})

	t.Run("known ratio", func(t *testing.T) {
		// Computed zero everywhere: error energy equals ideal energy,
		// so the relative RMSE is exactly 100%.
		score, err := RelativeRMSE(ideal, NewMotionField(10, 10), fullMask(100))
		require.NoError(t, err)
		assert.InDelta(t, 100.0, score, 1e-9)
	})

	t.Run("unmasked pixels contribute nothing", func(t *testing.T) {
		computed, err := IdealMotion(MotionLinearX, 10, 10)
		require.NoError(t, err)
		// Corrupt a pixel outside the mask; the score must stay zero.
		computed.U[99] = 1e6
		mask := fullMask(100)
		mask[99] = false

		score, err := RelativeRMSE(ideal, computed, mask)
		require.NoError(t, err)
		assert.Zero(t, score)
	})

	t.Run("degenerate when ideal has zero in-mask energy", func(t *testing.T) {
		zero := NewMotionField(10, 10)
		_, err := RelativeRMSE(zero, ideal, fullMask(100))
		assert.ErrorIs(t, err, ErrDegenerateMetric)
	})

	t.Run("degenerate on empty mask", func(t *testing.T) {
		_, err := RelativeRMSE(ideal, ideal, make([]bool, 100))
		assert.ErrorIs(t, err, ErrDegenerateMetric)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := RelativeRMSE(ideal, NewMotionField(5, 5), fullMask(100))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("wrong mask length", func(t *testing.T) {
		computed, err := IdealMotion(MotionLinearX, 10, 10)
		require.NoError(t, err)
		_, err = RelativeRMSE(ideal, computed, fullMask(50))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestPrecipitationMask(t *testing.T) {
	ref := ReferenceField(100, 100)

	t.Run("covers the precipitation block, excludes the far corner", func(t *testing.T) {
		mask := PrecipitationMask([]Field{ref}, ScoreOptions{})

		assert.True(t, mask[30*100+30], "block center must be in the mask")
		assert.False(t, mask[99*100+99], "far corner must stay outside")
		n := MaskedPixels(mask)
		assert.Greater(t, n, 40*40, "smoothing should spread the mask past the block")
		assert.Less(t, n, 100*100/2)
	})

	t.Run("pixels invalid at any timestep are excluded", func(t *testing.T) {
		tainted := ref.Clone()
		tainted.Mask[30*100+30] = false

		mask := PrecipitationMask([]Field{ref, tainted}, ScoreOptions{})
		assert.False(t, mask[30*100+30])
	})

	t.Run("threshold honors overrides", func(t *testing.T) {
		// A threshold above the block intensity leaves nothing.
		mask := PrecipitationMask([]Field{ref}, ScoreOptions{Threshold: 2})
		assert.Zero(t, MaskedPixels(mask))
	})
}
