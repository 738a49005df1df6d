package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
	"github.com/couchcryptid/motion-bench-service/internal/flow"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.GridRows)
	assert.Equal(t, 100, cfg.GridCols)
	assert.Equal(t, 3, cfg.SequenceLength)
	assert.Equal(t, []domain.MotionType{domain.MotionLinearX, domain.MotionLinearY, domain.MotionRotor}, cfg.MotionTypes)
	assert.Equal(t, []flow.Method{flow.MethodBlockMatch, flow.MethodLucasKanade}, cfg.FlowMethods)
	assert.Equal(t, 0.1, cfg.MaskThreshold)
	assert.Equal(t, 20, cfg.MaskSmoothingWindow)
	assert.Equal(t, time.Duration(0), cfg.RunInterval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "motion-bench-results", cfg.KafkaResultsTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("GRID_ROWS", "64")
	t.Setenv("GRID_COLS", "128")
	t.Setenv("SEQUENCE_LENGTH", "5")
	t.Setenv("MOTION_TYPES", "rotor")
	t.Setenv("FLOW_METHODS", "blockmatch")
	t.Setenv("MASK_THRESHOLD", "0.25")
	t.Setenv("MASK_SMOOTHING_WINDOW", "10")
	t.Setenv("RUN_INTERVAL", "5m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_RESULTS_TOPIC", "bench-out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 64, cfg.GridRows)
	assert.Equal(t, 128, cfg.GridCols)
	assert.Equal(t, 5, cfg.SequenceLength)
	assert.Equal(t, []domain.MotionType{domain.MotionRotor}, cfg.MotionTypes)
	assert.Equal(t, []flow.Method{flow.MethodBlockMatch}, cfg.FlowMethods)
	assert.Equal(t, 0.25, cfg.MaskThreshold)
	assert.Equal(t, 10, cfg.MaskSmoothingWindow)
	assert.Equal(t, 5*time.Minute, cfg.RunInterval)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "bench-out", cfg.KafkaResultsTopic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric grid rows", "GRID_ROWS", "wide"},
		{"zero grid rows", "GRID_ROWS", "0"},
		{"negative sequence length", "SEQUENCE_LENGTH", "-1"},
		{"unknown motion type", "MOTION_TYPES", "linear-x,spiral"},
		{"unknown flow method", "FLOW_METHODS", "darts"},
		{"negative threshold", "MASK_THRESHOLD", "-0.5"},
		{"malformed interval", "RUN_INTERVAL", "five minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_SmoothingWindowMustFitGrid(t *testing.T) {
	t.Setenv("GRID_ROWS", "16")
	t.Setenv("GRID_COLS", "16")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MASK_SMOOTHING_WINDOW")
}

func TestLoad_EmptyMotionTypeList(t *testing.T) {
	t.Setenv("MOTION_TYPES", " , ,")
	_, err := Load()
	assert.Error(t, err)
}
