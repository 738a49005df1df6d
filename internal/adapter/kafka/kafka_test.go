package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
)

func TestSerializeResult(t *testing.T) {
	evaluatedAt := time.Date(2026, time.March, 14, 9, 26, 0, 0, time.UTC)
	result := domain.Result{
		MotionType:     domain.MotionRotor,
		Method:         "lucaskanade",
		Rows:           100,
		Cols:           100,
		SequenceLength: 3,
		MaskedPixels:   3249,
		RelRMSEPercent: 12.5,
		Outcome:        domain.OutcomeSuccess,
		Duration:       42 * time.Millisecond,
		EvaluatedAt:    evaluatedAt,
	}

	msg, err := serializeResult(result)
	require.NoError(t, err)

	assert.Equal(t, []byte("rotor-lucaskanade"), msg.Key)

	var decoded domain.Result
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, result, decoded)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "lucaskanade", headers["method"])
	assert.Equal(t, "success", headers["outcome"])
	assert.Equal(t, "2026-03-14T09:26:00Z", headers["evaluated_at"])
}

func TestSerializeResult_FailureCarriesError(t *testing.T) {
	result := domain.Result{
		MotionType: domain.MotionLinearX,
		Method:     "blockmatch",
		Outcome:    domain.OutcomeEstimatorError,
		Error:      "estimator failure: blockmatch: no convergence",
	}

	msg, err := serializeResult(result)
	require.NoError(t, err)

	var decoded domain.Result
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, domain.OutcomeEstimatorError, decoded.Outcome)
	assert.Contains(t, decoded.Error, "no convergence")
}
