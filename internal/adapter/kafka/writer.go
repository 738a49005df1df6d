// Package kafka publishes benchmark results to the configured sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/motion-bench-service/internal/config"
	"github.com/couchcryptid/motion-bench-service/internal/domain"
)

// Writer produces result messages to a Kafka topic.
// It implements bench.ResultPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured results topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaResultsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishResults serializes and publishes a suite's results in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishResults(ctx context.Context, results []domain.Result) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeResult(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeResult marshals a benchmark result into a Kafka message. The key
// is "motionType-method" so repeated runs of the same scenario land on the
// same partition in order.
func serializeResult(result domain.Result) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%s-%s", result.MotionType, result.Method)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "method", Value: []byte(result.Method)},
			{Key: "outcome", Value: []byte(result.Outcome)},
			{Key: "evaluated_at", Value: []byte(result.EvaluatedAt.Format(time.RFC3339))},
		},
	}, nil
}
