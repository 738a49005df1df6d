package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
	"github.com/couchcryptid/motion-bench-service/internal/flow"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Scenario matrix.
	GridRows       int
	GridCols       int
	SequenceLength int
	MotionTypes    []domain.MotionType
	FlowMethods    []flow.Method

	// Scoring parameters.
	MaskThreshold       float64
	MaskSmoothingWindow int

	// RunInterval re-runs the suite on a fixed period; 0 means one-shot.
	RunInterval time.Duration

	// Kafka results sink configuration.
	KafkaBrokers      []string
	KafkaResultsTopic string
	KafkaEnabled      bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	gridRows, err := parsePositiveInt("GRID_ROWS", 100)
	if err != nil {
		return nil, err
	}
	gridCols, err := parsePositiveInt("GRID_COLS", 100)
	if err != nil {
		return nil, err
	}
	seqLen, err := parsePositiveInt("SEQUENCE_LENGTH", 3)
	if err != nil {
		return nil, err
	}
	smoothingWindow, err := parsePositiveInt("MASK_SMOOTHING_WINDOW", domain.DefaultSmoothingWindow)
	if err != nil {
		return nil, err
	}

	threshold, err := parseThreshold()
	if err != nil {
		return nil, err
	}

	motionTypes, err := parseMotionTypes(sharedcfg.EnvOrDefault("MOTION_TYPES", "linear-x,linear-y,rotor"))
	if err != nil {
		return nil, err
	}

	methods, err := parseMethods(sharedcfg.EnvOrDefault("FLOW_METHODS", "blockmatch,lucaskanade"))
	if err != nil {
		return nil, err
	}

	runInterval, err := parseRunInterval()
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GridRows:       gridRows,
		GridCols:       gridCols,
		SequenceLength: seqLen,
		MotionTypes:    motionTypes,
		FlowMethods:    methods,

		MaskThreshold:       threshold,
		MaskSmoothingWindow: smoothingWindow,

		RunInterval: runInterval,

		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaResultsTopic: sharedcfg.EnvOrDefault("KAFKA_RESULTS_TOPIC", "motion-bench-results"),
		KafkaEnabled:      kafkaEnabled,
	}

	// The smoothing window must fit the grid, otherwise the precipitation
	// mask degenerates to a single averaged plateau.
	if cfg.MaskSmoothingWindow > cfg.GridRows || cfg.MaskSmoothingWindow > cfg.GridCols {
		return nil, errors.New("MASK_SMOOTHING_WINDOW must not exceed the grid dimensions")
	}
	if len(cfg.MotionTypes) == 0 {
		return nil, errors.New("MOTION_TYPES must name at least one motion type")
	}
	if len(cfg.FlowMethods) == 0 {
		return nil, errors.New("FLOW_METHODS must name at least one method")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaResultsTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_RESULTS_TOPIC is empty")
		}
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseThreshold() (float64, error) {
	s := os.Getenv("MASK_THRESHOLD")
	if s == "" {
		return domain.DefaultMaskThreshold, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid MASK_THRESHOLD: %q", s)
	}
	return v, nil
}

func parseRunInterval() (time.Duration, error) {
	s := os.Getenv("RUN_INTERVAL")
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid RUN_INTERVAL: %q", s)
	}
	return d, nil
}

func parseMotionTypes(s string) ([]domain.MotionType, error) {
	var out []domain.MotionType
	for _, name := range splitList(s) {
		mt, err := domain.ParseMotionType(name)
		if err != nil {
			return nil, fmt.Errorf("invalid MOTION_TYPES: %w", err)
		}
		out = append(out, mt)
	}
	return out, nil
}

func parseMethods(s string) ([]flow.Method, error) {
	var out []flow.Method
	for _, name := range splitList(s) {
		m, err := flow.ParseMethod(name)
		if err != nil {
			return nil, fmt.Errorf("invalid FLOW_METHODS: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
