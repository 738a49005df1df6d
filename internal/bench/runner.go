// Package bench orchestrates the benchmark: for every configured
// (motion type × estimator) pair it builds the ground-truth motion field,
// synthesizes an observation sequence, runs the estimator, and scores the
// result. Each scenario is an independent linear pipeline; nothing mutable
// is shared between runs.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/motion-bench-service/internal/config"
	"github.com/couchcryptid/motion-bench-service/internal/domain"
	"github.com/couchcryptid/motion-bench-service/internal/flow"
	"github.com/couchcryptid/motion-bench-service/internal/observability"
)

// ResultPublisher delivers a completed suite's results to an external sink.
type ResultPublisher interface {
	PublishResults(ctx context.Context, results []domain.Result) error
}

// Runner executes the scenario matrix, records results, and optionally
// publishes them after each suite.
type Runner struct {
	warper    domain.Warper
	registry  *flow.Registry
	publisher ResultPublisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	cfg       *config.Config

	ready atomic.Bool

	mu          sync.RWMutex
	lastResults []domain.Result
}

// New creates a Runner. Pass a nil publisher to disable the results sink.
func New(w domain.Warper, reg *flow.Registry, pub ResultPublisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, cfg *config.Config) *Runner {
	return &Runner{
		warper:    w,
		registry:  reg,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		cfg:       cfg,
	}
}

// CheckReadiness returns nil once at least one suite has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no benchmark suite has completed yet")
	}
	return nil
}

// Results returns the most recently completed suite's results.
func (r *Runner) Results() []domain.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Result, len(r.lastResults))
	copy(out, r.lastResults)
	return out
}

// Run executes suites until the context is cancelled. With a zero run
// interval it performs a single suite and returns.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("benchmark runner started",
		"grid", fmt.Sprintf("%dx%d", r.cfg.GridRows, r.cfg.GridCols),
		"motion_types", len(r.cfg.MotionTypes),
		"methods", len(r.cfg.FlowMethods),
		"interval", r.cfg.RunInterval,
	)
	r.metrics.BenchRunning.Set(1)
	defer r.metrics.BenchRunning.Set(0)

	for {
		if err := r.RunSuite(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("benchmark runner stopping", "reason", ctx.Err())
				return nil
			}
			return err
		}

		if r.cfg.RunInterval == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			r.logger.Info("benchmark runner stopping", "reason", ctx.Err())
			return nil
		case <-r.clock.After(r.cfg.RunInterval):
		}
	}
}

// RunSuite runs the full scenario matrix once, stores the results, updates
// metrics, and publishes to the sink when configured. Individual scenario
// failures are recorded as results, not suite errors; only context
// cancellation aborts the suite.
func (r *Runner) RunSuite(ctx context.Context) error {
	start := r.clock.Now()
	results := make([]domain.Result, 0, len(r.cfg.MotionTypes)*len(r.cfg.FlowMethods))

	for _, mt := range r.cfg.MotionTypes {
		for _, method := range r.cfg.FlowMethods {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := r.runScenario(ctx, mt, method)
			r.observe(res)
			results = append(results, res)
		}
	}

	r.mu.Lock()
	r.lastResults = results
	r.mu.Unlock()

	r.metrics.SuiteRuns.Inc()
	r.metrics.SuiteDuration.Observe(r.clock.Since(start).Seconds())
	r.ready.Store(true)

	if r.publisher != nil {
		if err := r.publisher.PublishResults(ctx, results); err != nil {
			// Publishing is best-effort: results stay queryable over HTTP.
			r.logger.Error("publish results failed", "error", err)
			r.metrics.PublishErrors.Inc()
		} else {
			r.metrics.ResultsPublished.Add(float64(len(results)))
		}
	}

	return ctx.Err()
}

// runScenario executes one build-truth → synthesize → estimate → mask →
// score pipeline and folds any failure into the returned result.
func (r *Runner) runScenario(ctx context.Context, mt domain.MotionType, method flow.Method) domain.Result {
	start := r.clock.Now()
	res := domain.Result{
		MotionType: mt,
		Method:     string(method),
		Rows:       r.cfg.GridRows,
		Cols:       r.cfg.GridCols,
	}

	err := r.evaluate(ctx, mt, method, &res)
	res.Outcome = domain.ClassifyError(err)
	if err != nil {
		res.Error = err.Error()
	}
	res.Duration = r.clock.Since(start)
	res.StampEvaluatedAt()
	return res
}

func (r *Runner) evaluate(ctx context.Context, mt domain.MotionType, method flow.Method, res *domain.Result) error {
	est, err := r.registry.Get(method)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	n := max(r.cfg.SequenceLength, est.MinFrames())
	res.SequenceLength = n

	ideal, err := domain.IdealMotion(mt, r.cfg.GridRows, r.cfg.GridCols)
	if err != nil {
		return err
	}

	ref := domain.ReferenceField(r.cfg.GridRows, r.cfg.GridCols)
	seq, err := domain.GenerateSequence(ref, ideal, n, r.warper, domain.GenerateOptions{})
	if err != nil {
		return err
	}

	computed, err := est.Estimate(ctx, seq)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrEstimator, method, err)
	}
	if !ideal.SameShape(computed) {
		return fmt.Errorf("%w: estimator %s returned %dx%d for a %dx%d grid",
			domain.ErrShapeMismatch, method, computed.Rows, computed.Cols, ideal.Rows, ideal.Cols)
	}

	mask := domain.PrecipitationMask(seq, domain.ScoreOptions{
		SmoothingWindow: r.cfg.MaskSmoothingWindow,
		Threshold:       r.cfg.MaskThreshold,
	})
	res.MaskedPixels = domain.MaskedPixels(mask)

	score, err := domain.RelativeRMSE(ideal, computed, mask)
	if err != nil {
		return err
	}
	res.RelRMSEPercent = score
	return nil
}

// observe logs the scenario outcome and updates the per-scenario metrics.
func (r *Runner) observe(res domain.Result) {
	r.metrics.ScenariosTotal.WithLabelValues(string(res.MotionType), res.Method, string(res.Outcome)).Inc()
	r.metrics.ScenarioDuration.WithLabelValues(res.Method).Observe(res.Duration.Seconds())

	if res.Outcome == domain.OutcomeSuccess {
		r.metrics.RelativeRMSE.WithLabelValues(string(res.MotionType), res.Method).Set(res.RelRMSEPercent)
		r.logger.Info("scenario complete",
			"motion", res.MotionType,
			"method", res.Method,
			"rel_rmse_percent", res.RelRMSEPercent,
			"masked_pixels", res.MaskedPixels,
			"frames", res.SequenceLength,
		)
		return
	}
	r.logger.Warn("scenario failed",
		"motion", res.MotionType,
		"method", res.Method,
		"outcome", res.Outcome,
		"error", res.Error,
	)
}
