// Package flow provides optical-flow estimators for the benchmark and the
// registry that resolves them. Methods are an enumerated, fixed variant set:
// resolution happens at call time against registered implementations, and an
// unknown method is an explicit error, never a silent fallback.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/couchcryptid/motion-bench-service/internal/domain"
)

// ErrUnknownMethod reports a method tag with no registered estimator.
var ErrUnknownMethod = errors.New("unknown optical flow method")

// Method identifies an optical-flow estimation strategy.
type Method string

const (
	MethodBlockMatch  Method = "blockmatch"
	MethodLucasKanade Method = "lucaskanade"
)

// ParseMethod validates a method name against the built-in variant set.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodBlockMatch, MethodLucasKanade:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Estimator computes a dense motion field from an observation sequence.
type Estimator interface {
	// Estimate returns a motion field with the same grid shape as the
	// input frames. The sequence must hold at least MinFrames frames.
	Estimate(ctx context.Context, seq []domain.Field) (domain.MotionField, error)

	// MinFrames is the minimum temporal history the estimator needs.
	// The scenario runner extends sequences to satisfy it.
	MinFrames() int
}

// Registry maps method tags to estimator implementations.
type Registry struct {
	estimators map[Method]Estimator
}

// NewRegistry creates a registry pre-populated with the built-in estimators.
func NewRegistry() *Registry {
	r := &Registry{estimators: make(map[Method]Estimator)}
	r.Register(MethodBlockMatch, NewBlockMatch())
	r.Register(MethodLucasKanade, NewLucasKanade())
	return r
}

// Register adds or replaces the estimator for a method tag.
func (r *Registry) Register(m Method, e Estimator) {
	r.estimators[m] = e
}

// Get resolves a method tag to its estimator.
func (r *Registry) Get(m Method) (Estimator, error) {
	e, ok := r.estimators[m]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
	return e, nil
}

// Methods lists the registered method tags in sorted order.
func (r *Registry) Methods() []Method {
	out := make([]Method, 0, len(r.estimators))
	for m := range r.estimators {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
