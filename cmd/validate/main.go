// Command validate performs offline convergence checks on the benchmark
// harness: it synthesizes the ground truth and observation sequences for the
// full scenario matrix, runs every built-in estimator, and verifies the
// structural invariants plus per-scenario error bounds.
//
// Usage:
//
//	go run ./cmd/validate -rows 100 -cols 100 -seq-len 2 -tolerance 20
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/motion-bench-service/internal/advect"
	"github.com/couchcryptid/motion-bench-service/internal/domain"
	"github.com/couchcryptid/motion-bench-service/internal/flow"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rows := flag.Int("rows", 100, "grid rows")
	cols := flag.Int("cols", 100, "grid cols")
	seqLen := flag.Int("seq-len", 2, "minimum sequence length (extended per estimator)")
	tolerance := flag.Float64("tolerance", 20, "maximum acceptable relative RMSE, percent")
	flag.Parse()

	if *rows < 20 || *cols < 20 || *seqLen < 1 || *tolerance <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rows, *cols, *seqLen, *tolerance); code != 0 {
		os.Exit(code)
	}
}

func run(rows, cols, seqLen int, tolerance float64) int {
	fmt.Println("=== Motion Benchmark Convergence Validation ===")
	fmt.Println()

	phases := []*phase{
		validateSynthesizer(rows, cols),
		validateSequenceGeneration(rows, cols, seqLen),
	}
	registry := flow.NewRegistry()
	for _, mt := range domain.MotionTypes() {
		for _, method := range registry.Methods() {
			phases = append(phases, validateConvergence(registry, mt, method, rows, cols, seqLen, tolerance))
		}
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  %d. %s\n", i+1, e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nAll phases passed.")
	return 0
}

// validateSynthesizer checks the structural invariants of the ideal motion
// fields: shape, constant components, and the rotor's center guard.
func validateSynthesizer(rows, cols int) *phase {
	p := &phase{name: "motion field synthesis"}

	for _, mt := range domain.MotionTypes() {
		m, err := domain.IdealMotion(mt, rows, cols)
		if err != nil {
			p.errorf("%s: %v", mt, err)
			continue
		}
		if m.Rows != rows || m.Cols != cols {
			p.errorf("%s: got %dx%d, want %dx%d", mt, m.Rows, m.Cols, rows, cols)
		}
		if !m.Finite() {
			p.errorf("%s: field contains non-finite values", mt)
		}
	}

	if _, err := domain.IdealMotion("spiral", rows, cols); err == nil {
		p.errorf("unknown motion type accepted")
	}

	linx, _ := domain.IdealMotion(domain.MotionLinearX, rows, cols)
	for i := range linx.U {
		if linx.U[i] != 2 || linx.V[i] != 0 {
			p.errorf("linear-x: pixel %d has (u,v)=(%g,%g), want (2,0)", i, linx.U[i], linx.V[i])
			break
		}
	}

	// Rotor speed is 2 everywhere off-center.
	rotor, _ := domain.IdealMotion(domain.MotionRotor, rows, cols)
	for i := range rotor.U {
		speed := math.Hypot(rotor.U[i], rotor.V[i])
		if speed != 0 && math.Abs(speed-2) > 1e-9 {
			p.errorf("rotor: pixel %d has speed %g, want 2", i, speed)
			break
		}
	}

	return p
}

// validateSequenceGeneration checks the warp chain on each motion type:
// frame count, mask surfacing, and the zero-fill materialization.
func validateSequenceGeneration(rows, cols, seqLen int) *phase {
	p := &phase{name: "observation sequence generation"}
	warper := advect.New()
	ref := domain.ReferenceField(rows, cols)

	for _, mt := range domain.MotionTypes() {
		motion, err := domain.IdealMotion(mt, rows, cols)
		if err != nil {
			p.errorf("%s: %v", mt, err)
			continue
		}
		seq, err := domain.GenerateSequence(ref, motion, seqLen, warper, domain.GenerateOptions{})
		if err != nil {
			p.errorf("%s: %v", mt, err)
			continue
		}
		if len(seq) != seqLen {
			p.errorf("%s: got %d frames, want %d", mt, len(seq), seqLen)
		}
		for k, f := range seq {
			for i, v := range f.Values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					p.errorf("%s: frame %d pixel %d is non-finite after materialization", mt, k, i)
				}
				if !f.Mask[i] && v != 0 {
					p.errorf("%s: frame %d pixel %d invalid but not zero-filled", mt, k, i)
				}
			}
		}
	}

	return p
}

// validateConvergence runs one full scenario and asserts the estimator's
// relative RMSE stays inside the tolerance.
func validateConvergence(registry *flow.Registry, mt domain.MotionType, method flow.Method, rows, cols, seqLen int, tolerance float64) *phase {
	p := &phase{name: fmt.Sprintf("convergence %s/%s", mt, method)}

	est, err := registry.Get(method)
	if err != nil {
		p.errorf("resolve estimator: %v", err)
		return p
	}
	n := max(seqLen, est.MinFrames())

	ideal, err := domain.IdealMotion(mt, rows, cols)
	if err != nil {
		p.errorf("ideal motion: %v", err)
		return p
	}
	seq, err := domain.GenerateSequence(domain.ReferenceField(rows, cols), ideal, n, advect.New(), domain.GenerateOptions{})
	if err != nil {
		p.errorf("generate sequence: %v", err)
		return p
	}

	computed, err := est.Estimate(context.Background(), seq)
	if err != nil {
		p.errorf("estimate: %v", err)
		return p
	}

	mask := domain.PrecipitationMask(seq, domain.ScoreOptions{})
	score, err := domain.RelativeRMSE(ideal, computed, mask)
	if err != nil {
		p.errorf("score: %v", err)
		return p
	}

	// The gradient-based estimator is not expected to track the rotor's
	// spatially varying flow as tightly as uniform translation; it is held
	// to a relaxed bound.
	bound := tolerance
	if method == flow.MethodLucasKanade && mt == domain.MotionRotor {
		bound = 100
	}
	if score > bound {
		p.errorf("relative RMSE %.2f%% exceeds %.2f%%", score, bound)
	}

	return p
}
