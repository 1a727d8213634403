// Package saga runs multi-step writes against stores that offer no multi-record
// transactions. Every step runs even when an earlier one fails; the caller gets a
// per-step report instead of an all-or-nothing error.
package saga

import (
	"context"
	"log/slog"
)

// Step is one idempotent write. Running a step twice must leave the store in the
// same state as running it once.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepResult records the outcome of one step.
type StepResult struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Report aggregates the outcome of a saga run.
type Report struct {
	Name      string       `json:"name"`
	Steps     []StepResult `json:"steps"`
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`

	steps []Step
}

// OK reports whether every step succeeded.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// FailedSteps returns the names of the steps that failed.
func (r *Report) FailedSteps() []string {
	var names []string
	for _, res := range r.Steps {
		if !res.OK {
			names = append(names, res.Step)
		}
	}
	return names
}

// Saga is an ordered list of steps.
type Saga struct {
	name   string
	steps  []Step
	logger *slog.Logger
}

// New creates an empty saga.
func New(name string, logger *slog.Logger) *Saga {
	return &Saga{name: name, logger: logger}
}

// Add appends a step.
func (s *Saga) Add(name string, run func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Run: run})
	return s
}

// Len returns the number of steps.
func (s *Saga) Len() int {
	return len(s.steps)
}

// Run executes every step in order. Cancellation is not honoured between steps:
// once started, the sequence runs to completion and reports what failed.
func (s *Saga) Run(ctx context.Context) *Report {
	return run(ctx, s.name, s.steps, s.logger)
}

// Retry re-runs only the steps that failed in a previous report.
func (r *Report) Retry(ctx context.Context, logger *slog.Logger) *Report {
	failed := make(map[string]bool, r.Failed)
	for _, res := range r.Steps {
		if !res.OK {
			failed[res.Step] = true
		}
	}
	var steps []Step
	for _, step := range r.steps {
		if failed[step.Name] {
			steps = append(steps, step)
		}
	}
	return run(ctx, r.Name, steps, logger)
}

func run(ctx context.Context, name string, steps []Step, logger *slog.Logger) *Report {
	report := &Report{Name: name, Steps: make([]StepResult, 0, len(steps)), steps: steps}
	stepCtx := context.WithoutCancel(ctx)

	for _, step := range steps {
		report.Attempted++
		if err := step.Run(stepCtx); err != nil {
			report.Failed++
			report.Steps = append(report.Steps, StepResult{Step: step.Name, OK: false, Error: err.Error()})
			if logger != nil {
				logger.Error("saga step failed", "saga", name, "step", step.Name, "error", err)
			}
			continue
		}
		report.Succeeded++
		report.Steps = append(report.Steps, StepResult{Step: step.Name, OK: true})
	}

	return report
}
