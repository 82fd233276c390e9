// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Pipeline runs a sequence of steps in order, honoring each step's policy.
type Pipeline struct {
	steps  []Step
	logger *log.Logger
}

// NewPipeline creates a pipeline over the given steps. A nil logger gets the
// package default.
func NewPipeline(logger *log.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Run executes the steps sequentially. A fatal step's failure stops the run
// and is returned; lenient failures are logged and recorded in the report.
// The report covers every step that ran, including the failing one.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("bootstrap canceled before step %q: %w", step.Name, ctx.Err())
		default:
		}

		if step.Run == nil {
			return report, fmt.Errorf("step %q has no run function", step.Name)
		}

		p.logger.Debug("running step", "step", step.Name, "policy", step.Policy.String())
		err := step.Run(ctx)
		report.Steps = append(report.Steps, StepResult{Name: step.Name, Policy: step.Policy, Err: err})

		if err == nil {
			continue
		}

		switch step.Policy {
		case PolicyLenient:
			p.logger.Warn("step failed, continuing", "step", step.Name, "err", err)
		case PolicyFatal:
			p.logger.Error("step failed", "step", step.Name, "err", err)
			return report, fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	return report, nil
}
