// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"fmt"
)

// Policy declares what a step failure means to the pipeline.
type Policy int

const (
	// PolicyFatal stops the pipeline; the bootstrapper exits non-zero.
	PolicyFatal Policy = iota
	// PolicyLenient logs a warning and continues to the next step.
	PolicyLenient
)

// String returns the policy name for logs and step reports.
func (p Policy) String() string {
	switch p {
	case PolicyFatal:
		return "fatal"
	case PolicyLenient:
		return "lenient"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

type (
	// Step is one named phase of the bootstrap sequence.
	Step struct {
		// Name identifies the step in logs and reports.
		Name string
		// Policy declares how a failure of this step is treated.
		Policy Policy
		// Run performs the step. A nil Run is a configuration error.
		Run func(ctx context.Context) error
	}

	// StepResult records the outcome of one executed step.
	StepResult struct {
		Name   string
		Policy Policy
		// Err is the step's failure, nil on success. Lenient steps keep
		// their Err here even though the pipeline continued.
		Err error
	}

	// Report collects the outcomes of a pipeline run.
	Report struct {
		Steps []StepResult
	}
)

// Failed reports whether any step failed, regardless of policy.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Warnings returns the results of lenient steps that failed.
func (r *Report) Warnings() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Err != nil && s.Policy == PolicyLenient {
			out = append(out, s)
		}
	}
	return out
}
