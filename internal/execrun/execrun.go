// SPDX-License-Identifier: MPL-2.0

package execrun

import (
	"context"
	"io"
	"os"
)

type (
	// ExecutionContext contains all information needed to run a child process
	// or a hook script.
	ExecutionContext struct {
		// Context is the Go context for cancellation.
		Context context.Context
		// Argv is the program and its arguments (process runner).
		Argv []string
		// Script is the hook script source (script runner).
		Script string
		// WorkDir is the working directory for the child. It must be set
		// explicitly by the caller; the bootstrapper never relies on the
		// process-wide current directory.
		WorkDir string
		// Env contains extra environment variables layered over the host
		// environment.
		Env map[string]string
		// Stdin is where the child reads standard input.
		Stdin io.Reader
		// Stdout is where the child writes standard output.
		Stdout io.Writer
		// Stderr is where the child writes standard error.
		Stderr io.Writer
	}

	// Result contains the outcome of a child execution.
	Result struct {
		// ExitCode is the exit code of the child.
		ExitCode ExitCode
		// Error contains any infrastructure error (spawn failure, bad
		// context). A non-zero ExitCode from a started child is not an
		// Error.
		Error error
		// Output contains captured stdout (capture mode only).
		Output string
		// ErrOutput contains captured stderr (capture mode only).
		ErrOutput string
	}

	// Runner defines the interface for child execution.
	Runner interface {
		// Name returns the runner name.
		Name() string
		// Execute runs the child described by the context, streaming I/O.
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runner can be used on the current system.
		Available() bool
		// Validate checks whether the context can be executed by this runner.
		Validate(ctx *ExecutionContext) error
	}

	// CapturingRunner is implemented by runners that support capturing output.
	CapturingRunner interface {
		// ExecuteCapture runs the child and captures stdout/stderr into the Result.
		ExecuteCapture(ctx *ExecutionContext) *Result
	}
)

// NewExecutionContext creates an ExecutionContext with standard I/O attached
// and a background context. Callers adjust fields as needed.
func NewExecutionContext(workDir string) *ExecutionContext {
	return &ExecutionContext{
		Context: context.Background(),
		WorkDir: workDir,
		Env:     make(map[string]string),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// EnvToSlice converts an environment map to a slice of KEY=value strings.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}
