// SPDX-License-Identifier: MPL-2.0

package execrun

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ProcessRunner executes an argv vector directly via os/exec, without any
// intervening shell. This is how the bootstrapper invokes the host Python,
// the venv's pip, and the application entry point.
type ProcessRunner struct{}

// NewProcessRunner creates a new process runner.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

// Name returns the runner name.
func (r *ProcessRunner) Name() string {
	return "process"
}

// Available returns whether this runner is available.
func (r *ProcessRunner) Available() bool {
	// Direct process execution is always available.
	return true
}

// Validate checks if the context can be executed.
func (r *ProcessRunner) Validate(ctx *ExecutionContext) error {
	if len(ctx.Argv) == 0 {
		return fmt.Errorf("no program to execute")
	}
	if ctx.Argv[0] == "" {
		return fmt.Errorf("empty program path")
	}
	return nil
}

// Execute runs the argv vector, streaming I/O to the context's streams.
// A non-zero exit from a started child is reported via ExitCode, not Error.
func (r *ProcessRunner) Execute(ctx *ExecutionContext) *Result {
	if err := r.Validate(ctx); err != nil {
		return NewErrorResult(1, err)
	}

	cmd := r.buildCmd(ctx)
	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr
	cmd.Stdin = ctx.Stdin

	if err := cmd.Run(); err != nil {
		return extractExitCode(err, nil)
	}
	return NewSuccessResult()
}

// ExecuteCapture runs the argv vector and captures stdout/stderr into the Result.
func (r *ProcessRunner) ExecuteCapture(ctx *ExecutionContext) *Result {
	if err := r.Validate(ctx); err != nil {
		return NewErrorResult(1, err)
	}

	cmd := r.buildCmd(ctx)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = ctx.Stdin

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}
	if err != nil {
		captured := extractExitCode(err, nil)
		result.ExitCode = captured.ExitCode
		result.Error = captured.Error
	}
	return result
}

// buildCmd assembles the exec.Cmd with working directory and environment.
func (r *ProcessRunner) buildCmd(ctx *ExecutionContext) *exec.Cmd {
	goCtx := ctx.Context
	if goCtx == nil {
		goCtx = context.Background()
	}

	cmd := exec.CommandContext(goCtx, ctx.Argv[0], ctx.Argv[1:]...)
	if ctx.WorkDir != "" {
		cmd.Dir = ctx.WorkDir
	}
	cmd.Env = append(os.Environ(), EnvToSlice(ctx.Env)...)
	return cmd
}

// extractExitCode determines the exit code from a command execution error.
// *exec.ExitError means the child started and exited non-zero; anything else
// is an infrastructure failure (program missing, permission denied).
func extractExitCode(err error, wrap func(error) error) *Result {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
	}
	if wrap != nil {
		err = wrap(err)
	} else {
		err = fmt.Errorf("failed to execute command: %w", err)
	}
	return NewErrorResult(1, err)
}
