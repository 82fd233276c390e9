// SPDX-License-Identifier: MPL-2.0

package execrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ScriptRunner executes hook snippets using the embedded mvdan/sh interpreter.
// Hooks run identically on every platform, without depending on a host shell.
type ScriptRunner struct{}

// NewScriptRunner creates a new script runner.
func NewScriptRunner() *ScriptRunner {
	return &ScriptRunner{}
}

// Name returns the runner name.
func (r *ScriptRunner) Name() string {
	return "script"
}

// Available returns whether this runner is available.
func (r *ScriptRunner) Available() bool {
	// The interpreter is built in.
	return true
}

// Validate checks that the script is present and syntactically valid.
func (r *ScriptRunner) Validate(ctx *ExecutionContext) error {
	if ctx.Script == "" {
		return fmt.Errorf("script has no content to execute")
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Execute runs the script, streaming I/O to the context's streams.
func (r *ScriptRunner) Execute(ctx *ExecutionContext) *Result {
	return r.run(ctx, ctx.Stdout, ctx.Stderr)
}

// ExecuteCapture runs the script and captures stdout/stderr into the Result.
func (r *ScriptRunner) ExecuteCapture(ctx *ExecutionContext) *Result {
	var stdout, stderr bytes.Buffer
	result := r.run(ctx, &stdout, &stderr)
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	return result
}

func (r *ScriptRunner) run(ctx *ExecutionContext, stdout, stderr io.Writer) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(ctx.Script), "script")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse script: %w", err))
	}

	env := append(os.Environ(), EnvToSlice(ctx.Env)...)

	opts := []interp.RunnerOption{
		interp.Dir(ctx.WorkDir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(ctx.Stdin, stdout, stderr),
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	execCtx := ctx.Context
	if execCtx == nil {
		execCtx = context.Background()
	}

	if err := runner.Run(execCtx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("script execution failed: %w", err))
	}
	return NewSuccessResult()
}
