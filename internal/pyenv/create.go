// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"pyboot/internal/execrun"
	"pyboot/internal/issue"
)

// Create builds the environment with the host interpreter's venv module
// (`python -m venv <root>`). Creation failure is fatal to the caller; the
// environment is also considered failed when the child exits non-zero.
//
// A cross-process lock serializes concurrent creations of the same
// environment, so two simultaneous bootstrapper runs cannot race on a
// half-built directory.
func Create(ctx context.Context, env Env, hostPython string, stdout, stderr io.Writer) error {
	lock, err := acquireCreateLock(env.Root)
	if err == nil {
		defer lock.Release()
	}
	// A lock acquisition failure is not fatal: on platforms without flock
	// support creation proceeds unguarded, as the original launcher did.

	// Re-check under the lock: another process may have finished creation
	// while this one was waiting.
	if env.Exists() {
		return nil
	}

	runner := execrun.NewProcessRunner()
	execCtx := execrun.NewExecutionContext("")
	execCtx.Context = ctx
	execCtx.Argv = []string{hostPython, "-m", "venv", env.Root}
	execCtx.Stdout = stdout
	execCtx.Stderr = stderr

	result := runner.Execute(execCtx)
	if result.Failed() {
		cause := result.Error
		if cause == nil {
			cause = fmt.Errorf("%s -m venv exited with code %d", hostPython, result.ExitCode)
		}
		return issue.NewErrorContext().
			WithOperation("create virtual environment").
			WithResource(env.Root).
			WithSuggestion("Check that the venv module is available (python3-venv on Debian/Ubuntu)").
			WithSuggestion("Check write permissions on the project directory").
			Wrap(cause).
			BuildError()
	}

	return nil
}

// InterpreterVersion reports the version string of the environment's
// interpreter, e.g. "Python 3.12.4". Used for state recording and `env info`.
func InterpreterVersion(ctx context.Context, env Env) (string, error) {
	runner := execrun.NewProcessRunner()
	execCtx := execrun.NewExecutionContext("")
	execCtx.Context = ctx
	execCtx.Argv = []string{env.Interpreter(), "--version"}

	result := runner.ExecuteCapture(execCtx)
	if result.Failed() {
		if result.Error != nil {
			return "", result.Error
		}
		return "", fmt.Errorf("%s --version exited with code %d", env.Interpreter(), result.ExitCode)
	}

	// Python 2 printed the version to stderr; tolerate both streams.
	version := strings.TrimSpace(result.Output)
	if version == "" {
		version = strings.TrimSpace(result.ErrOutput)
	}
	return version, nil
}
