// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"pyboot/internal/issue"
)

// FindHostInterpreter locates the Python interpreter used to create
// environments. An explicit override (config or flag) wins; otherwise
// platform-conventional names are probed on PATH.
func FindHostInterpreter(override string) (string, error) {
	if override != "" {
		if filepath.IsAbs(override) {
			return override, nil
		}
		path, err := exec.LookPath(override)
		if err != nil {
			return "", issue.NewErrorContext().
				WithOperation("locate host Python interpreter").
				WithResource(override).
				WithSuggestion("Check that the configured interpreter is installed and on PATH").
				WithSuggestion("Set 'python' in pyboot.cue to an absolute path").
				Wrap(err).
				BuildError()
		}
		return path, nil
	}

	for _, candidate := range hostCandidates() {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", issue.NewErrorContext().
		WithOperation("locate host Python interpreter").
		WithSuggestion("Install Python 3 and make sure it is on PATH").
		WithSuggestion("Or set 'python' in pyboot.cue to the interpreter path").
		Wrap(fmt.Errorf("no python interpreter found")).
		BuildError()
}

// hostCandidates returns the interpreter names to probe, in order.
func hostCandidates() []string {
	if runtime.GOOS == "windows" {
		// The py launcher is the canonical entry on Windows
		return []string{"py", "python", "python3"}
	}
	return []string{"python3", "python"}
}
