// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"pyboot/internal/execrun"
	"pyboot/internal/issue"
)

// ---------------------------------------------------------------------------
// ExitError tests
// ---------------------------------------------------------------------------

func TestExitErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExitError
		expected string
	}{
		{
			name:     "bare code",
			err:      &ExitError{Code: 7},
			expected: "exit status 7",
		},
		{
			name:     "wrapped cause",
			err:      &ExitError{Code: 1, Err: errors.New("boom")},
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExitErrorUnwrapsThroughChain(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := fmt.Errorf("outer: %w", &ExitError{Code: 3, Err: cause})

	var exitErr *ExitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("errors.As should find ExitError in chain")
	}
	if exitErr.Code != execrun.ExitCode(3) {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should reach the underlying cause")
	}
}

// ---------------------------------------------------------------------------
// Project directory resolution tests
// ---------------------------------------------------------------------------

func TestResolveProjectDirUsesFlag(t *testing.T) {
	dir := t.TempDir()
	projectDir = dir
	defer func() { projectDir = "" }()

	got, err := resolveProjectDir()
	if err != nil {
		t.Fatalf("resolveProjectDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("resolveProjectDir() = %q, want %q", got, dir)
	}
}

func TestResolveProjectDirFlagIsAbsolutized(t *testing.T) {
	projectDir = "relative/path"
	defer func() { projectDir = "" }()

	got, err := resolveProjectDir()
	if err != nil {
		t.Fatalf("resolveProjectDir() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("resolveProjectDir() = %q, want an absolute path", got)
	}
}

func TestResolveProjectDirDefaultsToExecutableDir(t *testing.T) {
	projectDir = ""

	got, err := resolveProjectDir()
	if err != nil {
		t.Fatalf("resolveProjectDir() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("resolveProjectDir() = %q, want an absolute path", got)
	}
}

// ---------------------------------------------------------------------------
// Error display tests
// ---------------------------------------------------------------------------

func TestFormatErrorForDisplayPlainError(t *testing.T) {
	err := errors.New("plain failure")
	if got := formatErrorForDisplay(err, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay() = %q, want %q", got, "plain failure")
	}
}

func TestFormatErrorForDisplayActionableError(t *testing.T) {
	err := issue.NewErrorContext().
		WithOperation("create environment").
		WithSuggestion("install python3").
		Wrap(errors.New("executable not found")).
		BuildError()

	got := formatErrorForDisplay(err, false)
	if got == "" {
		t.Fatal("formatErrorForDisplay() returned empty string")
	}
	if got == err.Error() {
		t.Error("ActionableError should render via Format, not plain Error()")
	}
}

// ---------------------------------------------------------------------------
// Command tree tests
// ---------------------------------------------------------------------------

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	expected := []string{"run", "env", "deps", "config", "completion"}

	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestEnvCommandSubcommands(t *testing.T) {
	envCmd := newEnvCommand()
	expected := []string{"create", "recreate", "info"}

	for _, name := range expected {
		found := false
		for _, sub := range envCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("env command is missing subcommand %q", name)
		}
	}
}

func TestVersionString(t *testing.T) {
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q, want dev default", got)
	}
}
