// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"pyboot/internal/issue"
)

func TestFindHostInterpreter_AbsoluteOverride(t *testing.T) {
	// Absolute overrides are trusted as-is; existence is checked at exec time
	abs := filepath.Join(t.TempDir(), "python3")
	got, err := FindHostInterpreter(abs)
	if err != nil {
		t.Fatalf("FindHostInterpreter() error = %v", err)
	}
	if got != abs {
		t.Errorf("FindHostInterpreter() = %q, want %q", got, abs)
	}
}

func TestFindHostInterpreter_OverrideOnPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing uses POSIX conventions")
	}

	dir := t.TempDir()
	stub := filepath.Join(dir, "mypython")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", dir)

	got, err := FindHostInterpreter("mypython")
	if err != nil {
		t.Fatalf("FindHostInterpreter() error = %v", err)
	}
	if got != stub {
		t.Errorf("FindHostInterpreter() = %q, want %q", got, stub)
	}
}

func TestFindHostInterpreter_OverrideMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := FindHostInterpreter("no-such-python")
	if err == nil {
		t.Fatal("FindHostInterpreter() should fail for a missing override")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Errorf("error should be actionable, got %T", err)
	}
}

func TestFindHostInterpreter_ProbesCandidates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing uses POSIX conventions")
	}

	dir := t.TempDir()
	stub := filepath.Join(dir, "python3")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", dir)

	got, err := FindHostInterpreter("")
	if err != nil {
		t.Fatalf("FindHostInterpreter() error = %v", err)
	}
	if got != stub {
		t.Errorf("FindHostInterpreter() = %q, want %q", got, stub)
	}
}

func TestFindHostInterpreter_NoneFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := FindHostInterpreter(""); err == nil {
		t.Error("FindHostInterpreter() should fail when no interpreter is on PATH")
	}
}
