// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "create virtual environment"},
			want: "failed to create virtual environment",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "read requirements manifest",
				Resource:  "requirements.txt",
			},
			want: "failed to read requirements manifest: requirements.txt",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Operation: "create virtual environment",
				Resource:  ".venv",
				Cause:     errors.New("python3: executable file not found"),
			},
			want: "failed to create virtual environment: .venv: python3: executable file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := WrapWithOperation(sentinel, "launch application")

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	cause := fmt.Errorf("run pip: %w", errors.New("exit status 2"))
	err := NewErrorContext().
		WithOperation("install dependencies").
		WithResource("requirements.txt").
		WithSuggestion("Check the manifest for syntax errors").
		WithSuggestion("Run 'pyboot deps install' to retry").
		Wrap(cause).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "failed to install dependencies") {
		t.Errorf("Format(false) missing operation: %q", short)
	}
	if !strings.Contains(short, "• Check the manifest for syntax errors") {
		t.Errorf("Format(false) missing suggestion: %q", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain: %q", short)
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") {
		t.Errorf("Format(true) missing error chain: %q", long)
	}
	if !strings.Contains(long, "2. exit status 2") {
		t.Errorf("Format(true) should unwrap the full chain: %q", long)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	if err := NewErrorContext().WithResource("app.py").BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestWrapWithContext_NilError(t *testing.T) {
	if got := WrapWithContext(nil, "launch application", "app.py"); got != nil {
		t.Errorf("WrapWithContext(nil, ...) = %v, want nil", got)
	}
}
