// SPDX-License-Identifier: MPL-2.0

package execrun

import (
	"errors"
	"fmt"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the valid range (0-255).
func (c ExitCode) IsValid() bool {
	return c >= 0 && c <= 255
}

// Success returns true for a zero exit code.
func (c ExitCode) Success() bool { return c == 0 }

// Int returns the code as a plain int for interop with os.Exit.
func (c ExitCode) Int() int { return int(c) }
