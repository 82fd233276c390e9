// SPDX-License-Identifier: MPL-2.0

// Package execrun provides the child-process execution layer for the bootstrapper.
//
// Two runners are available:
//   - process: runs an argv vector directly via os/exec (venv creation, pip, app launch)
//   - script: runs a hook snippet in an embedded shell interpreter (mvdan/sh)
//
// Both implement the Runner interface with Name(), Execute(), Available(), and
// Validate(). ExecutionContext carries everything a run needs: cancellation
// context, argv or script source, working directory, extra environment, and
// I/O streams. Execution never mutates process-wide state: the working directory
// is set per child process, so every step sees a consistent base path without a
// global chdir.
package execrun
