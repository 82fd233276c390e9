// SPDX-License-Identifier: MPL-2.0

// Package bootstrap implements the environment-bootstrap sequence as an
// explicit step pipeline.
//
// The original launcher was a linear script: create the venv if absent,
// upgrade pip, install the requirements manifest, run the application. Here
// each phase is a named Step with a declared error policy — fatal steps stop
// the pipeline with a non-zero exit, lenient steps log a warning and
// continue. The stock policy reproduces the script faithfully: environment
// creation is the only fatal step, installer failures are warnings, and the
// application's exit code does not become the bootstrapper's. Strict mode
// promotes installer failures to fatal.
package bootstrap
