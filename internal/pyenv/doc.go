// SPDX-License-Identifier: MPL-2.0

// Package pyenv models the isolated Python environment the bootstrapper manages.
//
// An Env is identified by its root directory (usually <project>/.venv). The
// presence of the interpreter binary inside it is the sole existence check; no
// version or integrity verification is performed, matching the lazy
// create-once, reuse-forever lifecycle. The package also locates a host
// interpreter for creating environments, records bootstrap state in a TOML
// file inside the environment, and guards concurrent creations with a
// cross-process file lock on Linux.
package pyenv
