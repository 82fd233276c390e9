// SPDX-License-Identifier: MPL-2.0

// Package cli contains all CLI commands for pyboot.
//
// The command surface is intentionally small: `run` performs the full
// bootstrap-and-launch sequence, while `env`, `deps`, and `config` expose the
// individual phases for inspection and repair. All commands resolve paths
// against the project directory (--project-dir, or the directory containing
// the pyboot executable), never against the caller's working directory.
package cli
