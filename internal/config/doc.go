// SPDX-License-Identifier: MPL-2.0

// Package config handles bootstrapper configuration using Viper with CUE as the
// file format.
//
// Project settings live in pyboot.cue next to the application (entry point,
// requirements manifest, venv directory, hooks, launch environment). User-wide
// defaults live in config.cue under the platform config directory
// (~/.config/pyboot on Linux/XDG, ~/Library/Application Support/pyboot on
// macOS, %APPDATA%\pyboot on Windows). The global file is merged first, then
// the project file overrides it.
//
// Both files are validated against a CUE schema (config_schema.cue) to provide
// clear error messages for invalid configurations.
package config
