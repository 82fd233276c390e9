// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"os"
	"path/filepath"
	"runtime"
)

// Env represents an isolated Python environment rooted at a directory.
type Env struct {
	// Root is the absolute path of the environment directory.
	Root string
}

// New resolves an environment rooted at dir. Relative dirs are resolved
// against projectDir, never against the caller's working directory.
func New(projectDir, dir string) Env {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectDir, dir)
	}
	return Env{Root: dir}
}

// BinDir returns the directory holding the environment's executables.
// The venv module uses Scripts on Windows and bin everywhere else.
func (e Env) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Root, "Scripts")
	}
	return filepath.Join(e.Root, "bin")
}

// Interpreter returns the path of the environment's Python interpreter.
func (e Env) Interpreter() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.BinDir(), "python.exe")
	}
	return filepath.Join(e.BinDir(), "python")
}

// Pip returns the path of the environment's package installer.
func (e Env) Pip() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.BinDir(), "pip.exe")
	}
	return filepath.Join(e.BinDir(), "pip")
}

// Exists reports whether the environment is usable. The interpreter binary's
// presence is the sole check.
func (e Env) Exists() bool {
	info, err := os.Stat(e.Interpreter())
	return err == nil && !info.IsDir()
}

// Remove deletes the environment directory and everything under it.
func (e Env) Remove() error {
	return os.RemoveAll(e.Root)
}
