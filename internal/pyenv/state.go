// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// stateFileName is the bootstrap state file kept inside the environment root.
const stateFileName = "pyboot-state.toml"

// State records what the bootstrapper last did to an environment. It is
// advisory metadata: the interpreter binary remains the sole existence check.
type State struct {
	// CreatedAt is when the environment was first created by pyboot.
	CreatedAt time.Time `toml:"created_at"`
	// PythonVersion is the interpreter version reported at creation time.
	PythonVersion string `toml:"python_version"`
	// RequirementsHash is the SHA-256 of the requirements manifest at the
	// last successful install, hex-encoded. Empty until the first install.
	RequirementsHash string `toml:"requirements_hash,omitempty"`
	// InstalledAt is when dependencies were last installed successfully.
	InstalledAt time.Time `toml:"installed_at,omitempty"`
}

// StatePath returns the path of the environment's state file.
func (e Env) StatePath() string {
	return filepath.Join(e.Root, stateFileName)
}

// LoadState reads the environment's state file. A missing file yields a zero
// State and no error: environments created by the original launcher, or by
// hand, have no state.
func (e Env) LoadState() (State, error) {
	var st State

	data, err := os.ReadFile(e.StatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state file: %w", err)
	}

	if err := toml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse state file %s: %w", e.StatePath(), err)
	}
	return st, nil
}

// SaveState writes the environment's state file.
func (e Env) SaveState(st State) error {
	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := os.WriteFile(e.StatePath(), data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// HashRequirements computes the hex-encoded SHA-256 of the requirements
// manifest, used to detect unchanged manifests between runs.
func HashRequirements(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read requirements manifest: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
