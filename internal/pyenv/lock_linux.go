// SPDX-License-Identifier: MPL-2.0

//go:build linux

package pyenv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// createLock holds a blocking exclusive flock on a per-environment file,
// serializing environment creation across processes. The zero-byte lock file
// is harmless if orphaned: the kernel releases the flock automatically when
// the fd is closed, including on process crash.
//
// The lock file lives in $XDG_RUNTIME_DIR (per-user tmpfs, auto-cleaned)
// with a fallback to os.TempDir() when the env var is unset.
type createLock struct {
	file *os.File
}

// acquireCreateLock opens (or creates) the lock file for the environment at
// root and acquires a blocking exclusive flock.
func acquireCreateLock(root string) (*createLock, error) {
	lockPath := lockFilePath(root)

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", lockPath, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("flock %s: %w", lockPath, err)
	}

	return &createLock{file: f}, nil
}

// Release unlocks the flock and closes the file descriptor. It is safe to
// call multiple times.
func (l *createLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}

// lockFilePath derives a stable per-environment lock path from the
// environment root, so distinct projects never contend on one lock.
func lockFilePath(root string) string {
	sum := sha256.Sum256([]byte(root))
	name := "pyboot-create-" + hex.EncodeToString(sum[:8]) + ".lock"

	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(os.TempDir(), name)
}
