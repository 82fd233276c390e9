// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package pyenv

import "errors"

// errFlockUnavailable is returned on platforms without flock support.
var errFlockUnavailable = errors.New("flock not available on this platform")

// createLock is the non-Linux stub. Release is a no-op.
type createLock struct{}

// acquireCreateLock is a no-op on non-Linux platforms; creation proceeds
// unguarded there, as the original launcher did everywhere.
func acquireCreateLock(string) (*createLock, error) {
	return nil, errFlockUnavailable
}

// Release is a no-op on non-Linux platforms.
func (l *createLock) Release() {}
