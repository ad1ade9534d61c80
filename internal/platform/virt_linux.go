// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux && !hosted

package platform

import (
	"os"

	"github.com/aibor/starinit/sysinit"
)

// Virt runs as PID 1 of a virtual machine on the real root directory.
type Virt struct{}

var _ Platform = Virt{}

// Default returns the backend linked into the binary.
func Default() Platform {
	return Virt{}
}

// Name implements [Platform].
func (Virt) Name() string {
	return "virt"
}

// Root implements [Platform].
func (Virt) Root() string {
	return "/"
}

// Console implements [Platform].
func (Virt) Console() Console {
	return stdConsole()
}

// MountPoints implements [Platform].
func (Virt) MountPoints() sysinit.MountPoints {
	return sysinit.SystemMountPoints()
}

// Symlinks implements [Platform].
func (Virt) Symlinks() sysinit.Symlinks {
	return sysinit.DevSymlinks()
}

// Prepare implements [Platform]. It fails if the process is not PID 1.
func (Virt) Prepare() error {
	if !sysinit.IsPidOne() {
		return sysinit.ErrNotPidOne
	}

	return nil
}

// Halt implements [Platform]. The machine is reset, which stops the guest
// if it runs with reboot disabled.
func (Virt) Halt() error {
	return sysinit.Poweroff() //nolint:wrapcheck
}

// Abort implements [Platform]. Terminating PID 1 makes the kernel panic,
// which stops the guest.
func (Virt) Abort(code int) {
	os.Exit(code)
}
