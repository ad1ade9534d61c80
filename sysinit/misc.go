// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import "fmt"

// Poweroff shuts down the system.
//
// It does not return, unless in case of error.
func Poweroff() error {
	// Use restart instead of poweroff for shutting down the system since it
	// does not require ACPI. The guest system should be started with noreboot.
	if err := reboot(); err != nil {
		return fmt.Errorf("poweroff failed: %w", err)
	}

	return nil
}

// IsPidOne returns true if the running process has PID 1.
func IsPidOne() bool {
	return getpid() == 1
}

// SetChildSubreaper marks the running process as child subreaper. Orphaned
// descendants are re-parented to it instead of PID 1.
//
// It is a no-op for PID 1.
func SetChildSubreaper() error {
	if IsPidOne() {
		return nil
	}

	return setChildSubreaper()
}

// WithChildSubreaper returns a setup [Func] that wraps [SetChildSubreaper].
func WithChildSubreaper() Func {
	return SetChildSubreaper
}
