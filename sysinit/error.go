// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"strings"
)

var (
	// ErrNotPidOne is returned if the running process must be PID 1 but is
	// not.
	ErrNotPidOne = errors.New("process does not have ID 1")

	// ErrPanic is returned by [Initializer.Init] if a [Func] panicked.
	ErrPanic = errors.New("setup function panicked")
)

// OptionalMountError collects the errors of mount points that are allowed to
// fail. [Initializer.Init] logs them instead of stopping.
type OptionalMountError []error

// Error implements the [error] interface.
func (e OptionalMountError) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}

	return "optional mount errors: " + strings.Join(msgs, "; ")
}

// Is implements the [errors.Is] interface. It matches any
// [OptionalMountError].
func (OptionalMountError) Is(other error) bool {
	_, ok := other.(OptionalMountError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e OptionalMountError) Unwrap() []error {
	return e
}
