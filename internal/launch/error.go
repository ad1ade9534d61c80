// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"errors"
	"fmt"
)

var (
	// ErrLaunch is matched by every [Error].
	ErrLaunch = errors.New("launch failed")

	// ErrEmptyCommand is returned if the command line has no elements.
	ErrEmptyCommand = errors.New("empty command line")

	// ErrNotFound is returned if the executable can not be found in any of
	// the directories of the search path.
	ErrNotFound = errors.New("executable not found")

	// ErrNotExecutable is returned if the executable path is not an
	// executable regular file.
	ErrNotExecutable = errors.New("not an executable file")

	// ErrNotReaped is returned if all children are gone, but the init
	// process has never been reaped.
	ErrNotReaped = errors.New("init process not reaped")
)

// Error is returned if the init process could not be created. It is distinct
// from the process running and returning a non-zero exit code.
type Error struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() []error {
	return []error{ErrLaunch, e.Err}
}
