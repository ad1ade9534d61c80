// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shutdown tears down the filesystem tree before the system halts.
package shutdown

import (
	"errors"
	"fmt"

	"github.com/aibor/starinit/internal/fsctx"
)

var (
	// ErrUnmount is the step error if not all filesystems could be
	// unmounted.
	ErrUnmount = errors.New("unmount all filesystems")

	// ErrFlush is the step error if the root filesystem could not be
	// flushed.
	ErrFlush = errors.New("flush root filesystem")
)

// Error is returned if a shutdown step failed. Both steps are fatal.
type Error struct {
	// Step is either [ErrUnmount] or [ErrFlush].
	Step error
	Err  error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("failed to %v: %v", e.Step, e.Err)
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() []error {
	return []error{e.Step, e.Err}
}

// Run unmounts all filesystems beneath the root directory and flushes the root
// filesystem afterwards, while holding the lock of the given [fsctx.Context].
//
// Flush is only attempted if all filesystems have been unmounted.
func Run(fs *fsctx.Context) error {
	return fs.With(func(root fsctx.Dir) error {
		if err := root.UnmountAll(); err != nil {
			return &Error{Step: ErrUnmount, Err: err}
		}

		if err := root.Filesystem().Flush(); err != nil {
			return &Error{Step: ErrFlush, Err: err}
		}

		return nil
	})
}
