// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Func is a single setup step run by [Initializer.Init].
type Func func() error

// Initializer runs the system setup steps. It must be run once before any
// process is started.
type Initializer struct {
	// Log receives messages about tolerated failures. May be nil.
	Log *zap.Logger

	// Funcs are the setup steps, run in the given order.
	Funcs []Func
}

// Init runs all [Func]s in order and stops at the first error.
//
// A [Func] returning an [OptionalMountError] does not stop the setup. Its
// errors are logged instead. Panics are recovered and returned as [ErrPanic].
func (i Initializer) Init() (err error) {
	log := i.Log
	if log == nil {
		log = zap.NewNop()
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("%w: %w", ErrPanic, recoveredErr)
		} else {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	for _, fn := range i.Funcs {
		err := fn()

		var optionalErrs OptionalMountError
		if errors.As(err, &optionalErrs) {
			for _, err := range optionalErrs {
				log.Info("optional mount failed", zap.Error(err))
			}

			continue
		}

		if err != nil {
			return err
		}
	}

	return nil
}
