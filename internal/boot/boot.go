// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package boot runs the fixed boot-to-shutdown sequence of the init.
package boot

import (
	"errors"
	"fmt"

	"github.com/aibor/starinit/internal/cmdline"
	"github.com/aibor/starinit/internal/exitcode"
	"github.com/aibor/starinit/internal/fsctx"
	"github.com/aibor/starinit/internal/launch"
	"github.com/aibor/starinit/internal/shutdown"
	"go.uber.org/zap"
)

// ErrAPINotReady is returned if the system APIs could not be initialized.
var ErrAPINotReady = errors.New("system API not ready")

// API prepares the system APIs the init process depends on.
type API interface {
	Init() error
}

// Boot holds everything needed for a single boot sequence.
type Boot struct {
	API      API
	Launcher launch.Launcher
	FS       *fsctx.Context
	Log      *zap.Logger
	Command  cmdline.Spec
}

// Run initializes the system APIs, runs the init process once and shuts down
// the filesystems afterwards.
//
// A failing launch is logged and does not stop the sequence. The returned
// exit code is the one of the init process or -1 if it could not be
// launched. Errors from the API initialization and the shutdown are returned.
func (b *Boot) Run() (int, error) {
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("boot sequence started")

	if err := b.API.Init(); err != nil {
		return exitcode.Launch, fmt.Errorf("%w: %w", ErrAPINotReady, err)
	}

	argv, envp := cmdline.Build(b.Command)

	exitCode, err := b.Launcher.Launch(argv, envp)
	if err != nil {
		log.Error("init process failed", zap.Error(err))

		exitCode = exitcode.Launch
	} else {
		log.Info("init process finished", zap.Int("exit_code", exitCode))
	}

	if err := shutdown.Run(b.FS); err != nil {
		return exitCode, err //nolint:wrapcheck
	}

	return exitCode, nil
}
