// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bootstrap sets up the runtime of the init before any system API is
// used: platform preconditions, logging and the filesystem context.
package bootstrap

import (
	"fmt"
	"io"

	"github.com/aibor/starinit/internal/exitcode"
	"github.com/aibor/starinit/internal/fsctx"
	"github.com/aibor/starinit/internal/platform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerName is the name of the root logger.
const LoggerName = "starinit"

// Runtime is the result of a successful [Bootstrap].
type Runtime struct {
	Platform platform.Platform
	Log      *zap.Logger
	FS       *fsctx.Context
}

// Bootstrap prepares the given platform and creates the logger and the
// filesystem context for it.
//
// Fatal log messages abort the platform with [exitcode.Fatal].
func Bootstrap(p platform.Platform, level zapcore.Level) (*Runtime, error) {
	if err := p.Prepare(); err != nil {
		return nil, fmt.Errorf("prepare platform %s: %w", p.Name(), err)
	}

	log := NewLogger(p.Console().Stderr, level, abortHook{p}).
		With(zap.String("platform", p.Name()))

	return &Runtime{
		Platform: p,
		Log:      log,
		FS:       fsctx.New(fsctx.NewHostDir(p.Root())),
	}, nil
}

// NewLogger returns a console logger writing to w. The fatal hook is called
// after a fatal message is written.
func NewLogger(w io.Writer, level zapcore.Level, fatalHook zapcore.CheckWriteHook) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)

	return zap.New(core, zap.WithFatalHook(fatalHook)).Named(LoggerName)
}

type abortHook struct {
	platform platform.Platform
}

// OnWrite implements [zapcore.CheckWriteHook].
func (h abortHook) OnWrite(_ *zapcore.CheckedEntry, _ []zapcore.Field) {
	h.platform.Abort(exitcode.Fatal)
}
