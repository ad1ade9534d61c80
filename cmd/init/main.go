// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command init is the PID 1 program of a single-workload guest.
//
// It mounts the pseudo filesystems, runs the embedded init.sh with /bin/sh,
// waits for it and all processes it spawned, unmounts all filesystems,
// flushes the root filesystem and halts the system. The exit code of the
// workload is printed to stdout before halting.
package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/aibor/starinit/internal/boot"
	"github.com/aibor/starinit/internal/bootstrap"
	"github.com/aibor/starinit/internal/cmdline"
	"github.com/aibor/starinit/internal/exitcode"
	"github.com/aibor/starinit/internal/launch"
	"github.com/aibor/starinit/internal/platform"
	"github.com/aibor/starinit/sysinit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Shell runs the embedded script.
const Shell = "/bin/sh"

//go:embed init.sh
var script string

//go:embed init.env
var envFile []byte

// logLevel is set at build time with -ldflags "-X main.logLevel=debug".
var logLevel = "info"

func command() (cmdline.Spec, error) {
	env, err := cmdline.ParseEnv(envFile)
	if err != nil {
		return cmdline.Spec{}, fmt.Errorf("parse env file: %w", err)
	}

	return cmdline.Spec{
		Args: []string{Shell, "-c", script},
		Env:  env,
	}, nil
}

func initializer(plat platform.Platform, log *zap.Logger) sysinit.Initializer {
	funcs := []sysinit.Func{
		sysinit.WithMountPoints(plat.MountPoints()),
	}

	if symlinks := plat.Symlinks(); len(symlinks) > 0 {
		funcs = append(funcs, sysinit.WithSymlinks(symlinks))
	}

	funcs = append(funcs,
		sysinit.WithInterfaceUp("lo"),
		sysinit.WithChildSubreaper(),
	)

	return sysinit.Initializer{
		Log:   log.Named("sysinit"),
		Funcs: funcs,
	}
}

func main() {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	plat := platform.Default()

	rt, err := bootstrap.Bootstrap(plat, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		plat.Abort(exitcode.Fatal)

		return
	}

	log := rt.Log

	spec, err := command()
	if err != nil {
		log.Fatal("invalid command", zap.Error(err))
	}

	console := plat.Console()

	b := &boot.Boot{
		API: initializer(plat, log),
		Launcher: &launch.Exec{
			FS:      rt.FS,
			Stdin:   console.Stdin,
			Stdout:  console.Stdout,
			Stderr:  console.Stderr,
			Signals: launch.DefaultSignals(),
			Log:     log.Named("launch"),
		},
		FS:      rt.FS,
		Log:     log,
		Command: spec,
	}

	code, err := b.Run()
	if err != nil {
		log.Fatal("boot failed", zap.Error(err))
	}

	_ = log.Sync()

	if _, err := exitcode.Fprint(console.Stdout, code); err != nil {
		log.Warn("print exit code", zap.Error(err))
	}

	if err := plat.Halt(); err != nil {
		log.Fatal("halt failed", zap.Error(err))
	}
}
