// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/starinit/internal/cmdline"
	"github.com/aibor/starinit/internal/exitcode"
	"github.com/aibor/starinit/internal/fsctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Launcher creates and runs the top-level process.
type Launcher interface {
	// Launch runs the process described by argv and envp and blocks until it
	// and all its descendants terminated. It returns the exit code of the
	// process or an [Error] if it could not be started.
	Launch(argv cmdline.CommandLine, envp cmdline.Environment) (int, error)
}

// Exec is a [Launcher] that runs the process as child of the running process.
//
// The running process must be PID 1 or a child subreaper, so orphaned
// descendants are re-parented to it and can be waited for.
type Exec struct {
	// FS is the filesystem context the executable is resolved in. If its
	// root is not "/", the process is run chrooted into it.
	FS *fsctx.Context

	// Stdin, Stdout and Stderr are passed to the process. Nil means closed.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Signals received by the running process are forwarded to the top-level
	// process as long as it runs.
	Signals []os.Signal

	// Log receives debug messages about the process lifecycle. May be nil.
	Log *zap.Logger
}

var _ Launcher = (*Exec)(nil)

// DefaultSignals are the signals usually sent to an init program to request
// the system to stop.
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP}
}

// Launch starts the process and waits for it and all its descendants.
func (e *Exec) Launch(argv cmdline.CommandLine, envp cmdline.Environment) (int, error) {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}

	if len(argv) == 0 {
		return exitcode.Launch, &Error{Err: ErrEmptyCommand}
	}

	var root, execPath string

	err := e.FS.With(func(dir fsctx.Dir) error {
		var err error

		root = dir.Path()
		execPath, err = resolve(root, argv.Path(), envp)

		return err
	})
	if err != nil {
		return exitcode.Launch, &Error{Path: argv.Path(), Err: err}
	}

	// A nil environment makes the process inherit the one of the init.
	if envp == nil {
		envp = cmdline.Environment{}
	}

	sysAttr := &syscall.SysProcAttr{Setsid: true}
	if root != "/" {
		sysAttr.Chroot = root
	}

	proc, err := os.StartProcess(execPath, argv, &os.ProcAttr{
		Dir:   "/",
		Env:   envp,
		Files: []*os.File{e.Stdin, e.Stdout, e.Stderr},
		Sys:   sysAttr,
	})
	if err != nil {
		return exitcode.Launch, &Error{Path: execPath, Err: err}
	}

	log.Debug("init process started",
		zap.String("path", execPath),
		zap.Int("pid", proc.Pid),
	)

	exitCode, err := e.wait(proc.Pid, log)

	_ = proc.Release()

	if err != nil {
		return exitcode.Launch, fmt.Errorf("wait for init process: %w", err)
	}

	return exitCode, nil
}

// wait reaps all children and forwards signals to the process with the given
// pid while it runs.
func (e *Exec) wait(pid int, log *zap.Logger) (int, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	if len(e.Signals) > 0 {
		signal.Notify(signals, e.Signals...)
		defer signal.Stop(signals)
	}

	var (
		group  errgroup.Group
		status unix.WaitStatus
	)

	group.Go(func() error {
		defer cancel()

		var err error

		status, err = reapAll(pid, cancel, log)

		return err
	})

	group.Go(func() error {
		forwardSignals(ctx, signals, pid, log)
		return nil
	})

	if err := group.Wait(); err != nil {
		return exitcode.Launch, err
	}

	return exitCodeOf(status), nil
}
