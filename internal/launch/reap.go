// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// reapAll waits for all children of the running process until there are none
// left. The status of the child with the given pid is returned. onExit is
// called once that child is reaped.
func reapAll(pid int, onExit func(), log *zap.Logger) (unix.WaitStatus, error) {
	var (
		status unix.WaitStatus
		found  bool
	)

	for {
		var wstatus unix.WaitStatus

		wpid, err := unix.Wait4(-1, &wstatus, 0, nil)

		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			if !found {
				return status, fmt.Errorf("%w: pid %d", ErrNotReaped, pid)
			}

			return status, nil
		case err != nil:
			return status, fmt.Errorf("wait4: %w", err)
		}

		if wpid == pid {
			status = wstatus
			found = true

			onExit()
			log.Debug("init process terminated", zap.Int("pid", wpid))

			continue
		}

		log.Debug("reaped orphan", zap.Int("pid", wpid))
	}
}

// forwardSignals sends all signals received on the given channel to the
// process with the given pid until the context is done.
func forwardSignals(ctx context.Context, signals <-chan os.Signal, pid int, log *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			sysSig, ok := sig.(syscall.Signal)
			if !ok {
				continue
			}

			if err := unix.Kill(pid, sysSig); err != nil {
				log.Debug("forward signal",
					zap.Stringer("signal", sysSig),
					zap.Error(err),
				)
			}
		}
	}
}

// exitCodeOf returns the exit status of a process that exited and 128 plus
// the signal number for a process that was killed by a signal.
func exitCodeOf(status unix.WaitStatus) int {
	switch {
	case status.Exited():
		return status.ExitStatus()
	case status.Signaled():
		return 128 + int(status.Signal())
	default:
		return -1
	}
}
