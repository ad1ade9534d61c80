// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsctx

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	mountInfoPath = "/proc/self/mountinfo"
	procDirMode   = 0o555
)

func hostSysCalls() sysCalls {
	return sysCalls{
		readMountInfo: readMountInfo,
		mountProc:     mountProc,
		unmount:       unmount,
		syncfs:        syncfs,
	}
}

func readMountInfo() ([]byte, error) {
	data, err := os.ReadFile(mountInfoPath)
	if err != nil {
		return nil, fmt.Errorf("read mount table: %w", err)
	}

	return data, nil
}

func mountProc(target string) error {
	if err := os.MkdirAll(target, procDirMode); err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	err := unix.Mount(procFSType, target, procFSType, unix.MS_NOSUID|unix.MS_NODEV|unix.MS_NOEXEC, "")
	if err != nil {
		return fmt.Errorf("mount %s: %w", target, err)
	}

	return nil
}

func unmount(target string) error {
	if err := unix.Unmount(target, 0); err != nil {
		return fmt.Errorf("unmount %s: %w", target, err)
	}

	return nil
}

func syncfs(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	if err := unix.Syncfs(fd); err != nil {
		return fmt.Errorf("syncfs %s: %w", path, err)
	}

	return nil
}
