// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsctx

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrMountsRemain is returned if mounts are left that can not be unmounted.
var ErrMountsRemain = errors.New("mounts remain")

const (
	defaultProcPath = "/proc"
	procFSType      = "proc"
)

// sysCalls are the system interfaces used by [HostDir].
type sysCalls struct {
	readMountInfo func() ([]byte, error)
	mountProc     func(target string) error
	unmount       func(target string) error
	syncfs        func(path string) error
}

// HostDir is a [Dir] of the running system.
//
// The mount table is read from the proc filesystem. Thus, the proc mount the
// table is read from is unmounted last. If no proc filesystem is mounted, a
// private one is mounted for the time of [HostDir.UnmountAll].
type HostDir struct {
	path     string
	procPath string
	sys      sysCalls
}

var _ Dir = (*HostDir)(nil)

// NewHostDir creates a [HostDir] for the given absolute path.
func NewHostDir(path string) *HostDir {
	return &HostDir{
		path:     filepath.Clean(path),
		procPath: defaultProcPath,
		sys:      hostSysCalls(),
	}
}

// Path returns the absolute path of the directory.
func (d *HostDir) Path() string {
	return d.path
}

// Mounts lists the mounts beneath the directory in mount order.
func (d *HostDir) Mounts() ([]Mount, error) {
	data, err := d.sys.readMountInfo()
	if err != nil {
		return nil, err
	}

	mounts, err := parseMountInfo(data)
	if err != nil {
		return nil, err
	}

	return beneath(mounts, d.path), nil
}

// UnmountAll unmounts all mounts beneath the directory, deepest first.
//
// It runs passes over the mount table as long as each pass makes progress. It
// fails with [ErrMountsRemain] if a pass could not unmount anything.
func (d *HostDir) UnmountAll() (err error) {
	if _, readErr := d.Mounts(); readErr != nil {
		if err := d.sys.mountProc(d.procPath); err != nil {
			return fmt.Errorf("list mounts: %w", errors.Join(readErr, err))
		}

		// A proc outside of the directory is not covered by the passes.
		if !isBeneath(d.procPath, d.path) {
			defer func() {
				err = errors.Join(err, d.sys.unmount(d.procPath))
			}()
		}
	}

	for {
		mounts, err := d.Mounts()
		if err != nil {
			return fmt.Errorf("list mounts: %w", err)
		}

		targets, procMount := d.splitProcMount(mounts)
		if len(targets) == 0 {
			if procMount != nil {
				return d.sys.unmount(procMount.Point)
			}

			return nil
		}

		sortForUnmount(targets)

		var (
			unmounted int
			errs      []error
		)

		for _, mount := range targets {
			if err := d.sys.unmount(mount.Point); err != nil {
				errs = append(errs, err)
				continue
			}

			unmounted++
		}

		if unmounted == 0 {
			return fmt.Errorf("%w: %w", ErrMountsRemain, errors.Join(errs...))
		}
	}
}

// splitProcMount separates the proc mount providing the mount table from the
// other mounts. It is returned only if it is one of the given mounts.
func (d *HostDir) splitProcMount(mounts []Mount) ([]Mount, *Mount) {
	var (
		targets   = make([]Mount, 0, len(mounts))
		procMount *Mount
	)

	for idx, mount := range mounts {
		if mount.Point == d.procPath && mount.FSType == procFSType {
			if procMount != nil {
				targets = append(targets, *procMount)
			}

			procMount = &mounts[idx]

			continue
		}

		targets = append(targets, mount)
	}

	return targets, procMount
}

// Filesystem returns the filesystem the directory belongs to.
func (d *HostDir) Filesystem() Filesystem {
	return &HostFilesystem{
		path:   d.path,
		syncfs: d.sys.syncfs,
	}
}

// HostFilesystem is the [Filesystem] a [HostDir] belongs to.
type HostFilesystem struct {
	path   string
	syncfs func(path string) error
}

var _ Filesystem = (*HostFilesystem)(nil)

// Flush writes back all dirty data of the filesystem.
func (f *HostFilesystem) Flush() error {
	return f.syncfs(f.path)
}
