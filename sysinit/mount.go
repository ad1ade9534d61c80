// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSType is a file system type.
type FSType string

// Special file system types.
const (
	FSTypeBpf      FSType = "bpf"
	FSTypeCgroup2  FSType = "cgroup2"
	FSTypeConfig   FSType = "configfs"
	FSTypeDebug    FSType = "debugfs"
	FSTypeDevPts   FSType = "devpts"
	FSTypeDevTmp   FSType = "devtmpfs"
	FSTypeMqueue   FSType = "mqueue"
	FSTypeProc     FSType = "proc"
	FSTypeSecurity FSType = "securityfs"
	FSTypeSys      FSType = "sysfs"
	FSTypeTmp      FSType = "tmpfs"
	FSTypeTracing  FSType = "tracefs"

	defaultDirMode = 0o755
)

// MountFlags are the flags as defined by mount(2).
type MountFlags uintptr

// SystemMountPoints returns a map of the special pseudo and virtual file
// systems a shell workload expects, like /proc for process information, /dev
// for devices and /tmp for scratch files.
func SystemMountPoints() MountPoints {
	return MountPoints{
		"/dev":                 {FSType: FSTypeDevTmp, Flags: MountFlagNoSUID},
		"/dev/mqueue":          {FSType: FSTypeMqueue, MayFail: true},
		"/dev/pts":             {FSType: FSTypeDevPts, MayFail: true},
		"/dev/shm":             {FSType: FSTypeTmp, MayFail: true},
		"/proc":                {FSType: FSTypeProc},
		"/run":                 {FSType: FSTypeTmp},
		"/sys":                 {FSType: FSTypeSys},
		"/sys/fs/bpf":          {FSType: FSTypeBpf, MayFail: true},
		"/sys/fs/cgroup":       {FSType: FSTypeCgroup2, MayFail: true},
		"/sys/kernel/config":   {FSType: FSTypeConfig, MayFail: true},
		"/sys/kernel/debug":    {FSType: FSTypeDebug, MayFail: true},
		"/sys/kernel/security": {FSType: FSTypeSecurity, MayFail: true},
		"/sys/kernel/tracing":  {FSType: FSTypeTracing, MayFail: true},
		"/tmp":                 {FSType: FSTypeTmp, Data: "mode=1777"},
	}
}

// MountOptions contains parameters for a mount point.
type MountOptions struct {
	// FSType is the files system type. It must be set to an available [FSType].
	FSType FSType

	// Source is the source device to mount. Can be empty for all the special
	// file system types [FSType]s. If empty it is set to the string of the
	// type.
	Source string

	// Flags are optional mount flags as defined by mount(2).
	Flags MountFlags

	// Data are optional additional parameters that depend of the [FSType] used.
	Data string

	// MayFail determines if the mount operation may fail. If set to true, a
	// mount error does not fail a [MountAll] operation. Instead, the error is
	// collected and the next mount point is tried.
	MayFail bool
}

// MountPoints is a collection of MountPoints.
type MountPoints map[string]MountOptions

// Under returns a copy of the [MountPoints] with all paths moved below the
// given root directory.
func (m MountPoints) Under(root string) MountPoints {
	moved := make(MountPoints, len(m))
	for path, opts := range m {
		moved[filepath.Join(root, path)] = opts
	}

	return moved
}

// Mount mounts the system file system of [FSType] at the given path.
//
// If path does not exist, it is created. An error is returned if this or the
// mount syscall fails.
func Mount(path string, opts MountOptions) error {
	err := os.MkdirAll(path, defaultDirMode)
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}

	return mount(path, opts.Source, string(opts.FSType), opts.Flags, opts.Data)
}

// MountAll mounts the given set of system file systems.
//
// The mounts are executed in lexicographic order of the paths, so parents are
// mounted before their children. If only optional mount points failed, it
// returns an [OptionalMountError] with all errors.
func MountAll(mountPoints MountPoints) error {
	var optionalErrs OptionalMountError

	for path, opts := range sortedByKey(mountPoints) {
		if err := Mount(path, opts); err != nil {
			if !opts.MayFail {
				return err
			}

			optionalErrs = append(optionalErrs, err)
		}
	}

	if optionalErrs != nil {
		return optionalErrs
	}

	return nil
}

// WithMountPoints returns a setup [Func] that wraps [MountAll].
func WithMountPoints(mountPoints MountPoints) Func {
	return func() error {
		return MountAll(mountPoints)
	}
}
