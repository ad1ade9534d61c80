// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package platform abstracts the environment the init runs in.
//
// Exactly one backend is linked into a binary. The default build links the
// virt backend that runs as PID 1 of a virtual machine. The build tag "hosted"
// selects the hosted backend that runs as regular process on a development
// host, operating on a directory tree instead of the real root.
package platform

import (
	"errors"
	"os"

	"github.com/aibor/starinit/sysinit"
)

// RootEnvVar names the environment variable the hosted backend takes its root
// directory from.
const RootEnvVar = "STARINIT_ROOT"

var (
	// ErrRootNotSet is returned if no root directory is configured.
	ErrRootNotSet = errors.New("root directory not set")

	// ErrRootIsHostRoot is returned if the hosted backend is configured to
	// operate on the real root directory.
	ErrRootIsHostRoot = errors.New("root directory must not be /")

	// ErrRootNotDir is returned if the root path is not a directory.
	ErrRootNotDir = errors.New("root is not a directory")
)

// Console holds the standard streams of the platform console.
type Console struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Platform provides the capabilities the init needs from the environment.
type Platform interface {
	// Name returns the short name of the backend.
	Name() string

	// Root returns the path of the root directory the init operates on.
	Root() string

	// Console returns the console streams.
	Console() Console

	// MountPoints returns the pseudo filesystems to mount, with absolute
	// paths on the host.
	MountPoints() sysinit.MountPoints

	// Symlinks returns the well-known links to create, with absolute paths
	// on the host.
	Symlinks() sysinit.Symlinks

	// Prepare checks the preconditions of the platform and sets up process
	// attributes. It must be called once before anything else is done.
	Prepare() error

	// Halt stops the system after a clean shutdown. It returns only on error
	// or if the backend does not stop the system.
	Halt() error

	// Abort stops the system immediately with the given code. It does not
	// return.
	Abort(code int)
}

func stdConsole() Console {
	return Console{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
