// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux && hosted

package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aibor/starinit/sysinit"
)

// Hosted runs as regular process on a development host. It operates on a
// directory tree, which the init process is chrooted into.
type Hosted struct {
	root string
}

var _ Platform = (*Hosted)(nil)

// Default returns the backend linked into the binary. Its root directory is
// taken from the environment variable [RootEnvVar].
func Default() Platform {
	return NewHosted(os.Getenv(RootEnvVar))
}

// NewHosted returns a hosted backend for the given root directory.
func NewHosted(root string) *Hosted {
	if root != "" {
		root = filepath.Clean(root)
	}

	return &Hosted{root: root}
}

// Name implements [Platform].
func (*Hosted) Name() string {
	return "hosted"
}

// Root implements [Platform].
func (h *Hosted) Root() string {
	return h.root
}

// Console implements [Platform].
func (*Hosted) Console() Console {
	return stdConsole()
}

// MountPoints implements [Platform]. The system mount points are moved below
// the root directory.
func (h *Hosted) MountPoints() sysinit.MountPoints {
	return sysinit.SystemMountPoints().Under(h.root)
}

// Symlinks implements [Platform]. There are none, since all devtmpfs mounts
// share one instance with the host's /dev, which has its own links.
func (*Hosted) Symlinks() sysinit.Symlinks {
	return nil
}

// Prepare implements [Platform]. The root directory is made absolute and
// validated. The process is marked as child subreaper, so orphans of the init
// process are re-parented to it.
func (h *Hosted) Prepare() error {
	if h.root == "" {
		return fmt.Errorf("%w: set %s", ErrRootNotSet, RootEnvVar)
	}

	root, err := filepath.Abs(h.root)
	if err != nil {
		return fmt.Errorf("absolute root path: %w", err)
	}

	if root == "/" {
		return ErrRootIsHostRoot
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	h.root = root

	if err := sysinit.SetChildSubreaper(); err != nil {
		return fmt.Errorf("set child subreaper: %w", err)
	}

	return nil
}

// Halt implements [Platform]. There is nothing to stop, so it just returns.
func (*Hosted) Halt() error {
	return nil
}

// Abort implements [Platform].
func (*Hosted) Abort(code int) {
	os.Exit(code)
}
