// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aibor/starinit/internal/cmdline"
	"golang.org/x/sys/unix"
)

// DefaultSearchPath is used for looking up executables if the environment has
// no PATH set.
const DefaultSearchPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// resolve returns the absolute path of the executable name as seen from the
// given root directory.
//
// Names containing a slash are taken as they are, relative to the root.
// Other names are looked up in the PATH of the given environment.
func resolve(root, name string, env cmdline.Environment) (string, error) {
	if strings.Contains(name, "/") {
		execPath := path.Join("/", name)
		if err := checkExecutable(root, execPath); err != nil {
			return "", err
		}

		return execPath, nil
	}

	searchPath, found := env.Lookup("PATH")
	if !found || searchPath == "" {
		searchPath = DefaultSearchPath
	}

	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}

		execPath := path.Join("/", dir, name)
		if checkExecutable(root, execPath) == nil {
			return execPath, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// checkExecutable checks that the path is an executable regular file. The path
// and all symbolic links on the way are resolved as if root was the root
// directory, like the chrooted process sees them.
func checkExecutable(root, execPath string) error {
	rootFD, err := unix.Open(root, unix.O_PATH|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open root %s: %w", root, err)
	}
	defer unix.Close(rootFD)

	fd, err := unix.Openat2(rootFD, execPath, &unix.OpenHow{
		Flags:   unix.O_PATH | unix.O_CLOEXEC,
		Resolve: unix.RESOLVE_IN_ROOT | unix.RESOLVE_NO_MAGICLINKS,
	})
	if err != nil {
		return fmt.Errorf("open %s in %s: %w", execPath, root, err)
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return fmt.Errorf("stat %s: %w", execPath, err)
	}

	if stat.Mode&unix.S_IFMT != unix.S_IFREG || stat.Mode&0o111 == 0 {
		return fmt.Errorf("%w: %s", ErrNotExecutable, execPath)
	}

	return nil
}
