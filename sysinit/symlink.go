// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// DevSymlinks returns a map with well-known symlinks for /dev.
func DevSymlinks() Symlinks {
	return Symlinks{
		"/dev/core":   "/proc/kcore",
		"/dev/fd":     "/proc/self/fd/",
		"/dev/stdin":  "/proc/self/fd/0",
		"/dev/stdout": "/proc/self/fd/1",
		"/dev/stderr": "/proc/self/fd/2",
	}
}

// Symlinks is a collection of symbolic links. Keys are symbolic links to
// create with the value being the target to link to.
type Symlinks map[string]string

// Under returns a copy of the [Symlinks] with the links moved below the given
// root directory. Targets are kept as they are, since they are resolved
// relative to the root the workload sees.
func (s Symlinks) Under(root string) Symlinks {
	moved := make(Symlinks, len(s))
	for link, target := range s {
		moved[filepath.Join(root, link)] = target
	}

	return moved
}

// CreateSymlinks creates common symbolic links in the file system. Existing
// links that already point to the expected target are kept.
//
// This must be run after all file systems have been mounted.
func CreateSymlinks(symlinks Symlinks) error {
	for link, target := range sortedByKey(symlinks) {
		if current, err := os.Readlink(link); err == nil && current == target {
			continue
		}

		if err := os.Symlink(target, link); err != nil {
			return fmt.Errorf("create common symlink %s: %w", link, err)
		}
	}

	return nil
}

// WithSymlinks returns a setup [Func] that wraps [CreateSymlinks].
func WithSymlinks(symlinks Symlinks) Func {
	return func() error {
		return CreateSymlinks(symlinks)
	}
}

// sortedByKey iterates the given map in lexicographic order of its keys.
func sortedByKey[K cmp.Ordered, V any](m map[K]V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			if !yield(key, m[key]) {
				return
			}
		}
	}
}
