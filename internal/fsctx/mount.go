// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsctx

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// ErrInvalidMountInfo is returned if the mount table can not be parsed.
var ErrInvalidMountInfo = errors.New("invalid mountinfo line")

// Mount is a single entry of the mount table.
type Mount struct {
	ID       int
	ParentID int
	Point    string
	FSType   string
	Source   string
}

// depth is the number of path elements of the mount point.
func (m Mount) depth() int {
	if m.Point == "/" {
		return 0
	}

	return strings.Count(m.Point, "/")
}

// parseMountInfo parses the content of a mountinfo file as described in
// proc_pid_mountinfo(5).
func parseMountInfo(data []byte) ([]Mount, error) {
	infos, err := mountinfo.GetMountsFromReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMountInfo, err)
	}

	var mounts []Mount

	for _, info := range infos {
		mounts = append(mounts, Mount{
			ID:       info.ID,
			ParentID: info.Parent,
			Point:    info.Mountpoint,
			FSType:   info.FSType,
			Source:   info.Source,
		})
	}

	return mounts, nil
}

// isBeneath returns true if path is the given root or below it.
func isBeneath(path, root string) bool {
	if root == "/" {
		return strings.HasPrefix(path, "/")
	}

	return path == root || strings.HasPrefix(path, root+"/")
}

// beneath filters the given mounts for those at or below root, without the
// filesystem root itself belongs to.
//
// The root filesystem is the mount at root that is not stacked on another
// mount at root.
func beneath(mounts []Mount, root string) []Mount {
	root = filepath.Clean(root)

	atRoot := map[int]bool{}

	for _, mount := range mounts {
		if mount.Point == root {
			atRoot[mount.ID] = true
		}
	}

	var result []Mount

	for _, mount := range mounts {
		if !isBeneath(mount.Point, root) {
			continue
		}

		if mount.Point == root && (mount.ParentID == mount.ID || !atRoot[mount.ParentID]) {
			continue
		}

		result = append(result, mount)
	}

	return result
}

// sortForUnmount sorts mounts so that children come before their parents and
// mounts stacked on the same path come before the ones they cover.
func sortForUnmount(mounts []Mount) {
	slices.SortStableFunc(mounts, func(a, b Mount) int {
		if c := cmp.Compare(b.depth(), a.depth()); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})
}
