// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import "errors"

var (
	// ErrNotRegularFile is returned if the source of a regular file entry is
	// not a regular file.
	ErrNotRegularFile = errors.New("source is not a regular file")

	// ErrInvalidEntry is returned if an [Entry] has not exactly one of
	// source, link or dir set, or if its path is invalid.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrDuplicatePath is returned if the same path is added more than once.
	ErrDuplicatePath = errors.New("duplicate path")
)
