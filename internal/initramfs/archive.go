// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
)

// InitPath is the path of the init binary in the archive.
const InitPath = "/init"

const initMode fs.FileMode = 0o755

// Archive collects the entries of an initramfs archive.
type Archive struct {
	entries map[string]Entry
}

// New creates an [Archive] with the given init binary source.
func New(initSource string) *Archive {
	return &Archive{
		entries: map[string]Entry{
			"init": {Path: InitPath, Source: initSource, Mode: initMode},
		},
	}
}

// Add adds the given entries. Each path may only be added once.
func (a *Archive) Add(entries ...Entry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}

		name, _ := archivePath(entry.Path)
		if _, exists := a.entries[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, entry.Path)
		}

		a.entries[name] = entry
	}

	return nil
}

// Sources returns the source paths of all regular file entries in path order.
func (a *Archive) Sources() []string {
	var sources []string

	for _, name := range slices.Sorted(maps.Keys(a.entries)) {
		if source := a.entries[name].Source; source != "" {
			sources = append(sources, source)
		}
	}

	return sources
}

// AddLibs adds the given shared objects at their host path. Paths that are
// already present are skipped.
func (a *Archive) AddLibs(libs ...string) error {
	for _, lib := range libs {
		entry := Entry{Path: lib, Source: lib}
		if err := entry.Validate(); err != nil {
			return err
		}

		name, _ := archivePath(lib)
		if _, exists := a.entries[name]; exists {
			continue
		}

		a.entries[name] = entry
	}

	return nil
}

// WriteCPIO writes the archive in newc cpio format to w. Sources are opened
// from fsys.
func (a *Archive) WriteCPIO(w io.Writer, fsys fs.FS) error {
	cpioWriter := NewCPIOWriter(w)

	if err := a.WriteEntries(cpioWriter, fsys); err != nil {
		return err
	}

	return cpioWriter.Close()
}

// WriteEntries writes all entries to the given [Writer] in lexicographic path
// order. Missing parent directories are written once, before their first
// child.
func (a *Archive) WriteEntries(w Writer, fsys fs.FS) error {
	written := map[string]bool{}

	for _, name := range slices.Sorted(maps.Keys(a.entries)) {
		entry := a.entries[name]

		if err := writeParents(w, name, written); err != nil {
			return err
		}

		if err := writeEntry(w, fsys, name, entry); err != nil {
			return err
		}

		written[name] = true
	}

	return nil
}

func writeParents(w Writer, name string, written map[string]bool) error {
	var parents []string

	for dir := path.Dir(name); dir != "."; dir = path.Dir(dir) {
		if written[dir] {
			break
		}

		parents = append(parents, dir)
	}

	for _, dir := range slices.Backward(parents) {
		if err := w.WriteDirectory(dir); err != nil {
			return fmt.Errorf("directory %s: %w", dir, err)
		}

		written[dir] = true
	}

	return nil
}

func writeEntry(w Writer, fsys fs.FS, name string, entry Entry) error {
	switch {
	case entry.Dir:
		return w.WriteDirectory(name)
	case entry.Link != "":
		return w.WriteLink(name, entry.Link)
	}

	sourcePath, err := fsPath(entry.Source)
	if err != nil {
		return err
	}

	source, err := fsys.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source for %s: %w", entry.Path, err)
	}
	defer source.Close()

	return w.WriteRegular(name, source, entry.Mode)
}

// archivePath returns the name of the given absolute path in the archive.
func archivePath(p string) (string, error) {
	if !path.IsAbs(p) {
		return "", fmt.Errorf("%w: path must be absolute: %q", ErrInvalidEntry, p)
	}

	name := strings.TrimPrefix(path.Clean(p), "/")
	if name == "" {
		return "", fmt.Errorf("%w: path must not be root", ErrInvalidEntry)
	}

	return name, nil
}

// fsPath returns the [fs.FS] path of the given source path. Absolute paths
// are taken relative to the root of the [fs.FS].
func fsPath(source string) (string, error) {
	name := strings.TrimPrefix(path.Clean(source), "/")
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: invalid source path: %q", ErrInvalidEntry, source)
	}

	return name, nil
}
