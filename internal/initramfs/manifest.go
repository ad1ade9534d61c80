// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Entry is a single file in the archive.
//
// Exactly one of Source, Link or Dir must be set.
type Entry struct {
	// Path is the absolute path in the archive.
	Path string `yaml:"path"`

	// Source is the path of the regular file the content is copied from.
	Source string `yaml:"source,omitempty"`

	// Mode overrides the permissions of the source file.
	Mode fs.FileMode `yaml:"mode,omitempty"`

	// Link is the target of a symbolic link.
	Link string `yaml:"link,omitempty"`

	// Dir creates an empty directory.
	Dir bool `yaml:"dir,omitempty"`
}

// Validate checks that the entry has a valid path and exactly one type.
func (e Entry) Validate() error {
	if _, err := archivePath(e.Path); err != nil {
		return err
	}

	types := 0

	for _, set := range []bool{e.Source != "", e.Link != "", e.Dir} {
		if set {
			types++
		}
	}

	if types != 1 {
		return fmt.Errorf("%w: %s: exactly one of source, link or dir required",
			ErrInvalidEntry, e.Path)
	}

	if e.Mode != 0 && e.Source == "" {
		return fmt.Errorf("%w: %s: mode only valid with source",
			ErrInvalidEntry, e.Path)
	}

	return nil
}

// Manifest lists the additional entries of an archive.
type Manifest struct {
	Files []Entry `yaml:"files"`
}

// ParseManifest reads a YAML manifest. Unknown fields are rejected.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	for _, entry := range manifest.Files {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
	}

	return &manifest, nil
}
