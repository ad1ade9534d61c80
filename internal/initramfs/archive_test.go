// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs_test

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/aibor/starinit/internal/initramfs"
	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archiveEntry struct {
	Name     string
	Mode     cpio.FileMode
	Linkname string
	Body     string
}

func readArchive(t *testing.T, data []byte) []archiveEntry {
	t.Helper()

	var entries []archiveEntry

	r := cpio.NewReader(bytes.NewReader(data))

	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		entry := archiveEntry{
			Name:     hdr.Name,
			Mode:     hdr.Mode,
			Linkname: hdr.Linkname,
		}

		if hdr.Mode&cpio.TypeReg == cpio.TypeReg && hdr.Mode&cpio.TypeSymlink != cpio.TypeSymlink {
			body, err := io.ReadAll(r)
			require.NoError(t, err)

			entry.Body = string(body)
		}

		entries = append(entries, entry)
	}

	return entries
}

func TestArchive_WriteCPIO(t *testing.T) {
	testFS := fstest.MapFS{
		"build/init":       &fstest.MapFile{Data: []byte("init"), Mode: 0o600},
		"usr/bin/busybox":  &fstest.MapFile{Data: []byte("busybox"), Mode: 0o755},
		"etc/starinit.cfg": &fstest.MapFile{Data: []byte("cfg"), Mode: 0o644},
	}

	archive := initramfs.New("/build/init")

	err := archive.Add(
		initramfs.Entry{Path: "/bin/sh", Link: "busybox"},
		initramfs.Entry{Path: "/bin/busybox", Source: "/usr/bin/busybox"},
		initramfs.Entry{Path: "/etc/app/app.cfg", Source: "etc/starinit.cfg", Mode: 0o600},
		initramfs.Entry{Path: "/tmp", Dir: true},
	)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, archive.WriteCPIO(&out, testFS))

	expected := []archiveEntry{
		{Name: "bin", Mode: cpio.TypeDir | 0o755},
		{Name: "bin/busybox", Mode: cpio.TypeReg | 0o755, Body: "busybox"},
		{Name: "bin/sh", Mode: cpio.TypeSymlink | 0o777, Linkname: "busybox"},
		{Name: "etc", Mode: cpio.TypeDir | 0o755},
		{Name: "etc/app", Mode: cpio.TypeDir | 0o755},
		{Name: "etc/app/app.cfg", Mode: cpio.TypeReg | 0o600, Body: "cfg"},
		{Name: "init", Mode: cpio.TypeReg | 0o755, Body: "init"},
		{Name: "tmp", Mode: cpio.TypeDir | 0o755},
	}

	assert.Equal(t, expected, readArchive(t, out.Bytes()))
}

func TestArchive_Add(t *testing.T) {
	tests := []struct {
		name        string
		entry       initramfs.Entry
		expectedErr error
	}{
		{
			name:  "valid",
			entry: initramfs.Entry{Path: "/lib", Dir: true},
		},
		{
			name:        "init path",
			entry:       initramfs.Entry{Path: "/init", Link: "/bin/sh"},
			expectedErr: initramfs.ErrDuplicatePath,
		},
		{
			name:        "same path not clean",
			entry:       initramfs.Entry{Path: "/bin/../init", Dir: true},
			expectedErr: initramfs.ErrDuplicatePath,
		},
		{
			name:        "root",
			entry:       initramfs.Entry{Path: "/", Dir: true},
			expectedErr: initramfs.ErrInvalidEntry,
		},
		{
			name:        "invalid",
			entry:       initramfs.Entry{Path: "/lib"},
			expectedErr: initramfs.ErrInvalidEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := initramfs.New("/init").Add(tt.entry)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestArchive_WriteCPIO_MissingSource(t *testing.T) {
	archive := initramfs.New("/build/init")

	err := archive.WriteCPIO(io.Discard, fstest.MapFS{})
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestArchive_AddLibs(t *testing.T) {
	archive := initramfs.New("/build/init")
	require.NoError(t, archive.Add(
		initramfs.Entry{Path: "/bin/tool", Source: "/usr/bin/tool"},
		initramfs.Entry{Path: "/lib/libc.so.6", Link: "libc-2.so"},
	))

	require.NoError(t, archive.AddLibs("/lib/libc.so.6", "/usr/lib/libm.so.6"))

	assert.Equal(t, []string{
		"/usr/bin/tool",
		"/build/init",
		"/usr/lib/libm.so.6",
	}, archive.Sources())

	require.ErrorIs(t, archive.AddLibs("lib/relative.so"), initramfs.ErrInvalidEntry)
}
