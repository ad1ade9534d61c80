// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build integration_sysinit

package sysinit_test

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/starinit/sysinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func readMounts(t *testing.T) map[string]string {
	t.Helper()

	mountsFile, err := os.ReadFile("/proc/mounts")
	require.NoError(t, err)

	actual := map[string]string{}

	scanner := bufio.NewScanner(strings.NewReader(string(mountsFile)))
	for scanner.Scan() {
		columns := strings.Fields(scanner.Text())
		actual[columns[1]] = columns[2]
	}

	require.NoError(t, scanner.Err(), "must read mounts file")

	return actual
}

func TestMount(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		opts        sysinit.MountOptions
		expectedErr error
	}{
		{
			name:        "empty path",
			expectedErr: os.ErrNotExist,
		},
		{
			name:        "missing source",
			path:        "some/path",
			expectedErr: unix.ENODEV,
		},
		{
			name: "nonexisting path",
			path: "some/new/path",
			opts: sysinit.MountOptions{
				FSType: sysinit.FSTypeTmp,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path != "" {
				path = filepath.Join(t.TempDir(), path)
			}

			t.Cleanup(func() {
				err := unix.Unmount(path, 0)
				if err != nil && tt.expectedErr == nil {
					t.Logf("Failed to unmount %s: %v", path, err)
				}
			})

			err := sysinit.Mount(path, tt.opts)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			actual := readMounts(t)
			if assert.Contains(t, actual, path) {
				assert.Equal(t, string(tt.opts.FSType), actual[path])
			}
		})
	}
}

func TestMountAll(t *testing.T) {
	tests := []struct {
		name        string
		mounts      sysinit.MountPoints
		expectedErr error
	}{
		{
			name: "empty set",
		},
		{
			name: "invalid mount points",
			mounts: sysinit.MountPoints{
				"/somewhere": {},
			},
			expectedErr: unix.ENODEV,
		},
		{
			name: "invalid mount points may fail",
			mounts: sysinit.MountPoints{
				"/somewhereelse":  {MayFail: true},
				"/somewhereelse2": {MayFail: true},
			},
			expectedErr: sysinit.OptionalMountError{},
		},
		{
			name: "valid mounts",
			mounts: sysinit.MountPoints{
				"/run":     {FSType: sysinit.FSTypeTmp},
				"/run/sub": {FSType: sysinit.FSTypeTmp},
				"/tmp":     {FSType: sysinit.FSTypeTmp, Data: "mode=1777"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mounts := tt.mounts.Under(t.TempDir())

			t.Cleanup(func() {
				for path := range mounts {
					_ = unix.Unmount(path, unix.MNT_DETACH)
				}
			})

			err := sysinit.MountAll(mounts)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			actual := readMounts(t)
			for path, opts := range mounts {
				assert.Equal(t, string(opts.FSType), actual[path], path)
			}
		})
	}
}
