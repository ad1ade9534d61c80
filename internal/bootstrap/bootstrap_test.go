// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/starinit/internal/bootstrap"
	"github.com/aibor/starinit/internal/fsctx"
	"github.com/aibor/starinit/internal/platform"
	"github.com/aibor/starinit/sysinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type fakePlatform struct {
	root       string
	stderr     *os.File
	prepareErr error
	prepared   int
	aborted    []int
}

func (*fakePlatform) Name() string { return "fake" }

func (p *fakePlatform) Root() string { return p.root }

func (p *fakePlatform) Console() platform.Console {
	return platform.Console{Stderr: p.stderr}
}

func (*fakePlatform) MountPoints() sysinit.MountPoints { return nil }

func (*fakePlatform) Symlinks() sysinit.Symlinks { return nil }

func (p *fakePlatform) Prepare() error {
	p.prepared++
	return p.prepareErr
}

func (*fakePlatform) Halt() error { return nil }

func (p *fakePlatform) Abort(code int) {
	p.aborted = append(p.aborted, code)
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()

	stderr, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stderr.Close() })

	return &fakePlatform{
		root:   t.TempDir(),
		stderr: stderr,
	}
}

func readConsole(t *testing.T, p *fakePlatform) string {
	t.Helper()

	out, err := os.ReadFile(p.stderr.Name())
	require.NoError(t, err)

	return string(out)
}

func TestBootstrap(t *testing.T) {
	p := newFakePlatform(t)

	rt, err := bootstrap.Bootstrap(p, zapcore.InfoLevel)
	require.NoError(t, err)

	assert.Equal(t, 1, p.prepared)
	assert.Same(t, p, rt.Platform)

	err = rt.FS.With(func(root fsctx.Dir) error {
		assert.Equal(t, p.root, root.Path())
		return nil
	})
	require.NoError(t, err)

	rt.Log.Debug("hidden")
	rt.Log.Info("visible")

	out := readConsole(t, p)
	assert.Contains(t, out, "starinit")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, `"platform": "fake"`)
	assert.NotContains(t, out, "hidden")
}

func TestBootstrap_PrepareFails(t *testing.T) {
	p := newFakePlatform(t)
	p.prepareErr = assert.AnError

	_, err := bootstrap.Bootstrap(p, zapcore.InfoLevel)
	require.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "prepare platform fake")
}

func TestBootstrap_FatalAborts(t *testing.T) {
	p := newFakePlatform(t)

	rt, err := bootstrap.Bootstrap(p, zapcore.InfoLevel)
	require.NoError(t, err)

	// The fake abort returns, so Fatal returns as well.
	rt.Log.Fatal("teardown failed")

	assert.Equal(t, []int{70}, p.aborted)
	assert.Contains(t, readConsole(t, p), "teardown failed")
}
