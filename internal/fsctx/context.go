// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fsctx

import "sync"

// Filesystem is a mounted filesystem instance.
type Filesystem interface {
	// Flush writes back all buffered modifications to the backing storage.
	Flush() error
}

// Dir is a directory of the filesystem tree together with the mount table
// beneath it.
type Dir interface {
	// Path is the absolute path of the directory.
	Path() string

	// Mounts lists all mounts beneath the directory, excluding the
	// filesystem the directory itself belongs to.
	Mounts() ([]Mount, error)

	// UnmountAll detaches all mounts beneath the directory. On success, no
	// mounts are left.
	UnmountAll() error

	// Filesystem returns the filesystem the directory belongs to.
	Filesystem() Filesystem
}

// Context guards access to the root [Dir].
//
// Other subsystems may hold the lock at any time, so callers must not assume
// the mount tree is unchanged between two calls of [Context.With].
type Context struct {
	mu   sync.Mutex
	root Dir
}

// New creates a new [Context] for the given root directory.
func New(root Dir) *Context {
	return &Context{root: root}
}

// With runs the given function with exclusive access to the root directory.
//
// The lock is released when the function returns or panics.
func (c *Context) With(fn func(root Dir) error) error {
	guard := c.Lock()
	defer guard.Unlock()

	return fn(guard.Root())
}

// Lock acquires exclusive access to the root directory. It blocks until the
// lock is available. The returned [Guard] must be unlocked by the caller.
func (c *Context) Lock() *Guard {
	c.mu.Lock()

	return &Guard{ctx: c}
}

// Guard is the exclusive access to the root directory of a [Context].
type Guard struct {
	ctx *Context
}

// Root returns the root directory. It must not be used after
// [Guard.Unlock].
func (g *Guard) Root() Dir {
	return g.ctx.root
}

// Unlock releases the lock. Calling it more than once is a no-op.
func (g *Guard) Unlock() {
	if g.ctx == nil {
		return
	}

	g.ctx.mu.Unlock()
	g.ctx = nil
}
