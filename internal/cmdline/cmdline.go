// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmdline

import (
	"slices"
	"strings"
)

// CommandLine is the argument list of a process. The first element is the
// path of the executable.
type CommandLine []string

// Path returns the executable path, or an empty string for an empty
// [CommandLine].
func (c CommandLine) Path() string {
	if len(c) == 0 {
		return ""
	}

	return c[0]
}

// Environment is a list of "KEY=VALUE" strings.
type Environment []string

// Lookup returns the value of the last entry with the given key.
func (e Environment) Lookup(key string) (string, bool) {
	prefix := key + "="

	for _, entry := range slices.Backward(e) {
		if value, found := strings.CutPrefix(entry, prefix); found {
			return value, true
		}
	}

	return "", false
}

// Spec is the specification of the init process's command.
type Spec struct {
	// Args is the argument list. It must not be empty.
	Args []string

	// Env is the environment list. May be empty.
	Env []string
}

// Build creates owned copies of the argument and environment lists of the
// given [Spec]. Order and content are preserved. The returned [Environment] is
// never nil.
func Build(spec Spec) (CommandLine, Environment) {
	argv := make(CommandLine, len(spec.Args))
	copy(argv, spec.Args)

	envp := make(Environment, len(spec.Env))
	copy(envp, spec.Env)

	return argv, envp
}
