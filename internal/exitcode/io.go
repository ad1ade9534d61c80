// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"fmt"
	"io"
)

// Identifier is the identifier string for communicating an exit code via
// stdout.
const Identifier = "STARINIT_EXIT_CODE"

const format = Identifier + ": %d"

// Fatal is the exit status the init terminates with if the system can not be
// shut down cleanly. It is the EX_SOFTWARE code of sysexits.h.
const Fatal = 70

// Launch is the exit code reported if the workload could not be started.
const Launch = -1

// Sprint creates the full exit code string with the given exit code.
func Sprint(exitCode int) string {
	return fmt.Sprintf(format, exitCode)
}

// Fprint writes the full exit code line with the given exit code into the given
// writer.
//
// The line is preceded by a newline so preceding output without trailing
// newline does not mess up the line.
func Fprint(w io.Writer, exitCode int) (int, error) {
	return fmt.Fprintln(w, "\n"+Sprint(exitCode)) //nolint:wrapcheck
}
