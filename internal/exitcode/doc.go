// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode defines how the init communicates the exit code of its
// workload to the host and which status it uses for fatal stops.
package exitcode
