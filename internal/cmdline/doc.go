// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmdline builds the argument and environment lists of the init
// process from the command specification compiled into the init binary.
package cmdline
