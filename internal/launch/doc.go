// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package launch starts the single top-level process of the system and waits
// until it and everything it spawned has terminated.
package launch
