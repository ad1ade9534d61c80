// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fsctx provides the filesystem context of the init: the single,
// lock-guarded handle on the root directory of the system and its mount table.
//
// A [Context] is created once during bootstrap and handed to every component
// that needs to look at or change the filesystem tree.
package fsctx
