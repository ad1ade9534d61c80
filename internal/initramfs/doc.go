// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initramfs builds initramfs archives for the init.
//
// An [Archive] always contains the init binary at /init. Additional files,
// directories and symbolic links are added as [Entry]s, usually read from a
// YAML [Manifest]. Parent directories are created implicitly.
package initramfs
