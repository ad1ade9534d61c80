// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysinit provides the system setup steps an init program runs before
// it starts its workload: mounting the special file systems, creating
// well-known symlinks in /dev, bringing network interfaces up and becoming the
// reaper of orphaned processes.
//
// The steps are composed into an [Initializer] that runs them in order:
//
//	api := sysinit.Initializer{
//		Log: logger,
//		Funcs: []sysinit.Func{
//			sysinit.WithMountPoints(sysinit.SystemMountPoints()),
//			sysinit.WithSymlinks(sysinit.DevSymlinks()),
//			sysinit.WithInterfaceUp("lo"),
//		},
//	}
//
//	if err := api.Init(); err != nil {
//		// handle
//	}
//
// Pay attention to the proper order: symlinks should be created after the
// dependent mounts.
package sysinit
