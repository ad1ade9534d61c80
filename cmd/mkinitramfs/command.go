// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aibor/starinit/internal/initramfs"
	"github.com/spf13/cobra"
)

// ErrInvalidFileFlag is returned for a --file value not in the form dst=src.
var ErrInvalidFileFlag = errors.New("file must be given as dst=src")

const stdoutName = "-"

type options struct {
	init     string
	manifest string
	files    []string
	output   string
	libs     bool
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "mkinitramfs --init <binary> [flags]",
		Short: "Build an initramfs archive with the init binary",
		Long: `Build a newc cpio initramfs archive. The init binary is added as /init.
Additional files, directories and symbolic links are read from a YAML manifest
and --file flags. Parent directories are created implicitly.`,
		Example: `  mkinitramfs --init ./init --file /bin/busybox=/usr/bin/busybox -o initramfs.cpio
  mkinitramfs --init ./init --manifest files.yaml > initramfs.cpio`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.init, "init", "", "init binary to add as /init")
	flags.StringVarP(&opts.manifest, "manifest", "m", "", "YAML manifest with additional entries")
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "regular file to add as dst=src, may be repeated")
	flags.StringVarP(&opts.output, "output", "o", stdoutName, "output file, - for stdout")
	flags.BoolVar(&opts.libs, "libs", false, "add shared objects required by dynamically linked files (requires ldd)")

	_ = cmd.MarkFlagRequired("init")

	return cmd
}

func run(ctx context.Context, stdout io.Writer, opts options) error {
	initSource, err := filepath.Abs(opts.init)
	if err != nil {
		return fmt.Errorf("init path: %w", err)
	}

	archive := initramfs.New(initSource)

	if opts.manifest != "" {
		entries, err := readManifest(opts.manifest)
		if err != nil {
			return err
		}

		if err := archive.Add(entries...); err != nil {
			return fmt.Errorf("manifest %s: %w", opts.manifest, err)
		}
	}

	for _, value := range opts.files {
		entry, err := parseFileFlag(value)
		if err != nil {
			return err
		}

		if err := archive.Add(entry); err != nil {
			return fmt.Errorf("file %s: %w", value, err)
		}
	}

	if opts.libs {
		libs, err := initramfs.CollectLibs(ctx, archive.Sources()...)
		if err != nil {
			return fmt.Errorf("collect libs: %w", err)
		}

		if err := archive.AddLibs(libs...); err != nil {
			return fmt.Errorf("add libs: %w", err)
		}
	}

	if opts.output == stdoutName {
		return archive.WriteCPIO(stdout, os.DirFS("/"))
	}

	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := archive.WriteCPIO(out, os.DirFS("/")); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return nil
}

// readManifest reads the manifest file. Relative sources are resolved relative
// to the directory of the manifest.
func readManifest(path string) ([]initramfs.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	manifest, err := initramfs.ParseManifest(file)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("manifest directory: %w", err)
	}

	for idx, entry := range manifest.Files {
		if entry.Source != "" && !filepath.IsAbs(entry.Source) {
			manifest.Files[idx].Source = filepath.Join(baseDir, entry.Source)
		}
	}

	return manifest.Files, nil
}

// parseFileFlag parses a dst=src value into a regular file [initramfs.Entry].
func parseFileFlag(value string) (initramfs.Entry, error) {
	dst, src, found := strings.Cut(value, "=")
	if !found || dst == "" || src == "" {
		return initramfs.Entry{}, fmt.Errorf("%w: %q", ErrInvalidFileFlag, value)
	}

	source, err := filepath.Abs(src)
	if err != nil {
		return initramfs.Entry{}, fmt.Errorf("source path: %w", err)
	}

	return initramfs.Entry{Path: dst, Source: source}, nil
}
