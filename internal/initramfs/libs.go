// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"bufio"
	"bytes"
	"context"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"maps"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const lddTimeout = 5 * time.Second

var (
	// ErrNotELFFile is returned if the file is not an ELF file.
	ErrNotELFFile = errors.New("not an ELF file")

	// ErrNoInterpreter is returned if an ELF file is statically linked.
	ErrNoInterpreter = errors.New("no interpreter in ELF file")
)

// LddError is returned if running ldd failed.
type LddError struct {
	Err    error
	Stderr string
}

// Error implements the [error] interface.
func (e *LddError) Error() string {
	msg := "ldd: " + e.Err.Error()
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*LddError) Is(other error) bool {
	_, ok := other.(*LddError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *LddError) Unwrap() error {
	return e.Err
}

// SharedObjects returns the paths of the shared objects the dynamically linked
// ELF file at the given path requires.
//
// It runs the "ldd" executable, which must be present on the host.
func SharedObjects(ctx context.Context, path string) ([]string, error) {
	if err := checkDynamicELF(path); err != nil {
		return nil, err
	}

	var out bytes.Buffer

	if err := runLdd(ctx, path, &out); err != nil {
		return nil, err
	}

	return parseLddOutput(&out), nil
}

// CollectLibs returns the deduplicated, sorted absolute paths of the shared
// objects required by all given files. Files that are not ELF files or are
// statically linked are ignored.
func CollectLibs(ctx context.Context, files ...string) ([]string, error) {
	libs := map[string]bool{}

	for _, file := range files {
		paths, err := SharedObjects(ctx, file)
		if errors.Is(err, ErrNotELFFile) || errors.Is(err, ErrNoInterpreter) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for _, p := range paths {
			absPath, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}

			libs[absPath] = true
		}
	}

	return slices.Sorted(maps.Keys(libs)), nil
}

func checkDynamicELF(path string) error {
	file, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			return fmt.Errorf("%w: %s", ErrNotELFFile, path)
		}

		return fmt.Errorf("open ELF file: %w", err)
	}
	defer file.Close()

	for _, prog := range file.Progs {
		if prog.Type == elf.PT_INTERP {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrNoInterpreter, path)
}

func runLdd(ctx context.Context, path string, stdout io.Writer) error {
	var stderr bytes.Buffer

	ctx, cancel := context.WithTimeout(ctx, lddTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ldd", path)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &LddError{Err: err, Stderr: stderr.String()}
	}

	return nil
}

// parseLddOutput returns the paths of all shared objects that exist as file.
// Virtual objects like the vdso are skipped.
//
// Lines have one of the formats "name => path (0xaddr)" or "name (0xaddr)".
func parseLddOutput(r io.Reader) []string {
	var paths []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())

		switch {
		case len(fields) == 4 && fields[1] == "=>":
			paths = append(paths, fields[2])
		case len(fields) == 2 && filepath.IsAbs(fields[0]):
			paths = append(paths, fields[0])
		}
	}

	return paths
}
