// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmdline

import (
	"fmt"
	"maps"
	"slices"

	"github.com/joho/godotenv"
)

// ParseEnv parses dotenv formatted data into an [Environment].
//
// Entries are sorted by key. Empty data results in an empty [Environment].
func ParseEnv(data []byte) (Environment, error) {
	vars, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	env := make(Environment, 0, len(vars))
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		env = append(env, key+"="+vars[key])
	}

	return env, nil
}
