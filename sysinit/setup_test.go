// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit_test

import (
	"errors"
	"testing"

	"github.com/aibor/starinit/sysinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializer_Init(t *testing.T) {
	tests := []struct {
		name          string
		funcs         func(calls *[]int) []sysinit.Func
		expectedErr   error
		expectedCalls []int
		expectedLogs  int
	}{
		{
			name: "none",
			funcs: func(_ *[]int) []sysinit.Func {
				return nil
			},
		},
		{
			name: "in order",
			funcs: func(calls *[]int) []sysinit.Func {
				return []sysinit.Func{
					record(calls, 1, nil),
					record(calls, 2, nil),
					record(calls, 3, nil),
				}
			},
			expectedCalls: []int{1, 2, 3},
		},
		{
			name: "stops at first error",
			funcs: func(calls *[]int) []sysinit.Func {
				return []sysinit.Func{
					record(calls, 1, nil),
					record(calls, 2, assert.AnError),
					record(calls, 3, errors.New("third")),
				}
			},
			expectedErr:   assert.AnError,
			expectedCalls: []int{1, 2},
		},
		{
			name: "optional mount errors are logged",
			funcs: func(calls *[]int) []sysinit.Func {
				optional := sysinit.OptionalMountError{assert.AnError, assert.AnError}

				return []sysinit.Func{
					record(calls, 1, optional),
					record(calls, 2, nil),
				}
			},
			expectedCalls: []int{1, 2},
			expectedLogs:  2,
		},
		{
			name: "panic with error",
			funcs: func(calls *[]int) []sysinit.Func {
				return []sysinit.Func{
					record(calls, 1, nil),
					func() error { panic(assert.AnError) },
					record(calls, 3, nil),
				}
			},
			expectedErr:   assert.AnError,
			expectedCalls: []int{1},
		},
		{
			name: "panic without error",
			funcs: func(_ *[]int) []sysinit.Func {
				return []sysinit.Func{
					func() error { panic(true) },
				}
			},
			expectedErr: sysinit.ErrPanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []int

			core, logs := observer.New(zapcore.InfoLevel)

			api := sysinit.Initializer{
				Log:   zap.New(core),
				Funcs: tt.funcs(&calls),
			}

			err := api.Init()
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expectedCalls, calls)
			assert.Equal(t, tt.expectedLogs, logs.FilterMessage("optional mount failed").Len())
		})
	}
}

func TestInitializer_Init_NilLogger(t *testing.T) {
	api := sysinit.Initializer{
		Funcs: []sysinit.Func{
			func() error { return sysinit.OptionalMountError{assert.AnError} },
		},
	}

	assert.NoError(t, api.Init())
}

func record(calls *[]int, id int, err error) sysinit.Func {
	return func() error {
		*calls = append(*calls, id)
		return err
	}
}
