/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// The logger setup is global, so these tests do not run in parallel.

func setupTestLogger(t *testing.T, level Level) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "logtest")
	SetupWithConfig(&Config{
		Enabled:     true,
		Level:       level,
		Output:      fileName,
		Development: true,
	})
	t.Cleanup(func() {
		c := DefaultConfig
		SetupWithConfig(&c)
	})
	return fileName
}

func TestLogOutput(t *testing.T) { //nolint:paralleltest // global logger.
	tests := []struct {
		logMsg  string
		logFunc func(logger *Logger, msg string)
	}{
		{
			logMsg:  "info log",
			logFunc: func(l *Logger, msg string) { l.Info(msg) },
		},
		{
			logMsg:  "error log",
			logFunc: func(l *Logger, msg string) { l.Error(msg) },
		},
		{
			logMsg:  "debug log",
			logFunc: func(l *Logger, msg string) { l.Debug(msg) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.logMsg, func(t *testing.T) {
			fileName := setupTestLogger(t, Debug)
			logger := New("test")
			tc.logFunc(logger, tc.logMsg)
			requireContains(t, fileName, tc.logMsg)
			requireContains(t, fileName, "test")
		})
	}
}

func TestLevelFiltering(t *testing.T) { //nolint:paralleltest // global logger.
	fileName := setupTestLogger(t, Error)
	logger := New("filter")
	logger.Info("should be filtered")
	logger.Error("should be written")
	requireContains(t, fileName, "should be written")
	requireNotContains(t, fileName, "should be filtered")
}

func TestLoggerFollowsReconfiguration(t *testing.T) { //nolint:paralleltest // global logger.
	logger := New("reconfigured")
	fileName := setupTestLogger(t, Info)
	logger.Info("after setup")
	requireContains(t, fileName, "after setup")
}

func TestErrorStackTrace(t *testing.T) { //nolint:paralleltest // global logger.
	fileName := setupTestLogger(t, Debug)
	logger := New("test")
	logger.ErrorStackTrace(errors.New("stack trace test error"))
	// ErrorStackTrace is the name of a function expected in the stack trace
	requireContains(t, fileName, "ErrorStackTrace")
	requireContains(t, fileName, "stack trace test error")
}

func TestDisabled(t *testing.T) { //nolint:paralleltest // global logger.
	SetupWithConfig(&Config{Enabled: false})
	t.Cleanup(func() {
		c := DefaultConfig
		SetupWithConfig(&c)
	})
	require.NotPanics(t, func() { New("nop").Info("nothing") })
}

func requireContains(t *testing.T, fileName, contains string) {
	t.Helper()
	require.NoError(t, New("test").Sync())
	logData, err := os.ReadFile(fileName) //nolint:gosec // allow file name inclusion via variable
	require.NoError(t, err)
	require.Contains(t, string(logData), contains)
}

func requireNotContains(t *testing.T, fileName, contains string) {
	t.Helper()
	logData, err := os.ReadFile(fileName) //nolint:gosec // allow file name inclusion via variable
	require.NoError(t, err)
	require.NotContains(t, string(logData), contains)
}
