/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/decentralized-trust-research/tiered-verifier/utils/logging"
)

// CommandTest is a struct that represents a CMD unit test.
type CommandTest struct {
	Name             string
	Args             []string
	CmdLoggerOutputs []string
	CmdStdOutput     []string
	// ErrContains is the expected error text. Empty expects success.
	ErrContains string
	// Config is YAML content passed to the command. It is merged after the test logging config.
	Config string
	// NoConfig skips the --config flag, for commands that do not accept it.
	NoConfig bool
	// LongRunning commands are canceled once the expected outputs appear.
	LongRunning bool
}

// UnitTestRunner is a function that runs a unit test with the requested parameters passed in CommandTest structure.
func UnitTestRunner(t *testing.T, cmd *cobra.Command, test CommandTest) {
	t.Helper()
	// Set new logger with the config setup.
	dir := t.TempDir()
	loggerPath := filepath.Join(dir, "logger-output.txt")
	logConfig := &logging.Config{
		Enabled:     true,
		Level:       logging.Debug,
		Caller:      true,
		Development: true,
		Output:      loggerPath,
	}
	logging.SetupWithConfig(logConfig)

	args := test.Args
	if !test.NoConfig {
		configPaths := []string{writeYaml(t, filepath.Join(dir, "logging.yaml"), map[string]any{"logging": logConfig})}
		if test.Config != "" {
			userPath := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(userPath, []byte(test.Config), 0o600))
			configPaths = append(configPaths, userPath)
		}
		args = append(args, "--config", strings.Join(configPaths, ","))
	}
	cmd.SetArgs(args)

	// Creating new buffers for the cmd stdout and stderr and redirect the CMD output.
	cmdStdOut := &syncBuffer{}
	var cmdStdErr bytes.Buffer
	cmd.SetOut(cmdStdOut)
	cmd.SetErr(&cmdStdErr)

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Minute)
	t.Cleanup(cancel)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		t.Log("Starting command")
		defer t.Log("Command exited")
		defer wg.Done()
		_, err := cmd.ExecuteContextC(ctx)
		if test.ErrContains == "" {
			assert.NoError(t, err)
		} else {
			assert.ErrorContains(t, err, test.ErrContains)
		}
	}()

	if test.LongRunning {
		assert.Eventually(t, func() bool {
			return len(getMissing(test, cmdStdOut.String(), loggerPath)) == 0
		}, time.Minute, 100*time.Millisecond)
		t.Log("Stopping command, and waiting for finish")
		cancel()
	}
	wg.Wait()
	missing := getMissing(test, cmdStdOut.String(), loggerPath)
	assert.Empty(t, missing)
	if !t.Failed() {
		return
	}

	t.Log("Test finished with error")
	t.Log("STD OUT:\n", cmdStdOut.String())
	t.Log("STD ERR:\n", cmdStdErr.String())
	logOut, err := os.ReadFile(filepath.Clean(loggerPath))
	if err == nil {
		t.Log("LOG:\n", string(logOut))
	}
}

func getMissing(test CommandTest, cmdStdOut, loggerPath string) (missing []string) {
	for _, out := range test.CmdStdOutput {
		if !strings.Contains(cmdStdOut, out) {
			missing = append(missing, out)
		}
	}
	if len(test.CmdLoggerOutputs) == 0 {
		return missing
	}
	logOut, err := os.ReadFile(filepath.Clean(loggerPath))
	if err != nil {
		return append(missing, loggerPath)
	}
	for _, loggerLine := range test.CmdLoggerOutputs {
		if !strings.Contains(string(logOut), loggerLine) {
			missing = append(missing, loggerLine)
		}
	}
	return missing
}

func writeYaml(t *testing.T, path string, content any) string {
	t.Helper()
	raw, err := yaml.Marshal(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

// syncBuffer is a bytes.Buffer that can be read while the command writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
