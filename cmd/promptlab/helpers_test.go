package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/runner"
	"github.com/davetashner/promptlab/internal/testable"
)

// newTestCmd redirects the root command's output to fresh buffers. Cobra
// keeps a command's context between executions, so every command gets a
// fresh one.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	resetContexts(rootCmd)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(new(bytes.Buffer))
	return rootCmd, stdout, stderr
}

func resetContexts(c *cobra.Command) {
	c.SetContext(context.Background())
	for _, sub := range c.Commands() {
		resetContexts(sub)
	}
}

// isolate runs the test in an empty directory with an empty global config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return dir
}

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

// withMockProvider routes every prompt to a mock provider.
func withMockProvider(t *testing.T, responses ...llm.MockResponse) *llm.MockProvider {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	orig := newExecutor
	newExecutor = func(_ *config.Config, _ *llm.Catalog, timeout time.Duration) runner.Executor {
		return runner.NewAdapter(mock, runner.WithTimeout(timeout))
	}
	t.Cleanup(func() { newExecutor = orig })
	return mock
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
