package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHelp(t *testing.T) {
	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "side by side")
	for _, sub := range []string{"run", "serve", "models", "config", "mcp", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "env-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "global flag --%s not registered", name)
	}

	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	require.NotNil(t, v)
	assert.Equal(t, "verbose", v.Name)
	q := rootCmd.PersistentFlags().ShorthandLookup("q")
	require.NotNil(t, q)
	assert.Equal(t, "quiet", q.Name)
}

func TestVersionDefault(t *testing.T) {
	assert.Equal(t, "dev", Version)
}

func TestVersionSubcommand(t *testing.T) {
	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "promptlab dev", strings.TrimSpace(stdout.String()))
}

func TestExitError_DefaultMessages(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{ExitPartialFailure, "some prompts failed"},
		{ExitTotalFailure, "all prompts failed"},
		{ExitInvalidArgs, "promptlab: error"},
	}
	for _, tt := range tests {
		err := exitError(tt.code, "")
		assert.Equal(t, tt.code, err.ExitCode())
		assert.Contains(t, err.Error(), tt.want)
	}

	err := exitError(ExitInvalidArgs, "bad %s", "flag")
	assert.Equal(t, "bad flag", err.Error())
}

func TestRoot_BadEnvFile(t *testing.T) {
	resetRunFlags()
	dir := isolate(t)
	// Reading a directory fails with something other than "not exist".
	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"--env-file", dir, "version"})
	t.Cleanup(func() { envFile = ".env" })

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCodeOf(t, err))
	assert.Contains(t, err.Error(), "cannot load")
}

func TestModels_Table(t *testing.T) {
	resetModelsFlags()
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"--no-color", "models"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "claude-haiku-4-5")
	assert.Contains(t, out, "gemini-2.5-flash")
}

func TestModels_JSONIncludesConfiguredModels(t *testing.T) {
	resetModelsFlags()
	dir := isolate(t)
	writeFile(t, dir, ".promptlab.yaml",
		"model: llama3.2\nproviders:\n  compat:\n    base_url: http://localhost:11434/v1\n    models: [llama3.2]\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"models", "--json"})
	require.NoError(t, cmd.Execute())

	out := stdout.Bytes()
	assert.True(t, bytes.Contains(out, []byte(`"id": "llama3.2"`)))
	assert.True(t, bytes.Contains(out, []byte(`"default": true`)))
}
