package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptlab/internal/config"
)

func TestConfigSubcommands_AreRegistered(t *testing.T) {
	subs := map[string]bool{}
	for _, cmd := range configCmd.Commands() {
		subs[cmd.Name()] = true
	}
	assert.True(t, subs["get"])
	assert.True(t, subs["set"])
	assert.True(t, subs["list"])
}

func TestConfigGet_TopLevel(t *testing.T) {
	resetConfigFlags()
	dir := isolate(t)
	writeFile(t, dir, config.FileName, "model: gpt-4.1\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "model"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "gpt-4.1\n", stdout.String())
}

func TestConfigGet_NestedMapPrintsYAML(t *testing.T) {
	resetConfigFlags()
	dir := isolate(t)
	writeFile(t, dir, config.FileName, "providers:\n  compat:\n    base_url: http://localhost:11434/v1\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "providers.compat"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "base_url: http://localhost:11434/v1")
}

func TestConfigGet_FallsBackToGlobal(t *testing.T) {
	resetConfigFlags()
	isolate(t)
	globalDir := config.GlobalConfigDir()
	require.NoError(t, os.MkdirAll(globalDir, 0o750))
	writeFile(t, globalDir, "config.yaml", "temperature: 0.3\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "temperature"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "0.3\n", stdout.String())
}

func TestConfigGet_UnknownKey(t *testing.T) {
	resetConfigFlags()
	isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "model"})
	assert.Error(t, cmd.Execute())
}

func TestConfigSet_WritesRepoFile(t *testing.T) {
	resetConfigFlags()
	dir := isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "max_output_tokens", "512"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Set max_output_tokens = 512")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.MaxOutputTokens)
}

func TestConfigSet_ProviderModelsList(t *testing.T) {
	resetConfigFlags()
	dir := isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "providers.compat.models", "llama3.2,qwen2.5"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.2", "qwen2.5"}, cfg.Providers["compat"].Models)
}

func TestConfigSet_Global(t *testing.T) {
	resetConfigFlags()
	dir := isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "--global", "output_format", "json"})
	require.NoError(t, cmd.Execute())

	global, err := config.LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, "json", global.OutputFormat)
	_, statErr := os.Stat(filepath.Join(dir, config.FileName))
	assert.True(t, os.IsNotExist(statErr), "repo config must not be created")
}

func TestConfigSet_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"nope", "1"}},
		{"out of range", []string{"temperature", "3"}},
		{"unknown format", []string{"output_format", "xml"}},
		{"unknown backend", []string{"providers.mistral.base_url", "http://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfigFlags()
			dir := isolate(t)

			cmd, _, _ := newTestCmd()
			cmd.SetArgs(append([]string{"config", "set"}, tt.args...))
			require.Error(t, cmd.Execute())

			_, statErr := os.Stat(filepath.Join(dir, config.FileName))
			assert.True(t, os.IsNotExist(statErr), "invalid value must not be written")
		})
	}
}

func TestConfigList(t *testing.T) {
	resetConfigFlags()
	dir := isolate(t)
	writeFile(t, dir, config.FileName, "model: gpt-4.1\n")
	globalDir := config.GlobalConfigDir()
	require.NoError(t, os.MkdirAll(globalDir, 0o750))
	writeFile(t, globalDir, "config.yaml", "model: gpt-4o-mini\ntimeout: 30s\n")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"--no-color", "config", "list"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Regexp(t, `model\s+gpt-4\.1\s+repo`, out)
	assert.Regexp(t, `timeout\s+30s\s+global`, out)
}

func TestConfigList_Empty(t *testing.T) {
	resetConfigFlags()
	isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "No configuration set.")
}
