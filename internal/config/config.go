// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package config handles .promptlab.yaml configuration files.
package config

// Config represents the contents of a .promptlab.yaml file. Zero values mean
// "not set" and fall through to the next layer.
type Config struct {
	Model           string                    `yaml:"model,omitempty"`
	MaxOutputTokens int                       `yaml:"max_output_tokens,omitempty"`
	Temperature     *float64                  `yaml:"temperature,omitempty"`
	OutputFormat    string                    `yaml:"output_format,omitempty"`
	Timeout         string                    `yaml:"timeout,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	Serve           ServeConfig               `yaml:"serve,omitempty"`
}

// ProviderConfig holds per-backend settings in the config file.
type ProviderConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Models adds model IDs served by this backend to the catalog.
	Models []string `yaml:"models,omitempty"`
}

// ServeConfig holds settings for the interactive web surface.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// FileName is the expected config file name in the working directory.
const FileName = ".promptlab.yaml"

// DefaultServeAddr is the listen address used when serve.addr is unset.
const DefaultServeAddr = "127.0.0.1:8501"
