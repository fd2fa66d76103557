// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davetashner/promptlab/internal/testable"
)

// GlobalConfigDir returns the directory for global promptlab configuration.
// It uses $XDG_CONFIG_HOME/promptlab if set, otherwise ~/.config/promptlab.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "promptlab")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "promptlab")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	return LoadFile(testable.DefaultFS, GlobalConfigPath())
}

// LoadEffective loads the global config and the repo config in dir and
// layers the repo config on top.
func LoadEffective(dir string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	repo, err := Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading repo config: %w", err)
	}
	return Combine(global, repo), nil
}
