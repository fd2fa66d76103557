// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package redact strips credential values from strings before they appear in
// result rows, logs, or error messages.
package redact

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variables whose values must never
// appear in output. Providers configured with a custom key variable add it
// through Register.
var sensitiveEnvVars = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"GEMINI_API_KEY",
	"GOOGLE_API_KEY",
	"PROMPTLAB_COMPAT_API_KEY",
}

// bearerPattern matches Authorization header values echoed back by proxies.
var bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._\-]{8,}`)

var (
	mu            sync.Mutex
	cachedSecrets []string
	loaded        bool
)

func loadSecretsLocked() {
	cachedSecrets = nil
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if val != "" && len(val) >= 4 {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
	loaded = true
}

// Register adds environment variable names to the sensitive set.
func Register(envVars ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, name := range envVars {
		if name == "" {
			continue
		}
		known := false
		for _, existing := range sensitiveEnvVars {
			if existing == name {
				known = true
				break
			}
		}
		if !known {
			sensitiveEnvVars = append(sensitiveEnvVars, name)
			loaded = false
		}
	}
}

// Reload drops the cached secret values so the next call to String reads
// the environment again.
func Reload() {
	mu.Lock()
	defer mu.Unlock()
	loaded = false
	cachedSecrets = nil
}

// String replaces every known secret value and bearer token in s with
// "[REDACTED]". Secret values are read from the environment once and cached.
func String(s string) string {
	mu.Lock()
	if !loaded {
		loadSecretsLocked()
	}
	secrets := cachedSecrets
	mu.Unlock()

	for _, secret := range secrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return bearerPattern.ReplaceAllString(s, "${1}[REDACTED]")
}
