package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/output"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	if cfg.MaxOutputTokens != 0 && (cfg.MaxOutputTokens < lab.MinMaxOutputTokens || cfg.MaxOutputTokens > lab.MaxMaxOutputTokens) {
		errs = append(errs, fmt.Sprintf("max_output_tokens: must be between %d and %d, got %d",
			lab.MinMaxOutputTokens, lab.MaxMaxOutputTokens, cfg.MaxOutputTokens))
	}

	if t := cfg.Temperature; t != nil && (*t < lab.MinTemperature || *t > lab.MaxTemperature) {
		errs = append(errs, fmt.Sprintf("temperature: must be between %.1f and %.1f, got %g",
			lab.MinTemperature, lab.MaxTemperature, *t))
	}

	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err != nil {
			errs = append(errs, fmt.Sprintf("timeout: %v", err))
		} else if d < 0 {
			errs = append(errs, fmt.Sprintf("timeout: must be non-negative, got %s", cfg.Timeout))
		}
	}

	for name, pc := range cfg.Providers {
		if !isBackend(name) {
			errs = append(errs, fmt.Sprintf("providers.%s: unknown backend (must be one of %s)", name, backendList()))
			continue
		}
		if pc.BaseURL != "" {
			if u, err := url.Parse(pc.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Sprintf("providers.%s.base_url: invalid URL %q", name, pc.BaseURL))
			}
		}
		for _, id := range pc.Models {
			if strings.TrimSpace(id) == "" {
				errs = append(errs, fmt.Sprintf("providers.%s.models: empty model ID", name))
			}
		}
	}

	// The model must exist once configured providers have added theirs.
	if cfg.Model != "" {
		if err := cfg.Catalog().Validate(cfg.Model); err != nil {
			errs = append(errs, fmt.Sprintf("model: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func isBackend(name string) bool {
	for _, b := range llm.Backends {
		if string(b) == name {
			return true
		}
	}
	return false
}

func backendList() string {
	names := make([]string, len(llm.Backends))
	for i, b := range llm.Backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}
