package config

import (
	"time"

	"github.com/davetashner/promptlab/internal/lab"
)

// Overrides carries generation values set explicitly on the command line.
// A zero Model or MaxOutputTokens and a nil Temperature mean "not set".
type Overrides struct {
	Model           string
	MaxOutputTokens int
	Temperature     *float64
}

// Merge resolves the generation config for a run. CLI values take
// precedence, then the file config, then the built-in defaults.
func Merge(fileCfg *Config, cli Overrides) lab.GenerationConfig {
	result := lab.DefaultGenerationConfig()

	if fileCfg.Model != "" {
		result.Model = fileCfg.Model
	}
	if fileCfg.MaxOutputTokens != 0 {
		result.MaxOutputTokens = fileCfg.MaxOutputTokens
	}
	if fileCfg.Temperature != nil {
		result.Temperature = *fileCfg.Temperature
	}

	if cli.Model != "" {
		result.Model = cli.Model
	}
	if cli.MaxOutputTokens != 0 {
		result.MaxOutputTokens = cli.MaxOutputTokens
	}
	if cli.Temperature != nil {
		result.Temperature = *cli.Temperature
	}

	return result
}

// Combine layers repo over global. Only non-zero repo values override.
func Combine(global, repo *Config) *Config {
	merged := *global

	if repo.Model != "" {
		merged.Model = repo.Model
	}
	if repo.MaxOutputTokens != 0 {
		merged.MaxOutputTokens = repo.MaxOutputTokens
	}
	if repo.Temperature != nil {
		merged.Temperature = repo.Temperature
	}
	if repo.OutputFormat != "" {
		merged.OutputFormat = repo.OutputFormat
	}
	if repo.Timeout != "" {
		merged.Timeout = repo.Timeout
	}
	if repo.Serve.Addr != "" {
		merged.Serve.Addr = repo.Serve.Addr
	}

	// Repo overrides global per provider.
	if len(repo.Providers) > 0 {
		providers := make(map[string]ProviderConfig, len(global.Providers)+len(repo.Providers))
		for name, pc := range global.Providers {
			providers[name] = pc
		}
		for name, pc := range repo.Providers {
			providers[name] = pc
		}
		merged.Providers = providers
	}

	return &merged
}

// RequestTimeout parses the timeout setting. An unset timeout is zero,
// meaning no per-request bound.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// ServeAddr returns the configured listen address or DefaultServeAddr.
func (c *Config) ServeAddr() string {
	if c.Serve.Addr != "" {
		return c.Serve.Addr
	}
	return DefaultServeAddr
}
