package main

import (
	"fmt"
	"time"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/runner"
)

// newExecutor builds the prompt executor for cfg. Tests replace it to avoid
// network calls.
var newExecutor = func(cfg *config.Config, catalog *llm.Catalog, timeout time.Duration) runner.Executor {
	router := llm.NewDefaultRouter(catalog, cfg.Endpoints())
	return runner.NewAdapter(router, runner.WithTimeout(timeout))
}

// loadConfig loads and validates the effective config for the working
// directory.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadEffective(".")
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "promptlab: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "promptlab: %v", err)
	}
	return cfg, nil
}

// resolveTimeout returns the flag value when set, else the config's.
func resolveTimeout(cfg *config.Config, flag time.Duration, flagSet bool) (time.Duration, error) {
	if flagSet {
		if flag < 0 {
			return 0, fmt.Errorf("--timeout must be non-negative (got %s)", flag)
		}
		return flag, nil
	}
	return cfg.RequestTimeout()
}
