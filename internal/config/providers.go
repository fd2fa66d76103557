// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package config

import (
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/redact"
)

// Catalog builds the model catalog: the built-in models followed by any
// models listed under providers.<backend>.models.
func (c *Config) Catalog() *llm.Catalog {
	var extra []llm.Model
	for _, b := range llm.Backends {
		for _, id := range c.Providers[string(b)].Models {
			extra = append(extra, llm.Model{ID: id, Backend: b})
		}
	}
	return llm.NewCatalog(extra...)
}

// Endpoints returns the per-backend connection overrides. Custom key
// variables are registered with the redactor so their values never leak.
func (c *Config) Endpoints() llm.Endpoints {
	eps := make(llm.Endpoints)
	for _, b := range llm.Backends {
		pc, ok := c.Providers[string(b)]
		if !ok {
			continue
		}
		if pc.APIKeyEnv != "" {
			redact.Register(pc.APIKeyEnv)
		}
		eps[b] = llm.Endpoint{BaseURL: pc.BaseURL, APIKeyEnv: pc.APIKeyEnv}
	}
	return eps
}

// Router builds a lazily-connecting router for this config.
func (c *Config) Router() *llm.Router {
	return llm.NewDefaultRouter(c.Catalog(), c.Endpoints())
}
