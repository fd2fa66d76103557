// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Backend names a family of hosted inference APIs.
type Backend string

// Supported backends.
const (
	BackendOpenAI    Backend = "openai"
	BackendAnthropic Backend = "anthropic"
	BackendGemini    Backend = "gemini"
	BackendCompat    Backend = "compat"
)

// Backends lists every backend in display order.
var Backends = []Backend{BackendOpenAI, BackendAnthropic, BackendGemini, BackendCompat}

// Model is one selectable entry in the model catalog.
type Model struct {
	ID      string  `json:"id"`
	Backend Backend `json:"backend"`
}

// DefaultModels is the fixed model set offered when nothing else is
// configured. The first entry is the default selection.
var DefaultModels = []Model{
	{ID: "gpt-4o-mini", Backend: BackendOpenAI},
	{ID: "gpt-4.1-mini", Backend: BackendOpenAI},
	{ID: "gpt-4.1", Backend: BackendOpenAI},
	{ID: "claude-haiku-4-5", Backend: BackendAnthropic},
	{ID: "claude-sonnet-4-5", Backend: BackendAnthropic},
	{ID: "gemini-2.5-flash", Backend: BackendGemini},
	{ID: "gemini-2.5-pro", Backend: BackendGemini},
	{ID: defaultCompatModel, Backend: BackendCompat},
}

// Catalog is an ordered, immutable set of selectable models.
type Catalog struct {
	models []Model
	byID   map[string]Model
}

// NewCatalog builds a catalog from DefaultModels followed by extra. A later
// entry with a duplicate ID replaces the backend of the earlier one but keeps
// its position.
func NewCatalog(extra ...Model) *Catalog {
	c := &Catalog{byID: make(map[string]Model)}
	for _, m := range append(append([]Model(nil), DefaultModels...), extra...) {
		if m.ID == "" {
			continue
		}
		if _, dup := c.byID[m.ID]; dup {
			for i := range c.models {
				if c.models[i].ID == m.ID {
					c.models[i] = m
				}
			}
		} else {
			c.models = append(c.models, m)
		}
		c.byID[m.ID] = m
	}
	return c
}

// Lookup returns the model with the given ID.
func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Models returns a copy of the catalog in display order.
func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// IDs returns the model IDs in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.models))
	for i, m := range c.models {
		ids[i] = m.ID
	}
	return ids
}

// Validate returns an error naming the available models if id is unknown.
func (c *Catalog) Validate(id string) error {
	if _, ok := c.byID[id]; ok {
		return nil
	}
	ids := c.IDs()
	sort.Strings(ids)
	return fmt.Errorf("unknown model %q (available: %s)", id, strings.Join(ids, ", "))
}
