// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"fmt"
	"sync"
)

// Factory constructs the provider for one backend.
type Factory func(ctx context.Context) (Provider, error)

// Router dispatches each request to the provider serving its model.
// Providers are built on first use and reused afterwards, so a missing
// credential surfaces as the error of the request that needed it.
type Router struct {
	catalog   *Catalog
	factories map[Backend]Factory

	mu        sync.Mutex
	providers map[Backend]Provider
}

// Compile-time check that Router satisfies the Provider interface.
var _ Provider = (*Router)(nil)

// NewRouter creates a router over catalog with one factory per backend.
func NewRouter(catalog *Catalog, factories map[Backend]Factory) *Router {
	return &Router{
		catalog:   catalog,
		factories: factories,
		providers: make(map[Backend]Provider),
	}
}

// Catalog returns the router's model catalog.
func (r *Router) Catalog() *Catalog {
	return r.catalog
}

// Complete resolves req.Model through the catalog and forwards the request.
func (r *Router) Complete(ctx context.Context, req Request) (*Response, error) {
	m, ok := r.catalog.Lookup(req.Model)
	if !ok {
		return nil, fmt.Errorf("llm: %w", r.catalog.Validate(req.Model))
	}

	p, err := r.provider(ctx, m.Backend)
	if err != nil {
		return nil, err
	}
	return p.Complete(ctx, req)
}

func (r *Router) provider(ctx context.Context, b Backend) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[b]; ok {
		return p, nil
	}
	factory, ok := r.factories[b]
	if !ok {
		return nil, fmt.Errorf("llm: no provider configured for backend %q", b)
	}
	p, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	r.providers[b] = p
	return p, nil
}
