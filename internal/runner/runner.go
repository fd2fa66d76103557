// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package runner executes a single prompt against an LLM provider and
// normalizes the response into a lab.RunResult.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/llm"
)

// Executor runs one prompt under a generation config.
type Executor interface {
	Execute(ctx context.Context, prompt string, cfg lab.GenerationConfig) (lab.RunResult, error)
}

// Adapter implements Executor with exactly one provider call per prompt.
type Adapter struct {
	provider llm.Provider
	timeout  time.Duration

	// now is overridden in tests.
	now func() time.Time
}

// Compile-time check that Adapter satisfies the Executor interface.
var _ Executor = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTimeout bounds each provider call. Zero means no limit beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// WithClock replaces time.Now for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// NewAdapter creates an Adapter over provider.
func NewAdapter(provider llm.Provider, opts ...Option) *Adapter {
	a := &Adapter{provider: provider, now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Execute sends prompt to the provider with cfg's model, token limit, and
// temperature, and measures the wall-clock latency of the call. Any provider
// failure is returned as-is behind a wrapping prefix; nothing is retried.
func (a *Adapter) Execute(ctx context.Context, prompt string, cfg lab.GenerationConfig) (lab.RunResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := a.now()
	resp, err := a.provider.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxOutputTokens,
		Temperature: llm.Float(cfg.Temperature),
	})
	latency := a.now().Sub(start)
	if err != nil {
		return lab.RunResult{}, fmt.Errorf("runner: execute: %w", err)
	}
	if latency < 0 {
		latency = 0
	}

	result := lab.RunResult{
		OutputText: resp.Text(),
		Latency:    latency,
	}
	if resp.Usage != nil {
		total := resp.Usage.TotalTokens
		result.TotalTokens = &total
	}
	return result, nil
}
