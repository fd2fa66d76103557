// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package lab defines the core domain types for promptlab.
package lab

import (
	"fmt"
	"math"
	"time"
)

// Generation parameter bounds and defaults.
const (
	MinMaxOutputTokens = 32
	MaxMaxOutputTokens = 2048
	MaxTokensStep      = 32

	MinTemperature  = 0.0
	MaxTemperature  = 2.0
	TemperatureStep = 0.1

	DefaultModel           = "gpt-4o-mini"
	DefaultMaxOutputTokens = 256
	DefaultTemperature     = 0.7
)

// ErrorMarker prefixes the output text of a row whose invocation failed.
const ErrorMarker = "ERROR: "

// GenerationConfig holds the parameters shared read-only by every prompt in
// a single run.
type GenerationConfig struct {
	Model           string  `json:"model" yaml:"model"`
	MaxOutputTokens int     `json:"max_output_tokens" yaml:"max_output_tokens"`
	Temperature     float64 `json:"temperature" yaml:"temperature"`
}

// DefaultGenerationConfig returns the configuration used when nothing else is
// configured.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:           DefaultModel,
		MaxOutputTokens: DefaultMaxOutputTokens,
		Temperature:     DefaultTemperature,
	}
}

// Validate checks the numeric bounds of the config. Model membership is
// checked by the caller against a model catalog.
func (c GenerationConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model: must not be empty")
	}
	if c.MaxOutputTokens < MinMaxOutputTokens || c.MaxOutputTokens > MaxMaxOutputTokens {
		return fmt.Errorf("max_output_tokens: must be between %d and %d, got %d",
			MinMaxOutputTokens, MaxMaxOutputTokens, c.MaxOutputTokens)
	}
	if math.IsNaN(c.Temperature) || c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		return fmt.Errorf("temperature: must be between %.1f and %.1f, got %g",
			MinTemperature, MaxTemperature, c.Temperature)
	}
	return nil
}

// RunResult is the normalized outcome of one successful invocation.
type RunResult struct {
	// OutputText is the generated text. It may be empty.
	OutputText string

	// Latency is the wall-clock duration of the remote call.
	Latency time.Duration

	// TotalTokens is nil when the backend did not report usage.
	TotalTokens *int

	// CostUSD is always nil; pricing is not computed.
	CostUSD *float64
}

// Outcome is the result of one invocation: exactly one of a RunResult or an
// error.
type Outcome struct {
	Result RunResult
	Err    error
}

// Success wraps a RunResult as a successful Outcome.
func Success(r RunResult) Outcome { return Outcome{Result: r} }

// Failure wraps an error as a failed Outcome.
func Failure(err error) Outcome { return Outcome{Err: err} }

// Failed reports whether the invocation failed.
func (o Outcome) Failed() bool { return o.Err != nil }
