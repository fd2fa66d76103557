package llm

import (
	"context"
	"os"
)

// Endpoint holds per-backend connection overrides.
type Endpoint struct {
	// BaseURL replaces the backend's public endpoint when non-empty.
	BaseURL string

	// APIKeyEnv names the environment variable holding the key. Empty means
	// the backend's standard variable.
	APIKeyEnv string
}

// Endpoints maps backends to their connection overrides.
type Endpoints map[Backend]Endpoint

// NewFactories returns one lazy factory per backend, honoring endpoint
// overrides.
func NewFactories(endpoints Endpoints) map[Backend]Factory {
	opts := func(b Backend) []Option {
		ep := endpoints[b]
		var o []Option
		if ep.BaseURL != "" {
			o = append(o, WithBaseURL(ep.BaseURL))
		}
		if ep.APIKeyEnv != "" && b != BackendCompat {
			o = append(o, WithAPIKey(os.Getenv(ep.APIKeyEnv)))
		}
		return o
	}

	return map[Backend]Factory{
		BackendOpenAI: func(context.Context) (Provider, error) {
			return NewOpenAIProvider(opts(BackendOpenAI)...), nil
		},
		BackendAnthropic: func(context.Context) (Provider, error) {
			return NewAnthropicProvider(opts(BackendAnthropic)...)
		},
		BackendGemini: func(ctx context.Context) (Provider, error) {
			return NewGeminiProvider(ctx, opts(BackendGemini)...)
		},
		BackendCompat: func(context.Context) (Provider, error) {
			keyEnv := endpoints[BackendCompat].APIKeyEnv
			if keyEnv == "" {
				keyEnv = DefaultCompatKeyEnv
			}
			return NewCompatProvider(keyEnv, opts(BackendCompat)...), nil
		},
	}
}

// NewDefaultRouter builds a router over catalog using NewFactories.
func NewDefaultRouter(catalog *Catalog, endpoints Endpoints) *Router {
	return NewRouter(catalog, NewFactories(endpoints))
}
