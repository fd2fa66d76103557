// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"fmt"
	"math"
	"os"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultCompatBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultCompatBaseURL = "https://api.groq.com/openai/v1"

	// DefaultCompatKeyEnv is read when no key variable is configured.
	DefaultCompatKeyEnv = "PROMPTLAB_COMPAT_API_KEY"

	defaultCompatModel = "llama-3.3-70b-versatile"
)

// CompatProvider implements Provider for any server speaking the OpenAI
// Chat Completions protocol (Groq, Ollama, vLLM, LiteLLM).
type CompatProvider struct {
	client *goopenai.Client
	model  string
}

// Compile-time check that CompatProvider satisfies the Provider interface.
var _ Provider = (*CompatProvider)(nil)

// NewCompatProvider creates a chat-completions provider. keyEnv names the
// environment variable holding the key when WithAPIKey is not given; local
// servers such as Ollama accept an empty key.
func NewCompatProvider(keyEnv string, opts ...Option) *CompatProvider {
	cfg := newProviderConfig(defaultCompatModel, opts)

	apiKey := cfg.apiKey
	if apiKey == "" && keyEnv != "" {
		apiKey = os.Getenv(keyEnv)
	}

	cc := goopenai.DefaultConfig(apiKey)
	cc.BaseURL = DefaultCompatBaseURL
	if cfg.baseURL != "" {
		cc.BaseURL = cfg.baseURL
	}
	if cfg.httpClient != nil {
		cc.HTTPClient = cfg.httpClient
	}

	return &CompatProvider{
		client: goopenai.NewClientWithConfig(cc),
		model:  cfg.model,
	}
}

// Complete sends the prompt as one user message to /chat/completions.
func (p *CompatProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	creq := goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		creq.Temperature = float32(*req.Temperature)
		// The request struct drops a zero temperature (omitempty).
		if creq.Temperature == 0 {
			creq.Temperature = math.SmallestNonzeroFloat32
		}
	}

	r, err := p.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, fmt.Errorf("compat: completion failed: %w", err)
	}

	resp := &Response{Model: r.Model}
	if len(r.Choices) > 0 {
		resp.Content = r.Choices[0].Message.Content
		resp.HasContent = true
	} else {
		resp.Raw = fmt.Sprintf("%+v", r)
	}

	// The chat response has no way to mark usage as absent; all-zero counts
	// mean the server did not report it.
	if r.Usage.TotalTokens > 0 || r.Usage.PromptTokens > 0 || r.Usage.CompletionTokens > 0 {
		resp.Usage = &Usage{
			InputTokens:  r.Usage.PromptTokens,
			OutputTokens: r.Usage.CompletionTokens,
			TotalTokens:  r.Usage.TotalTokens,
		}
	}

	return resp, nil
}

// Model returns the default model configured for this provider.
func (p *CompatProvider) Model() string {
	return p.model
}
