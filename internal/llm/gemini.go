// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiKeyEnv       = "GEMINI_API_KEY"
)

// GeminiProvider implements Provider using the Gemini API through the
// google.golang.org/genai client.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// Compile-time check that GeminiProvider satisfies the Provider interface.
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider. The key comes from the
// WithAPIKey option or GEMINI_API_KEY; the genai client reports a missing key.
func NewGeminiProvider(ctx context.Context, opts ...Option) (*GeminiProvider, error) {
	cfg := newProviderConfig(defaultGeminiModel, opts)

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(geminiKeyEnv)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.baseURL
	}
	if cfg.httpClient != nil {
		cc.HTTPClient = cfg.httpClient
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiProvider{client: client, model: cfg.model}, nil
}

// Complete calls models.generateContent with a single user turn.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	gc := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		gc.Temperature = genai.Ptr(float32(*req.Temperature))
	}

	r, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), gc)
	if err != nil {
		return nil, fmt.Errorf("gemini: completion failed: %w", err)
	}

	resp := &Response{Model: model}
	if r.ModelVersion != "" {
		resp.Model = r.ModelVersion
	}

	if len(r.Candidates) > 0 && r.Candidates[0].Content != nil {
		for _, part := range r.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				resp.HasContent = true
			}
		}
	}
	resp.Content = r.Text()

	if !resp.HasContent {
		if raw, mErr := json.Marshal(r); mErr == nil {
			resp.Raw = string(raw)
		} else {
			resp.Raw = fmt.Sprintf("%+v", r)
		}
	}

	if r.UsageMetadata != nil {
		resp.Usage = &Usage{
			InputTokens:  int(r.UsageMetadata.PromptTokenCount),
			OutputTokens: int(r.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(r.UsageMetadata.TotalTokenCount),
		}
	}

	return resp, nil
}

// Model returns the default model configured for this provider.
func (p *GeminiProvider) Model() string {
	return p.model
}
