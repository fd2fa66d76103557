// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptlab/internal/llm"
)

func TestNewAnthropicProvider_WithAPIKey(t *testing.T) {
	p, err := llm.NewAnthropicProvider(llm.WithAPIKey("test-key-123"))
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewAnthropicProvider_FromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-test-key")

	p, err := llm.NewAnthropicProvider()
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewAnthropicProvider_NoKeyError(t *testing.T) {
	// Clear env to ensure no key is available.
	t.Setenv("ANTHROPIC_API_KEY", "")

	p, err := llm.NewAnthropicProvider()
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestAnthropicProvider_DefaultModel(t *testing.T) {
	p, err := llm.NewAnthropicProvider(llm.WithAPIKey("test-key"))
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", p.Model())
}

func TestAnthropicProvider_CustomModel(t *testing.T) {
	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithModel("claude-sonnet-4-5"),
	)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", p.Model())
}

// anthropicResponse is the JSON shape returned by the Messages API.
type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
	Usage      *anthropicUsage    `json:"usage,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// newTestServer returns an httptest server that responds with the given
// anthropicResponse, and captures the request body for assertions.
func newTestServer(t *testing.T, resp anthropicResponse, statusCode int, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				*captured = body
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnthropicComplete_DefaultModelAndMaxTokens(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, anthropicResponse{
		ID:         "msg_test",
		Type:       "message",
		Role:       "assistant",
		Content:    []anthropicContent{{Type: "text", Text: "hello"}},
		Model:      "claude-haiku-4-5",
		StopReason: "end_turn",
		Usage:      &anthropicUsage{InputTokens: 10, OutputTokens: 5},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "claude-haiku-4-5", resp.Model)
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, 5, resp.Usage.OutputTokens)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.True(t, resp.HasContent)

	// Verify defaults sent to API.
	assert.Equal(t, "claude-haiku-4-5", captured["model"])
	assert.Equal(t, float64(256), captured["max_tokens"])
}

func TestAnthropicComplete_ModelOverride(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, anthropicResponse{
		ID:      "msg_test",
		Type:    "message",
		Role:    "assistant",
		Content: []anthropicContent{{Type: "text", Text: "ok"}},
		Model:   "claude-sonnet-4-5",
		Usage:   &anthropicUsage{InputTokens: 5, OutputTokens: 2},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.Request{
		Prompt: "hi",
		Model:  "claude-sonnet-4-5",
	})
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-5", resp.Model)
	assert.Equal(t, "claude-sonnet-4-5", captured["model"])
}

func TestAnthropicComplete_MaxTokensOverride(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, anthropicResponse{
		ID:      "msg_test",
		Type:    "message",
		Role:    "assistant",
		Content: []anthropicContent{{Type: "text", Text: "ok"}},
		Model:   "claude-haiku-4-5",
		Usage:   &anthropicUsage{InputTokens: 5, OutputTokens: 2},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.Request{
		Prompt:    "hi",
		MaxTokens: 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1024), captured["max_tokens"])
}

func TestAnthropicComplete_Temperature(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, anthropicResponse{
		ID:      "msg_test",
		Type:    "message",
		Role:    "assistant",
		Content: []anthropicContent{{Type: "text", Text: "ok"}},
		Model:   "claude-haiku-4-5",
		Usage:   &anthropicUsage{InputTokens: 5, OutputTokens: 2},
	}, http.StatusOK, &captured)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	temp := 0.7
	_, err = p.Complete(context.Background(), llm.Request{
		Prompt:      "hi",
		Temperature: llm.Float(temp),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.7, captured["temperature"])
}

func TestAnthropicComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: completion failed")
}

func TestAnthropicComplete_EmptyContent(t *testing.T) {
	srv := newTestServer(t, anthropicResponse{
		ID:      "msg_test",
		Type:    "message",
		Role:    "assistant",
		Content: []anthropicContent{},
		Model:   "claude-haiku-4-5",
		Usage:   &anthropicUsage{InputTokens: 5, OutputTokens: 0},
	}, http.StatusOK, nil)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "", resp.Content)
	assert.False(t, resp.HasContent)
	assert.Contains(t, resp.Text(), "msg_test", "missing text falls back to the raw response")
}

func TestAnthropicComplete_MultipleTextBlocks(t *testing.T) {
	srv := newTestServer(t, anthropicResponse{
		ID:   "msg_test",
		Type: "message",
		Role: "assistant",
		Content: []anthropicContent{
			{Type: "text", Text: "hello "},
			{Type: "text", Text: "world"},
		},
		Model: "claude-haiku-4-5",
		Usage: &anthropicUsage{InputTokens: 5, OutputTokens: 4},
	}, http.StatusOK, nil)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithMaxRetries(0),
	)
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Content)
}

func TestAnthropicComplete_NoUsage(t *testing.T) {
	srv := newTestServer(t, anthropicResponse{
		ID:      "msg_test",
		Type:    "message",
		Role:    "assistant",
		Content: []anthropicContent{{Type: "text", Text: "ok"}},
		Model:   "claude-haiku-4-5",
	}, http.StatusOK, nil)
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Nil(t, resp.Usage)
}
