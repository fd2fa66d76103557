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

func newCompatServer(t *testing.T, body string, captured *map[string]any, auth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if captured != nil {
			var m map[string]any
			if err := json.NewDecoder(r.Body).Decode(&m); err == nil {
				*captured = m
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestCompatComplete_PassesParametersThrough(t *testing.T) {
	var captured map[string]any
	var auth string
	srv := newCompatServer(t, `{
	  "id": "chatcmpl-1", "object": "chat.completion", "model": "llama-3.3-70b-versatile",
	  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}],
	  "usage": {"prompt_tokens": 4, "completion_tokens": 8, "total_tokens": 12}
	}`, &captured, &auth)
	defer srv.Close()

	t.Setenv("MY_COMPAT_KEY", "compat-secret")
	p := llm.NewCompatProvider("MY_COMPAT_KEY", llm.WithBaseURL(srv.URL))

	resp, err := p.Complete(context.Background(), llm.Request{
		Prompt:      "Say hi",
		Model:       "llama-3.3-70b-versatile",
		MaxTokens:   64,
		Temperature: llm.Float(1.5),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer compat-secret", auth)
	assert.Equal(t, "llama-3.3-70b-versatile", captured["model"])
	assert.Equal(t, float64(64), captured["max_tokens"])
	assert.Equal(t, 1.5, captured["temperature"])

	assert.Equal(t, "Hello!", resp.Text())
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestCompatComplete_ZeroTemperatureIsSent(t *testing.T) {
	var captured map[string]any
	srv := newCompatServer(t, `{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`, &captured, nil)
	defer srv.Close()

	p := llm.NewCompatProvider("", llm.WithBaseURL(srv.URL))

	_, err := p.Complete(context.Background(), llm.Request{Prompt: "x", Temperature: llm.Float(0)})
	require.NoError(t, err)
	_, sent := captured["temperature"]
	assert.True(t, sent, "zero temperature must not be dropped")
}

func TestCompatComplete_MissingUsageIsNil(t *testing.T) {
	srv := newCompatServer(t, `{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`, nil, nil)
	defer srv.Close()

	p := llm.NewCompatProvider("", llm.WithBaseURL(srv.URL))

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Nil(t, resp.Usage)
}

func TestCompatComplete_NoChoices(t *testing.T) {
	srv := newCompatServer(t, `{"id": "chatcmpl-empty", "choices": []}`, nil, nil)
	defer srv.Close()

	p := llm.NewCompatProvider("", llm.WithBaseURL(srv.URL))

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "x"})
	require.NoError(t, err)
	assert.False(t, resp.HasContent)
	assert.Contains(t, resp.Text(), "chatcmpl-empty")
}

func TestCompatComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API Key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := llm.NewCompatProvider("", llm.WithBaseURL(srv.URL))

	_, err := p.Complete(context.Background(), llm.Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compat: completion failed")
}
