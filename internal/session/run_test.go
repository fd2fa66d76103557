// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/redact"
	"github.com/davetashner/promptlab/internal/runner"
	"github.com/davetashner/promptlab/internal/session"
)

// mockExecutor returns canned outcomes keyed by prompt and records calls.
type mockExecutor struct {
	results map[string]lab.RunResult
	errs    map[string]error
	calls   []string
	configs []lab.GenerationConfig
}

func (m *mockExecutor) Execute(_ context.Context, prompt string, cfg lab.GenerationConfig) (lab.RunResult, error) {
	m.calls = append(m.calls, prompt)
	m.configs = append(m.configs, cfg)
	if err, ok := m.errs[prompt]; ok {
		return lab.RunResult{}, err
	}
	return m.results[prompt], nil
}

var _ runner.Executor = (*mockExecutor)(nil)

func intPtr(v int) *int { return &v }

func testConfig() lab.GenerationConfig {
	return lab.GenerationConfig{Model: "gpt-4o-mini", MaxOutputTokens: 256, Temperature: 0.7}
}

func TestFilterPrompts(t *testing.T) {
	assert.Equal(t, []string{"Say hi", "b"}, session.FilterPrompts([]string{" Say hi ", "", "  ", "\tb\n"}))
	assert.Empty(t, session.FilterPrompts([]string{"", " ", "\n"}))
	assert.Empty(t, session.FilterPrompts(nil))
}

func TestRunAll_FiltersBlankPrompts(t *testing.T) {
	exec := &mockExecutor{}

	rows, err := session.RunAll(context.Background(), exec, []string{"Say hi", "", "  "}, testConfig())
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Say hi", rows[0].Prompt)
	assert.Equal(t, []string{"Say hi"}, exec.calls)
}

func TestRunAll_SuccessRow(t *testing.T) {
	exec := &mockExecutor{results: map[string]lab.RunResult{
		"Say hi": {OutputText: "Hello!", Latency: 420 * time.Millisecond, TotalTokens: intPtr(12)},
	}}

	rows, err := session.RunAll(context.Background(), exec, []string{"Say hi"}, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 1, row.Index)
	assert.Equal(t, "Say hi", row.Prompt)
	assert.Equal(t, "Hello!", row.Output)
	require.NotNil(t, row.LatencySeconds)
	assert.Equal(t, 0.42, *row.LatencySeconds)
	require.NotNil(t, row.Tokens)
	assert.Equal(t, 12, *row.Tokens)
	assert.Nil(t, row.CostUSD)
	assert.False(t, row.Failed)
}

func TestRunAll_FailureRowIsIsolated(t *testing.T) {
	exec := &mockExecutor{
		results: map[string]lab.RunResult{
			"Good 1": {OutputText: "one"},
			"Good 2": {OutputText: "two"},
		},
		errs: map[string]error{"Bad": errors.New("quota exceeded")},
	}

	rows, err := session.RunAll(context.Background(), exec, []string{"Good 1", "Bad", "Good 2"}, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Good 1", "Bad", "Good 2"}, exec.calls, "a failure never skips later prompts")

	bad := rows[1]
	assert.Equal(t, 2, bad.Index)
	assert.True(t, bad.Failed)
	assert.Equal(t, "ERROR: quota exceeded", bad.Output)
	assert.Nil(t, bad.LatencySeconds)
	assert.Nil(t, bad.Tokens)
	assert.Nil(t, bad.CostUSD)

	assert.Equal(t, "two", rows[2].Output)
	assert.Equal(t, 3, rows[2].Index)
}

func TestRunAll_NumbersRowsInSubmissionOrder(t *testing.T) {
	exec := &mockExecutor{}
	prompts := []string{"", "a", " ", "b", "c", "", "d"}

	rows, err := session.RunAll(context.Background(), exec, prompts, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Index)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, exec.calls)
}

func TestRunAll_SharesConfigAcrossPrompts(t *testing.T) {
	exec := &mockExecutor{}
	cfg := lab.GenerationConfig{Model: "gpt-4.1", MaxOutputTokens: 1024, Temperature: 1.3}

	_, err := session.RunAll(context.Background(), exec, []string{"a", "b"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []lab.GenerationConfig{cfg, cfg}, exec.configs)
}

func TestRunAll_AllBlankIsValidationError(t *testing.T) {
	exec := &mockExecutor{}

	rows, err := session.RunAll(context.Background(), exec, []string{"", "   ", "\n"}, testConfig())
	assert.Nil(t, rows)
	require.Error(t, err)

	var ve *session.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, session.ErrNoPrompts)
	assert.Empty(t, exec.calls, "no invocation when validation fails")
}

func TestRunAll_Idempotent(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: "first"},
		llm.MockResponse{Err: errors.New("transient")},
		llm.MockResponse{Content: "third"},
	)
	exec := runner.NewAdapter(mock)
	prompts := []string{"a", "b", "c"}

	first, err := session.RunAll(context.Background(), exec, prompts, testConfig())
	require.NoError(t, err)
	mock.Reset()
	second, err := session.RunAll(context.Background(), exec, prompts, testConfig())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Index, second[i].Index)
		assert.Equal(t, first[i].Prompt, second[i].Prompt)
		assert.Equal(t, first[i].Failed, second[i].Failed)
		assert.Equal(t, first[i].LatencySeconds == nil, second[i].LatencySeconds == nil)
		assert.Equal(t, first[i].Tokens == nil, second[i].Tokens == nil)
	}
}

func TestRunAll_RedactsSecretsInErrors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-secret-123456")
	redact.Reload()

	exec := &mockExecutor{errs: map[string]error{
		"x": errors.New("401: invalid key sk-test-secret-123456"),
	}}

	rows, err := session.RunAll(context.Background(), exec, []string{"x"}, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "ERROR: 401: invalid key [REDACTED]", rows[0].Output)
}

func TestSession_Run_PublishesResults(t *testing.T) {
	s := session.New(testConfig())
	require.NoError(t, s.EditPrompt(0, "Say hi"))

	exec := &mockExecutor{results: map[string]lab.RunResult{"Say hi": {OutputText: "Hello!"}}}

	rows, err := s.Run(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rows, s.Results())
}

func TestSession_Run_ReplacesPreviousResults(t *testing.T) {
	s := session.New(testConfig())
	s.SetPrompts([]string{"a", "b", "c"})
	exec := &mockExecutor{}

	_, err := s.Run(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, s.Results(), 3)

	s.SetPrompts([]string{"d"})
	_, err = s.Run(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, s.Results(), 1)
	assert.Equal(t, "d", s.Results()[0].Prompt)
}

func TestSession_Run_ValidationKeepsPreviousResults(t *testing.T) {
	s := session.New(testConfig())
	s.SetPrompts([]string{"a"})
	exec := &mockExecutor{}

	_, err := s.Run(context.Background(), exec)
	require.NoError(t, err)
	before := s.Results()

	s.SetPrompts([]string{"", "  "})
	_, err = s.Run(context.Background(), exec)
	require.ErrorIs(t, err, session.ErrNoPrompts)
	assert.Equal(t, before, s.Results(), "rejected run leaves results untouched")
	assert.Len(t, exec.calls, 1)
}
