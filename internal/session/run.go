// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/runner"
)

// ValidationError rejects a run before any prompt is sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ErrNoPrompts is returned when every prompt is blank.
var ErrNoPrompts = &ValidationError{Msg: "Add at least one non-empty prompt."}

// FilterPrompts trims every prompt and drops the ones left empty.
func FilterPrompts(prompts []string) []string {
	var out []string
	for _, p := range prompts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RunAll executes every non-blank prompt in order, one at a time, and
// returns one row per executed prompt numbered from 1. A failed invocation
// becomes an error row and never stops the prompts after it. If no prompt
// survives filtering, RunAll returns ErrNoPrompts without calling exec.
func RunAll(ctx context.Context, exec runner.Executor, prompts []string, cfg lab.GenerationConfig) ([]lab.ResultRow, error) {
	filtered := FilterPrompts(prompts)
	if len(filtered) == 0 {
		return nil, ErrNoPrompts
	}

	rows := make([]lab.ResultRow, 0, len(filtered))
	for i, prompt := range filtered {
		idx := i + 1

		var outcome lab.Outcome
		res, err := exec.Execute(ctx, prompt, cfg)
		if err != nil {
			outcome = lab.Failure(err)
			slog.Debug("prompt failed", "index", idx, "model", cfg.Model, "error", err)
		} else {
			outcome = lab.Success(res)
			slog.Debug("prompt complete", "index", idx, "model", cfg.Model, "latency", res.Latency)
		}

		rows = append(rows, lab.NewResultRow(idx, prompt, outcome))
	}

	sum := lab.Summarize(rows)
	slog.Info("run complete", "model", cfg.Model, "prompts", sum.Total, "failed", sum.Failed)
	return rows, nil
}

// Run executes the session's prompts under its current config and, unless
// the run was rejected, replaces the session's results with the new rows.
func (s *Session) Run(ctx context.Context, exec runner.Executor) ([]lab.ResultRow, error) {
	rows, err := RunAll(ctx, exec, s.prompts, s.config)
	if err != nil {
		return nil, err
	}
	s.ReplaceResults(rows)
	return s.Results(), nil
}
