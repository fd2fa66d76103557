// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package session holds the state of one interactive prompt-comparison
// session and runs its prompts.
//
// A Session owns the ordered prompt entries, the current generation config,
// and the result rows of the most recent run. Results are only ever replaced
// or cleared as a whole. A Session is not safe for concurrent use; callers
// that share one (the web server) serialize access themselves.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/davetashner/promptlab/internal/lab"
)

// InitialPrompts is the number of empty prompt entries in a new session.
const InitialPrompts = 2

// Session is the mutable state of one interactive session.
type Session struct {
	id      string
	prompts []string
	results []lab.ResultRow
	config  lab.GenerationConfig
}

// New creates a session with two empty prompts, no results, and cfg as the
// current generation config.
func New(cfg lab.GenerationConfig) *Session {
	return &Session{
		id:      uuid.NewString(),
		prompts: make([]string, InitialPrompts),
		config:  cfg,
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Prompts returns a copy of the prompt entries in order.
func (s *Session) Prompts() []string {
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Results returns a copy of the rows published by the last run.
func (s *Session) Results() []lab.ResultRow {
	out := make([]lab.ResultRow, len(s.results))
	copy(out, s.results)
	return out
}

// Config returns the current generation config.
func (s *Session) Config() lab.GenerationConfig { return s.config }

// SetConfig replaces the current generation config.
func (s *Session) SetConfig(cfg lab.GenerationConfig) { s.config = cfg }

// AddPrompt appends an empty prompt entry and returns its index.
func (s *Session) AddPrompt() int {
	s.prompts = append(s.prompts, "")
	return len(s.prompts) - 1
}

// CanDelete reports whether a prompt entry may be deleted.
func (s *Session) CanDelete() bool { return len(s.prompts) > 1 }

// DeletePrompt removes the entry at i. It is a no-op returning false when
// only one entry remains or i is out of range.
func (s *Session) DeletePrompt(i int) bool {
	if !s.CanDelete() || i < 0 || i >= len(s.prompts) {
		return false
	}
	s.prompts = append(s.prompts[:i], s.prompts[i+1:]...)
	return true
}

// EditPrompt replaces the text of the entry at i.
func (s *Session) EditPrompt(i int, text string) error {
	if i < 0 || i >= len(s.prompts) {
		return fmt.Errorf("session: prompt index %d out of range [0, %d)", i, len(s.prompts))
	}
	s.prompts[i] = text
	return nil
}

// SetPrompts replaces every entry at once, as when a page form is submitted.
// An empty slice leaves a single empty entry so the session never has zero.
func (s *Session) SetPrompts(prompts []string) {
	if len(prompts) == 0 {
		s.prompts = []string{""}
		return
	}
	s.prompts = append(s.prompts[:0:0], prompts...)
}

// ReplaceResults publishes rows as the session's result set.
func (s *Session) ReplaceResults(rows []lab.ResultRow) {
	s.results = append([]lab.ResultRow(nil), rows...)
}

// ClearResults drops the current result set.
func (s *Session) ClearResults() { s.results = nil }

// Reset returns the session to two empty prompts and no results. The
// generation config and ID are kept.
func (s *Session) Reset() {
	s.prompts = make([]string, InitialPrompts)
	s.results = nil
}
