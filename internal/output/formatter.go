// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package output defines the Formatter interface for writing run results in
// various formats.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/promptlab/internal/lab"
)

// Run is one completed batch of result rows with the config that produced
// them.
type Run struct {
	ID          string
	Config      lab.GenerationConfig
	Rows        []lab.ResultRow
	GeneratedAt time.Time
}

// NewRun stamps rows with a fresh run ID and the current time.
func NewRun(cfg lab.GenerationConfig, rows []lab.ResultRow) Run {
	return Run{
		ID:          uuid.NewString(),
		Config:      cfg,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}
}

// Formatter writes a run to the given writer in a specific format.
type Formatter interface {
	// Name returns the format name (e.g., "table", "json", "markdown").
	Name() string

	// Format writes the run to w.
	Format(run Run, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, formatNames())
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func Names() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatNames() string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
