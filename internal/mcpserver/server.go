// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/runner"
)

// Options wires the tools to configuration and an executor.
type Options struct {
	// Config is the effective file configuration. Nil means empty.
	Config *config.Config

	// Executor runs single prompts. When nil, one is built over the
	// config's provider router.
	Executor runner.Executor

	// Catalog lists selectable models. When nil, the config's catalog is used.
	Catalog *llm.Catalog
}

// New creates a new MCP server with promptlab's tools registered.
func New(version string, opts Options) (*mcp.Server, error) {
	h, err := newHandlers(opts)
	if err != nil {
		return nil, err
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "promptlab",
		Title:   "PromptLab",
		Version: version,
	}, nil)

	h.register(server)
	return server, nil
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, opts Options, transport mcp.Transport) error {
	server, err := New(version, opts)
	if err != nil {
		return err
	}
	return server.Run(ctx, transport)
}
