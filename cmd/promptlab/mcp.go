// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/promptlab/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running promptlab as an MCP server, so agents can compare prompts across models.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout exposing two tools:
  - run_prompts: run a batch of prompts and return the result rows
  - list_models: list the selectable models and the configured default`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return exitError(ExitInvalidArgs, "promptlab: timeout: %v", err)
		}
		catalog := cfg.Catalog()
		opts := mcpserver.Options{
			Config:   cfg,
			Catalog:  catalog,
			Executor: newExecutor(cfg, catalog, timeout),
		}
		return mcpserver.Run(cmd.Context(), Version, opts, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
