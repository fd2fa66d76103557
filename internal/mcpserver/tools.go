package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/output"
	"github.com/davetashner/promptlab/internal/promptfile"
	"github.com/davetashner/promptlab/internal/runner"
	"github.com/davetashner/promptlab/internal/session"
	"github.com/davetashner/promptlab/internal/testable"
)

// RunPromptsInput is the input schema for the run_prompts tool.
type RunPromptsInput struct {
	Prompts         []string `json:"prompts,omitempty" jsonschema:"Prompts to run in order; blank prompts are skipped"`
	File            string   `json:"file,omitempty" jsonschema:"Path to a YAML, TOML, or text prompt file, appended after prompts"`
	Model           string   `json:"model,omitempty" jsonschema:"Model ID (see list_models); defaults to the configured model"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" jsonschema:"Maximum output tokens per prompt (32-2048)"`
	Temperature     *float64 `json:"temperature,omitempty" jsonschema:"Sampling temperature (0.0-2.0)"`
	Format          string   `json:"format,omitempty" jsonschema:"Output format: json, markdown, table, html (default: json)"`
}

// ListModelsInput is the input schema for the list_models tool.
type ListModelsInput struct{}

// modelEntry is one model in the list_models response.
type modelEntry struct {
	ID      string      `json:"id"`
	Backend llm.Backend `json:"backend"`
	Default bool        `json:"default,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

type handlers struct {
	cfg     *config.Config
	exec    runner.Executor
	catalog *llm.Catalog
}

func newHandlers(opts Options) (*handlers, error) {
	h := &handlers{cfg: opts.Config, exec: opts.Executor, catalog: opts.Catalog}
	if h.cfg == nil {
		h.cfg = &config.Config{}
	}
	if h.catalog == nil {
		h.catalog = h.cfg.Catalog()
	}
	if h.exec == nil {
		timeout, err := h.cfg.RequestTimeout()
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		router := llm.NewDefaultRouter(h.catalog, h.cfg.Endpoints())
		h.exec = runner.NewAdapter(router, runner.WithTimeout(timeout))
	}
	return h, nil
}

func (h *handlers) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_prompts",
		Description: "Run each prompt once against a hosted language model and return a table of outputs, latency in seconds, and token counts. Failed prompts appear as rows starting with ERROR.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handleRunPrompts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_models",
		Description: "List the model IDs accepted by run_prompts and the backend serving each.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, h.handleListModels)
}

func (h *handlers) handleRunPrompts(ctx context.Context, _ *mcp.CallToolRequest, input RunPromptsInput) (*mcp.CallToolResult, any, error) {
	format := "json"
	if input.Format != "" {
		format = input.Format
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}

	prompts := append([]string(nil), input.Prompts...)
	layer := h.cfg
	if input.File != "" {
		path, err := ResolveFile(input.File)
		if err != nil {
			return nil, nil, err
		}
		f, err := promptfile.Load(testable.DefaultFS, path)
		if err != nil {
			return nil, nil, err
		}
		prompts = append(prompts, f.Prompts...)
		layer = config.Combine(h.cfg, f.Settings())
	}

	gen := config.Merge(layer, config.Overrides{
		Model:           input.Model,
		MaxOutputTokens: input.MaxOutputTokens,
		Temperature:     input.Temperature,
	})
	if err := validateGeneration(h.catalog, gen); err != nil {
		return nil, nil, err
	}

	rows, err := session.RunAll(ctx, h.exec, prompts, gen)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := formatter.Format(output.NewRun(gen, rows), &buf); err != nil {
		return nil, nil, fmt.Errorf("format results: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}

func (h *handlers) handleListModels(_ context.Context, _ *mcp.CallToolRequest, _ ListModelsInput) (*mcp.CallToolResult, any, error) {
	def := config.Merge(h.cfg, config.Overrides{}).Model

	models := h.catalog.Models()
	entries := make([]modelEntry, len(models))
	for i, m := range models {
		entries[i] = modelEntry{ID: m.ID, Backend: m.Backend, Default: m.ID == def}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// validateGeneration checks parameter bounds and model membership.
func validateGeneration(catalog *llm.Catalog, gen lab.GenerationConfig) error {
	if err := gen.Validate(); err != nil {
		return err
	}
	return catalog.Validate(gen.Model)
}
