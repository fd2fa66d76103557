// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/output"
	"github.com/davetashner/promptlab/internal/promptfile"
	"github.com/davetashner/promptlab/internal/session"
)

// Run command flags.
var (
	runFile        string
	runModel       string
	runMaxTokens   int
	runTemperature float64
	runFormat      string
	runOutput      string
	runTimeout     time.Duration
)

// runCmd runs a batch of prompts and prints the results table.
var runCmd = &cobra.Command{
	Use:   "run [prompt...]",
	Short: "Run prompts against a model and compare the outputs",
	Long: `Send each prompt once to the selected model, in order, and print one
result row per prompt with its output, latency, and token count.

Prompts come from the arguments, from --file, or from stdin when a
single "-" is given. Blank prompts are skipped. A failing prompt gets an
ERROR row and does not stop the others.

Exit codes:
  0  every prompt produced output
  1  invalid arguments or configuration, or no runnable prompts
  2  some prompts failed
  3  every prompt failed

Examples:
  promptlab run "Say hi" "Summarize Hamlet in one sentence"
  promptlab run --file prompts.yaml --model claude-haiku-4-5
  promptlab run -f json -o results.json --temperature 0 "Count to five"`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFile, "file", "", "read prompts from a YAML, TOML, or text file")
	f.StringVarP(&runModel, "model", "m", "", "model ID (see 'promptlab models')")
	f.IntVar(&runMaxTokens, "max-tokens", 0,
		fmt.Sprintf("maximum output tokens per prompt (%d-%d)", lab.MinMaxOutputTokens, lab.MaxMaxOutputTokens))
	f.Float64VarP(&runTemperature, "temperature", "t", 0,
		fmt.Sprintf("sampling temperature (%.1f-%.1f)", lab.MinTemperature, lab.MaxTemperature))
	f.StringVarP(&runFormat, "format", "f", "", "output format: table, json, markdown, html (default from config, else table)")
	f.StringVarP(&runOutput, "output", "o", "", "write results to a file instead of stdout")
	f.DurationVar(&runTimeout, "timeout", 0, "per-prompt request timeout, e.g. 30s (0 for none)")
}

// resetRunFlags resets run command flags for testing.
func resetRunFlags() {
	runFile = ""
	runModel = ""
	runMaxTokens = 0
	runTemperature = 0
	runFormat = ""
	runOutput = ""
	runTimeout = 0
	runCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	prompts, fileSettings, err := collectPrompts(cmd, args)
	if err != nil {
		return err
	}
	if fileSettings != nil {
		cfg = config.Combine(cfg, fileSettings)
	}

	overrides := config.Overrides{Model: runModel, MaxOutputTokens: runMaxTokens}
	if cmd.Flags().Changed("temperature") {
		t := runTemperature
		overrides.Temperature = &t
	}
	if cmd.Flags().Changed("max-tokens") && runMaxTokens == 0 {
		return exitError(ExitInvalidArgs, "promptlab: --max-tokens must be between %d and %d",
			lab.MinMaxOutputTokens, lab.MaxMaxOutputTokens)
	}
	gen := config.Merge(cfg, overrides)
	if err := gen.Validate(); err != nil {
		return exitError(ExitInvalidArgs, "promptlab: %v", err)
	}

	catalog := cfg.Catalog()
	if err := catalog.Validate(gen.Model); err != nil {
		return exitError(ExitInvalidArgs, "promptlab: %v", err)
	}

	formatName := runFormat
	if formatName == "" {
		formatName = cfg.OutputFormat
	}
	if formatName == "" {
		formatName = "table"
	}
	formatter, err := output.GetFormatter(formatName)
	if err != nil {
		return exitError(ExitInvalidArgs, "promptlab: %v", err)
	}

	timeout, err := resolveTimeout(cfg, runTimeout, cmd.Flags().Changed("timeout"))
	if err != nil {
		return exitError(ExitInvalidArgs, "promptlab: %v", err)
	}

	exec := newExecutor(cfg, catalog, timeout)

	slog.Debug("running prompts", "count", len(session.FilterPrompts(prompts)), "model", gen.Model)
	start := time.Now()
	rows, err := session.RunAll(cmd.Context(), exec, prompts, gen)
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			return exitError(ExitInvalidArgs, "promptlab: %v", err)
		}
		return exitError(ExitTotalFailure, "promptlab: %v", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if runOutput != "" {
		f, createErr := cmdFS.Create(runOutput)
		if createErr != nil {
			return exitError(ExitInvalidArgs, "promptlab: cannot create output file %q (%v)", runOutput, createErr)
		}
		defer f.Close() //nolint:errcheck // best-effort close on output file
		w = f
	}

	if err := formatter.Format(output.NewRun(gen, rows), w); err != nil {
		return exitError(ExitTotalFailure, "promptlab: formatting failed (%v)", err)
	}

	summary := lab.Summarize(rows)
	slog.Debug("results written",
		"format", formatter.Name(),
		"rows", summary.Total,
		"duration", time.Since(start).Round(time.Millisecond))

	switch {
	case summary.Failed == 0:
		return nil
	case summary.Succeeded == 0:
		return exitError(ExitTotalFailure, "")
	default:
		return exitError(ExitPartialFailure, "")
	}
}

// collectPrompts gathers prompts from the arguments and --file, in that
// order. A lone "-" argument reads stdin as a text prompt file.
func collectPrompts(cmd *cobra.Command, args []string) ([]string, *config.Config, error) {
	var prompts []string
	for _, a := range args {
		if a != "-" {
			prompts = append(prompts, a)
			continue
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, nil, exitError(ExitInvalidArgs, "promptlab: reading stdin: %v", err)
		}
		parsed, err := promptfile.ParseText(data)
		if err != nil {
			return nil, nil, exitError(ExitInvalidArgs, "promptlab: reading stdin: %v", err)
		}
		prompts = append(prompts, parsed...)
	}

	var settings *config.Config
	if runFile != "" {
		pf, err := promptfile.Load(cmdFS, runFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, exitError(ExitInvalidArgs, "promptlab: prompt file %q does not exist", runFile)
			}
			return nil, nil, exitError(ExitInvalidArgs, "promptlab: %v", err)
		}
		prompts = append(prompts, pf.Prompts...)
		settings = pf.Settings()
	}

	if len(prompts) == 0 {
		return nil, nil, exitError(ExitInvalidArgs, "promptlab: no prompts given (pass prompts as arguments, --file, or - for stdin)")
	}
	return prompts, settings, nil
}
