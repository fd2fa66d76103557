package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/web"
)

var serveAddr string

// serveCmd starts the interactive web page.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive prompt comparison page",
	Long: fmt.Sprintf(`Start a local web page for editing a list of prompts, adjusting the
model, max output tokens, and temperature, and running them all at once.
Results can be exported as JSON, Markdown, or HTML.

The page listens on %s unless --addr or serve.addr in the config says
otherwise. Stop it with Ctrl-C.`, config.DefaultServeAddr),
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (host:port)")
}

// resetServeFlags resets serve command flags for testing.
func resetServeFlags() {
	serveAddr = ""
	serveCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gen := config.Merge(cfg, config.Overrides{})
	if err := gen.Validate(); err != nil {
		return exitError(ExitInvalidArgs, "promptlab: %v", err)
	}
	catalog := cfg.Catalog()
	if err := catalog.Validate(gen.Model); err != nil {
		return exitError(ExitInvalidArgs, "promptlab: %v", err)
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return exitError(ExitInvalidArgs, "promptlab: timeout: %v", err)
	}

	srv, err := web.NewServer(newExecutor(cfg, catalog, timeout), catalog, gen)
	if err != nil {
		return fmt.Errorf("building web server: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServeAddr()
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "PromptLab listening on http://%s\n", addr)
	slog.Debug("serve config", "model", gen.Model, "timeout", timeout)
	return srv.ListenAndServe(cmd.Context(), addr)
}
