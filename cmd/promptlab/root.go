package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/promptlab/internal/env"
	promptlog "github.com/davetashner/promptlab/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
	envFile string
)

// rootCmd is the base command for promptlab.
var rootCmd = &cobra.Command{
	Use:   "promptlab",
	Short: "Compare prompts side by side across hosted language models",
	Long: `PromptLab sends each of your prompts once to a hosted language model and
lays the outputs, latency, and token counts out side by side in a table.

Run a batch from the command line with 'promptlab run', or open the
interactive page with 'promptlab serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		promptlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
		if envFile != "" {
			if err := env.Load(cmdFS, envFile); err != nil {
				return exitError(ExitInvalidArgs, "promptlab: cannot load %s (%v)", envFile, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", env.DefaultFile,
		fmt.Sprintf("load API keys from this file if present (empty to skip; default %s)", env.DefaultFile))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
