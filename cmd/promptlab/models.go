package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/promptlab/internal/config"
	"github.com/davetashner/promptlab/internal/output"
)

var modelsJSON bool

// modelsCmd lists the selectable models.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the selectable models",
	Long: `List every model that can be passed to --model, with the backend that
serves it. Models added under providers.<backend>.models in the config
are included. The configured default is marked with *.`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "print the list as JSON")
}

// resetModelsFlags resets models command flags for testing.
func resetModelsFlags() {
	modelsJSON = false
	modelsCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

type modelInfo struct {
	ID      string `json:"id"`
	Backend string `json:"backend"`
	Default bool   `json:"default,omitempty"`
}

func runModels(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defaultModel := config.Merge(cfg, config.Overrides{}).Model

	var infos []modelInfo
	for _, m := range cfg.Catalog().Models() {
		infos = append(infos, modelInfo{ID: m.ID, Backend: string(m.Backend), Default: m.ID == defaultModel})
	}

	w := cmd.OutOrStdout()
	if modelsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tbl := output.NewTable(
		output.Column{Header: "", Align: output.AlignLeft},
		output.Column{Header: "MODEL", Align: output.AlignLeft},
		output.Column{Header: "BACKEND", Align: output.AlignLeft},
	)
	for _, m := range infos {
		marker := ""
		if m.Default {
			marker = "*"
		}
		tbl.AddRow(marker, m.ID, m.Backend)
	}
	if err := tbl.Render(w); err != nil {
		return fmt.Errorf("rendering models: %w", err)
	}
	return nil
}
