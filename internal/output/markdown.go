package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/promptlab/internal/lab"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes results as a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes a title, the generation settings, and the result table to w.
func (m *MarkdownFormatter) Format(run Run, w io.Writer) error {
	sum := lab.Summarize(run.Rows)

	var b strings.Builder
	b.WriteString("# PromptLab Results\n\n")
	fmt.Fprintf(&b, "Model `%s`, max tokens %d, temperature %.1f. %d prompts, %d failed.\n\n",
		run.Config.Model, run.Config.MaxOutputTokens, run.Config.Temperature, sum.Total, sum.Failed)

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|\n")
	for _, r := range run.Rows {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			r.Index,
			escapeCell(r.Prompt),
			escapeCell(r.Output),
			orAbsent(LatencyCell(r.LatencySeconds)),
			orAbsent(TokensCell(r.Tokens)),
			orAbsent(CostCell(r.CostUSD)),
		)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// escapeCell keeps a value inside one table cell.
func escapeCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}
