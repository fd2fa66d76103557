package output

import (
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/davetashner/promptlab/internal/lab"
)

func init() {
	RegisterFormatter(NewHTMLFormatter())
}

// HTMLFormatter writes results as a self-contained HTML page. Successful
// outputs are rendered as Markdown; error rows are shown verbatim.
type HTMLFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter returns a new HTMLFormatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (h *HTMLFormatter) Name() string {
	return "html"
}

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
)

// htmlRow is one table row prepared for the template.
type htmlRow struct {
	Index   int
	Prompt  string
	Output  template.HTML
	Failed  bool
	Latency string
	Tokens  string
	Cost    string
}

type htmlData struct {
	RunID       string
	GeneratedAt string
	Config      lab.GenerationConfig
	Summary     lab.Summary
	Headers     []string
	Rows        []htmlRow
}

// Format writes the run as an HTML page to w.
func (h *HTMLFormatter) Format(run Run, w io.Writer) error {
	htmlTmplOnce.Do(func() {
		htmlTmpl = template.Must(template.New("results").Parse(htmlTemplate))
	})

	data := htmlData{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Config:      run.Config,
		Summary:     lab.Summarize(run.Rows),
		Headers:     headers,
	}
	for _, r := range run.Rows {
		row := htmlRow{
			Index:   r.Index,
			Prompt:  r.Prompt,
			Failed:  r.Failed,
			Latency: LatencyCell(r.LatencySeconds),
			Tokens:  TokensCell(r.Tokens),
			Cost:    CostCell(r.CostUSD),
		}
		if r.Failed {
			row.Output = template.HTML(template.HTMLEscapeString(r.Output)) //nolint:gosec // escaped
		} else {
			row.Output = RenderMarkdown(r.Output)
		}
		data.Rows = append(data.Rows, row)
	}

	if err := htmlTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>PromptLab Results</title>
<style>
:root { --bg: #fff; --fg: #1a1a2e; --border: #dee2e6; --alt: #f1f3f5; --muted: #6c757d; --err: #dc3545; }
@media (prefers-color-scheme: dark) {
  :root { --bg: #1a1a2e; --fg: #e9ecef; --border: #495057; --alt: #16213e; --muted: #adb5bd; --err: #f55; }
}
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header p { color: var(--muted); font-size: .875rem; }
table { width: 100%; border-collapse: collapse; font-size: .875rem; margin-top: 1rem; }
th, td { padding: .5rem .625rem; text-align: left; border-bottom: 1px solid var(--border); vertical-align: top; }
tr:nth-child(even) { background: var(--alt); }
td.num { text-align: right; white-space: nowrap; }
td.prompt { white-space: pre-wrap; }
td.error { color: var(--err); white-space: pre-wrap; }
</style>
</head>
<body>
<header>
<h1>PromptLab Results</h1>
<p>Run {{.RunID}} generated {{.GeneratedAt}}</p>
<p>Model <code>{{.Config.Model}}</code>, max tokens {{.Config.MaxOutputTokens}}, temperature {{printf "%.1f" .Config.Temperature}}. {{.Summary.Total}} prompts, {{.Summary.Failed}} failed.</p>
</header>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>
<td class="num">{{.Index}}</td>
<td class="prompt">{{.Prompt}}</td>
<td{{if .Failed}} class="error"{{end}}>{{.Output}}</td>
<td class="num">{{.Latency}}</td>
<td class="num">{{.Tokens}}</td>
<td class="num">{{.Cost}}</td>
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`
