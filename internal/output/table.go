package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/davetashner/promptlab/internal/lab"
)

func init() {
	RegisterFormatter(NewTableFormatter())
}

// Alignment controls how a column's content is justified.
type Alignment int

const (
	// AlignLeft pads on the right (default).
	AlignLeft Alignment = iota
	// AlignRight pads on the left.
	AlignRight
)

// ColorFunc maps a cell value to a colored string. If nil, no color is applied.
type ColorFunc func(value string) string

// Column describes a single table column.
type Column struct {
	Header string
	Align  Alignment
	Color  ColorFunc
}

// Table renders aligned text tables to an io.Writer.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given column definitions.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends a row. Values beyond the column count are ignored;
// missing values are treated as empty strings.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(values) {
			row[i] = values[i]
		}
	}
	t.rows = append(t.rows, row)
}

// Render writes the table to w with computed column widths.
func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}

	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = utf8.RuneCountInString(col.Header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = pad(bold.Sprint(col.Header), col.Header, widths[i], col.Align)
	}
	if err := writeLine(w, header); err != nil {
		return err
	}

	sep := make([]string, len(t.columns))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if err := writeLine(w, sep); err != nil {
		return err
	}

	for _, row := range t.rows {
		parts := make([]string, len(t.columns))
		for i, col := range t.columns {
			display := row[i]
			if col.Color != nil {
				display = col.Color(row[i])
			}
			// Padding uses the raw width, not the ANSI-colored one.
			parts[i] = pad(display, row[i], widths[i], col.Align)
		}
		if err := writeLine(w, parts); err != nil {
			return err
		}
	}
	return nil
}

func pad(display, raw string, width int, align Alignment) string {
	n := width - utf8.RuneCountInString(raw)
	if n < 0 {
		n = 0
	}
	if align == AlignRight {
		return strings.Repeat(" ", n) + display
	}
	return display + strings.Repeat(" ", n)
}

func writeLine(w io.Writer, parts []string) error {
	line := strings.TrimRight("  "+strings.Join(parts, "  "), " ")
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

var (
	colorRed   = color.New(color.FgRed)
	colorGreen = color.New(color.FgGreen)
	colorFaint = color.New(color.Faint)
)

// colorOutput highlights error rows.
func colorOutput(val string) string {
	if strings.HasPrefix(val, lab.ErrorMarker) {
		return colorRed.Sprint(val)
	}
	return val
}

func colorAbsent(val string) string {
	if val == absent {
		return colorFaint.Sprint(val)
	}
	return val
}

// TableFormatter writes results as an aligned terminal table followed by a
// one-line summary. Long prompts and outputs are truncated to one line.
type TableFormatter struct {
	// MaxCellWidth bounds the Prompt and Output columns in runes.
	MaxCellWidth int
}

// Compile-time interface check.
var _ Formatter = (*TableFormatter)(nil)

// NewTableFormatter returns a TableFormatter with default settings.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{MaxCellWidth: 60}
}

// Name returns the format name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Format writes the run's rows as a table to w.
func (f *TableFormatter) Format(run Run, w io.Writer) error {
	t := NewTable(
		Column{Header: headers[0], Align: AlignRight},
		Column{Header: headers[1]},
		Column{Header: headers[2], Color: colorOutput},
		Column{Header: headers[3], Align: AlignRight, Color: colorAbsent},
		Column{Header: headers[4], Align: AlignRight, Color: colorAbsent},
		Column{Header: headers[5], Align: AlignRight, Color: colorAbsent},
	)
	for _, r := range run.Rows {
		t.AddRow(
			fmt.Sprintf("%d", r.Index),
			truncate(singleLine(r.Prompt), f.MaxCellWidth),
			truncate(singleLine(r.Output), f.MaxCellWidth),
			orAbsent(LatencyCell(r.LatencySeconds)),
			orAbsent(TokensCell(r.Tokens)),
			orAbsent(CostCell(r.CostUSD)),
		)
	}
	if err := t.Render(w); err != nil {
		return err
	}

	sum := lab.Summarize(run.Rows)
	status := colorGreen.Sprintf("%d ok", sum.Succeeded)
	if sum.Failed > 0 {
		status += ", " + colorRed.Sprintf("%d failed", sum.Failed)
	}
	if _, err := fmt.Fprintf(w, "\n  %s (model %s, max tokens %d, temperature %.1f)\n",
		status, run.Config.Model, run.Config.MaxOutputTokens, run.Config.Temperature); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
