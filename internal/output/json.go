package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davetashner/promptlab/internal/lab"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps result rows with run metadata.
type JSONEnvelope struct {
	RunID       string               `json:"run_id"`
	GeneratedAt string               `json:"generated_at"`
	Config      lab.GenerationConfig `json:"config"`
	Results     []lab.ResultRow      `json:"results"`
	Summary     lab.Summary          `json:"summary"`
}

// JSONFormatter writes results as a JSON object with a metadata envelope.
// Absent metrics are encoded as null.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is indented with two spaces unless w is a
	// pipe or regular file.
	Compact bool
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the run as a JSON document to w.
func (f *JSONFormatter) Format(run Run, w io.Writer) error {
	rows := run.Rows
	if rows == nil {
		rows = []lab.ResultRow{}
	}

	envelope := JSONEnvelope{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Config:      run.Config,
		Results:     rows,
		Summary:     lab.Summarize(rows),
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// shouldCompact pretty-prints for terminals and in-memory writers, and
// compacts for pipes and files unless Compact forces it.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}
