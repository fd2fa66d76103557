package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/output"
)

type promptView struct {
	Index int
	Text  string
}

type modelOption struct {
	ID       string
	Backend  string
	Selected bool
}

type rowView struct {
	Index   int
	Prompt  string
	Output  string
	Failed  bool
	Latency string
	Tokens  string
	Cost    string
}

type pageView struct {
	SessionID   string
	Prompts     []promptView
	CanDelete   bool
	Models      []modelOption
	MaxTokens   int
	Temperature string
	Message     string
	Rows        []rowView
	Formats     []string

	MinTokens, MaxTokensLimit, TokensStep int
	MinTemp, MaxTemp, TempStep            string
}

func fmtTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// buildView snapshots the session for rendering.
func (s *Server) buildView(msg string) pageView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.sess.Config()
	v := pageView{
		SessionID:      s.sess.ID(),
		CanDelete:      s.sess.CanDelete(),
		MaxTokens:      cfg.MaxOutputTokens,
		Temperature:    fmtTemp(cfg.Temperature),
		Message:        msg,
		Formats:        output.Names(),
		MinTokens:      lab.MinMaxOutputTokens,
		MaxTokensLimit: lab.MaxMaxOutputTokens,
		TokensStep:     lab.MaxTokensStep,
		MinTemp:        fmtTemp(lab.MinTemperature),
		MaxTemp:        fmtTemp(lab.MaxTemperature),
		TempStep:       fmtTemp(lab.TemperatureStep),
	}
	for i, p := range s.sess.Prompts() {
		v.Prompts = append(v.Prompts, promptView{Index: i, Text: p})
	}
	for _, m := range s.catalog.Models() {
		v.Models = append(v.Models, modelOption{ID: m.ID, Backend: string(m.Backend), Selected: m.ID == cfg.Model})
	}
	for _, r := range s.sess.Results() {
		v.Rows = append(v.Rows, rowView{
			Index:   r.Index,
			Prompt:  r.Prompt,
			Output:  r.Output,
			Failed:  r.Failed,
			Latency: output.LatencyCell(r.LatencySeconds),
			Tokens:  output.TokensCell(r.Tokens),
			Cost:    output.CostCell(r.CostUSD),
		})
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, status int, msg string) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "page", s.buildView(msg)); err != nil {
		slog.Error("render page", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
