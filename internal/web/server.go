// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

// Package web serves the interactive prompt comparison page.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/davetashner/promptlab/internal/lab"
	"github.com/davetashner/promptlab/internal/llm"
	"github.com/davetashner/promptlab/internal/output"
	"github.com/davetashner/promptlab/internal/runner"
	"github.com/davetashner/promptlab/internal/session"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Server holds the single in-memory session behind the page.
type Server struct {
	templates *template.Template
	exec      runner.Executor
	catalog   *llm.Catalog

	// mu guards sess and resets. It is not held while prompts run.
	mu   sync.Mutex
	sess *session.Session

	// resets counts new-session requests; a run started before a reset
	// discards its rows.
	resets uint64

	// run admits one run at a time.
	run *semaphore.Weighted
}

// NewServer creates a server whose session starts with cfg.
func NewServer(exec runner.Executor, catalog *llm.Catalog, cfg lab.GenerationConfig) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Server{
		templates: tmpl,
		exec:      exec,
		catalog:   catalog,
		sess:      session.New(cfg),
		run:       semaphore.NewWeighted(1),
	}, nil
}

// Handler returns the routes of the page wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.HandleIndex)
	mux.HandleFunc("POST /session", s.HandleSession)
	mux.HandleFunc("GET /export", s.HandleExport)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// HandleIndex renders the page.
func (s *Server) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "")
}

// HandleSession applies the submitted form, then performs the requested
// action: add, delete-N, run, reset, or save.
func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "Could not read the form.")
		return
	}

	if msg := s.applyForm(r); msg != "" {
		s.render(w, http.StatusUnprocessableEntity, msg)
		return
	}

	action := r.PostFormValue("action")
	switch {
	case action == "add":
		s.mu.Lock()
		s.sess.AddPrompt()
		s.mu.Unlock()
	case strings.HasPrefix(action, "delete-"):
		i, err := strconv.Atoi(strings.TrimPrefix(action, "delete-"))
		if err != nil {
			s.render(w, http.StatusBadRequest, "Unknown prompt.")
			return
		}
		s.mu.Lock()
		s.sess.DeletePrompt(i)
		s.mu.Unlock()
	case action == "reset":
		s.mu.Lock()
		s.sess.Reset()
		s.resets++
		s.mu.Unlock()
	case action == "run":
		if status, msg := s.runSession(r.Context()); status != http.StatusOK {
			s.render(w, status, msg)
			return
		}
	case action == "save", action == "":
	default:
		s.render(w, http.StatusBadRequest, "Unknown action.")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyForm copies prompt edits and settings from the form into the
// session. It returns a message when a setting is invalid; prompt edits are
// kept either way.
func (s *Server) applyForm(r *http.Request) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prompts, ok := r.PostForm["prompt"]; ok {
		s.sess.SetPrompts(prompts)
	}

	if _, ok := r.PostForm["model"]; !ok {
		return ""
	}
	cfg, msg := parseSettings(r, s.catalog)
	if msg != "" {
		return msg
	}
	s.sess.SetConfig(cfg)
	return ""
}

// parseSettings reads the sidebar fields. A non-empty message means the
// settings were rejected.
func parseSettings(r *http.Request, catalog *llm.Catalog) (lab.GenerationConfig, string) {
	cfg := lab.GenerationConfig{Model: r.PostFormValue("model")}

	tokens, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("max_tokens")))
	if err != nil {
		return cfg, "Max tokens must be a whole number."
	}
	cfg.MaxOutputTokens = tokens

	temp, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("temperature")), 64)
	if err != nil {
		return cfg, "Temperature must be a number."
	}
	cfg.Temperature = temp

	if err := cfg.Validate(); err != nil {
		return cfg, err.Error()
	}
	if err := catalog.Validate(cfg.Model); err != nil {
		return cfg, err.Error()
	}
	return cfg, ""
}

// runSession runs the current prompts. Only one run proceeds at a time;
// a concurrent request gets 409.
func (s *Server) runSession(ctx context.Context) (int, string) {
	if !s.run.TryAcquire(1) {
		return http.StatusConflict, "A run is already in progress."
	}
	defer s.run.Release(1)

	s.mu.Lock()
	prompts := s.sess.Prompts()
	cfg := s.sess.Config()
	started := s.resets
	s.mu.Unlock()

	rows, err := session.RunAll(ctx, s.exec, prompts, cfg)
	if err != nil {
		var ve *session.ValidationError
		if errors.As(err, &ve) {
			return http.StatusUnprocessableEntity, ve.Msg
		}
		return http.StatusInternalServerError, err.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resets != started {
		slog.Info("run discarded after reset", "rows", len(rows))
		return http.StatusOK, ""
	}
	s.sess.ReplaceResults(rows)
	return http.StatusOK, ""
}

// HandleExport writes the current results with one of the output formats.
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	f, err := output.GetFormatter(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	run := output.NewRun(s.sess.Config(), s.sess.Results())
	s.mu.Unlock()

	w.Header().Set("Content-Type", contentTypes[format])
	if err := f.Format(run, w); err != nil {
		slog.Error("export failed", "format", format, "error", err)
	}
}

var contentTypes = map[string]string{
	"json":     "application/json",
	"markdown": "text/markdown; charset=utf-8",
	"html":     "text/html; charset=utf-8",
	"table":    "text/plain; charset=utf-8",
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}
