// Web UI serving the force-graph dashboard and its JSON API
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"command-center/internal/center"
	"command-center/internal/logging"
	"command-center/internal/snapshot"
	"command-center/internal/webhook"
)

//go:embed templates/index.html
var content embed.FS

// Server exposes the dashboard page and the JSON API the page polls.
type Server struct {
	monitor *center.Monitor
	hook    *webhook.Client
	tpl     *template.Template
}

// NewServer wires the web layer. hook may be nil when no webhook base URL
// is configured; command endpoints then answer 503.
func NewServer(monitor *center.Monitor, hook *webhook.Client) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{monitor: monitor, hook: hook, tpl: tpl}
}

// Routes returns the chi router for the dashboard.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/universe", s.handleUniverse)
		r.Get("/orbit/{code}", s.handleOrbit)
		r.Get("/status", s.handleStatus)
		r.Get("/summary", s.handleSummary)
		r.Get("/activity", s.handleActivity)
		r.Get("/emails", s.handleEmails)
		r.Post("/command", s.handleCommand)
		r.Post("/action/{name}", s.handleAction)
		r.Get("/ping", s.handlePing)
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.Routes()}

	errCh := make(chan error, 1)
	go func() {
		log.Info("web UI listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.monitor.Config()
	data := struct {
		Title        string
		QuickActions []struct{ Name, Label string }
		Refresh      int64
	}{
		Title:   "GANDI Command Center",
		Refresh: cfg.RefreshInterval.Std().Milliseconds(),
	}
	for _, a := range cfg.QuickActions {
		data.QuickActions = append(data.QuickActions, struct{ Name, Label string }{a.Name, a.Label})
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleUniverse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Universe())
}

func (s *Server) handleOrbit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	g := s.monitor.Orbit(code)
	if g == nil {
		writeError(w, http.StatusNotFound, "unknown entity code: "+code)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Statuses())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Summary())
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Activity())
}

func (s *Server) handleEmails(w http.ResponseWriter, r *http.Request) {
	emails := s.monitor.PriorityEmails()
	if emails == nil {
		emails = []snapshot.PriorityEmail{}
	}
	writeJSON(w, http.StatusOK, emails)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.hook == nil {
		writeError(w, http.StatusServiceUnavailable, "no webhook base URL configured")
		return
	}
	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "command must not be empty")
		return
	}
	body, err := s.hook.SendCommand(r.Context(), req.Command)
	if err != nil {
		logging.FromContext(r.Context()).Error("command dispatch failed", "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if s.hook == nil {
		writeError(w, http.StatusServiceUnavailable, "no webhook base URL configured")
		return
	}
	name := chi.URLParam(r, "name")
	action, ok := s.monitor.Config().Action(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown action: "+name)
		return
	}
	body, err := s.hook.Call(r.Context(), action.Endpoint, nil)
	if err != nil {
		logging.FromContext(r.Context()).Error("quick action failed", "action", name, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if s.hook == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "reason": "no webhook base URL configured"})
		return
	}
	if _, err := s.hook.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "reason": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
