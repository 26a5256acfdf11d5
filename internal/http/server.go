// Package http serves the ledger UI: a single page with HTMX-driven
// partials for the daily, weekly, monthly and yearly views, plus form
// endpoints for every mutation. Rendering always recomputes from the state
// store; nothing derived is cached.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ledger/internal/state"
	appweb "ledger/web"
)

type Server struct {
	http.Server
	store       *state.Store
	templates   *template.Template
	logger      *slog.Logger
	rateLimiter *rateLimiter
	// now is injectable for tests; defaults to time.Now.
	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// server.
func NewServer(addr string, store *state.Store, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:       store,
		logger:      logger,
		rateLimiter: newRateLimiter(),
		now:         time.Now,
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/", s.withMiddleware(s.handleIndex))
	mux.HandleFunc("/ui/daily", s.withMiddleware(s.handleDaily))
	mux.HandleFunc("/ui/weekly", s.withMiddleware(s.handleWeekly))
	mux.HandleFunc("/ui/monthly", s.withMiddleware(s.handleMonthly))
	mux.HandleFunc("/ui/yearly", s.withMiddleware(s.handleYearly))

	mux.HandleFunc("/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("/expenses/delete", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("/income", s.withMiddleware(s.handleSetIncome))
	mux.HandleFunc("/settings", s.withMiddleware(s.handleSettings))
	mux.HandleFunc("/settings/clear-all", s.withMiddleware(s.handleClearAll))

	return s
}

// Shutdown stops the HTTP listener, the rate limiter janitor, and waits for
// pending snapshot writes to land.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
		s.store.Flush()
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
