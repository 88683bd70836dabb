// Package server provides the HTTP server of the gesture service.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	Addr      string
	StaticDir string
	App       *app.App
	Logger    zerolog.Logger
}

// Server represents the HTTP server of the application.
type Server struct {
	config Config
	mux    *chi.Mux
	srv    *http.Server
	log    zerolog.Logger
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    chi.NewRouter(),
		log:    config.Logger,
		start:  time.Now(),
	}
	s.setupRoutes()
	s.srv = &http.Server{
		Addr:              config.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.Use(chimw.RequestID, chimw.Recoverer, s.accessLog)

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		a := s.config.App
		if a == nil {
			return
		}

		api.NewStatusHandler(a).Routes(r)
		r.Route("/gestures", api.NewGestureHandler(a).Routes)
		r.Route("/hooks", api.NewHookHandler(a.HookManager()).Routes)
		r.Handle("/ws", NewEventsHandler(a.Hub(), s.log))

		// Timeline and bindings need persistence
		if st := a.Store(); st != nil {
			r.Route("/events", api.NewEventHandler(st).Routes)
			r.Route("/bindings", api.NewBindingHandler(st, a, a.HookManager()).Routes)
		}
	})

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		s.mux.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// accessLog logs one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request done")
	})
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.App != nil {
		response["enabled"] = s.config.App.IsEnabled()
	}
	writeJSON(w, http.StatusOK, response)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.config.Addr).Msg("http listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
