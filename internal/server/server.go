// Package server hosts one explorer session behind a small JSON API and a
// live HTML page. The page posts clicks and hovers back and redraws from
// the view each call answers with.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msalah0e/scentnet/internal/logging"
	"github.com/msalah0e/scentnet/internal/session"
)

// Options configures the server.
type Options struct {
	Addr  string
	Title string
	// DetailLimit caps the similar perfumes listed by /api/nodes/{id}
	// unless the request asks for another count.
	DetailLimit int
	// ReloadLimit reloads are allowed per ReloadWindow and client.
	ReloadLimit  int
	ReloadWindow time.Duration
}

// DefaultOptions returns the options used by `scentnet serve`.
func DefaultOptions() Options {
	return Options{
		Addr:         "127.0.0.1:7410",
		Title:        "scentnet",
		DetailLimit:  10,
		ReloadLimit:  6,
		ReloadWindow: time.Minute,
	}
}

// Server serves one explorer.
type Server struct {
	explorer *session.Explorer
	opts     Options
	handler  http.Handler
}

// New builds the router. Zero option fields take their defaults.
func New(e *session.Explorer, opts Options) *Server {
	def := DefaultOptions()
	if opts.Addr == "" {
		opts.Addr = def.Addr
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.DetailLimit <= 0 {
		opts.DetailLimit = def.DetailLimit
	}
	if opts.ReloadLimit <= 0 {
		opts.ReloadLimit = def.ReloadLimit
	}
	if opts.ReloadWindow <= 0 {
		opts.ReloadWindow = def.ReloadWindow
	}
	s := &Server{explorer: e, opts: opts}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLog)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.page)
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.NoCache)
		r.Get("/view", s.view)
		r.Get("/state", s.state)
		r.Get("/facets", s.facets)
		r.Get("/nodes/{id}", s.node)
		r.Post("/filter", s.filter)
		r.Put("/filter", s.replaceFilter)
		r.Post("/toggle", s.toggle)
		r.Post("/select", s.selectNode)
		r.Post("/hover", s.hover)
		r.Post("/collection", s.collection)
		r.With(httprate.Limit(
			s.opts.ReloadLimit,
			s.opts.ReloadWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, http.StatusTooManyRequests, "rate_limited", errors.New("too many reloads"))
			}),
		)).Post("/reload", s.reload)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", errors.New("no such route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", errors.New("method not allowed"))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.With("server").Info().Str("addr", s.opts.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
