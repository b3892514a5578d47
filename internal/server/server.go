// Package server exposes strip rendering and template storage over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /api/render?format=png|jpeg|pdf
//	GET    /api/templates
//	POST   /api/templates
//	GET    /api/templates/{id}
//	DELETE /api/templates/{id}
//
// Errors are JSON bodies of the form {"code": "...", "message": "..."}
// with the status from errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/template"
)

// MaxBodyBytes bounds request bodies. Photos usually arrive as data URIs.
const MaxBodyBytes = 64 << 20

// Server serves the HTTP API.
type Server struct {
	templates template.Store
	runner    *pipeline.Runner
	resolver  imagesrc.Resolver
	logger    *log.Logger
	origins   []string
	defaults  pipeline.Options
}

// Option configures a Server.
type Option func(*Server)

// WithTemplates enables the template routes.
func WithTemplates(s template.Store) Option {
	return func(srv *Server) { srv.templates = s }
}

// WithRunner sets the export runner.
func WithRunner(r *pipeline.Runner) Option {
	return func(srv *Server) { srv.runner = r }
}

// WithResolver sets how photo references in render requests load.
func WithResolver(r imagesrc.Resolver) Option {
	return func(srv *Server) { srv.resolver = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins ...string) Option {
	return func(srv *Server) { srv.origins = origins }
}

// WithExportDefaults sets the quality, oversample and copies used when a
// request leaves them zero.
func WithExportDefaults(o pipeline.Options) Option {
	return func(srv *Server) { srv.defaults = o }
}

// New creates a server. Without a resolver only data URIs are accepted,
// so requests cannot read the server's filesystem.
func New(opts ...Option) *Server {
	s := &Server{
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = &imagesrc.Mux{Data: imagesrc.DataURI{}}
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length"},
		ExposedHeaders: []string{"Content-Disposition", HeaderSceneHash, HeaderCache},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleSaveTemplate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTemplate)
				r.Delete("/", s.handleDeleteTemplate)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}
