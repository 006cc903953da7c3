// Package server exposes pull request retrieval as a small JSON API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/leonardo-bento/githubprs/github"
)

const shutdownTimeout = 10 * time.Second

// Fetcher is the retrieval operation the API serves.
type Fetcher interface {
	FetchOpenPullRequests(ctx context.Context, params github.QueryParameters) ([]github.PullRequest, error)
}

// Config holds listener settings and the defaults applied to requests
// that leave a parameter out.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DefaultToken        string
	DefaultOrganization string
	DefaultAuthors      []string
}

type Server struct {
	cfg     Config
	log     logrus.FieldLogger
	fetcher Fetcher
	metrics *Metrics
	now     func() time.Time
}

func New(cfg Config, fetcher Fetcher, metrics *Metrics, log logrus.FieldLogger) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		fetcher: fetcher,
		metrics: metrics,
		now:     time.Now,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.log))
	router.Use(middleware.Recoverer)
	if s.metrics != nil {
		router.Use(s.metrics.Middleware)
	}

	router.Get("/health", Healthcheck())
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/pulls", s.ListPulls)
	})

	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", s.cfg.Address).Info("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down http server")
	}
	return nil
}

func Healthcheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

// requestLogger logs one line per request. Query strings are logged as
// they arrive; credentials travel in headers and are never logged.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.WithFields(logrus.Fields{
					"method":     r.Method,
					"path":       r.URL.RequestURI(),
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
					"request_id": middleware.GetReqID(r.Context()),
				}).Info("Request completed")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
