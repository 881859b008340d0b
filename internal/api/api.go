// Package api serves a read and cleanup HTTP API over the stored job
// checkpoints, plus the health and Prometheus metrics endpoints.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pyldin601/long-long-job/internal/app/checkpointlist"
	"github.com/pyldin601/long-long-job/internal/app/checkpointremove"
	"github.com/pyldin601/long-long-job/internal/app/checkpointshow"
	"github.com/pyldin601/long-long-job/internal/log"
	"github.com/pyldin601/long-long-job/internal/storage"
)

// HandlerConfig is the configuration of the API handler.
type HandlerConfig struct {
	Repository storage.CheckpointRepository
	// Registerer registers the HTTP metrics, defaults to the Prometheus default registerer.
	Registerer prometheus.Registerer
	// Gatherer is served on /metrics, defaults to the Prometheus default gatherer.
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         log.Logger
}

func (c *HandlerConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}

	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "api.Handler"})

	return nil
}

type handler struct {
	listSvc   *checkpointlist.Service
	showSvc   *checkpointshow.Service
	removeSvc *checkpointremove.Service
	logger    log.Logger
}

// NewHandler returns the HTTP handler of the API.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	listSvc, err := checkpointlist.NewService(checkpointlist.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create checkpoint list service: %w", err)
	}

	showSvc, err := checkpointshow.NewService(checkpointshow.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create checkpoint show service: %w", err)
	}

	removeSvc, err := checkpointremove.NewService(checkpointremove.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create checkpoint remove service: %w", err)
	}

	httpMetrics, err := newHTTPMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("could not register HTTP metrics: %w", err)
	}

	h := handler{
		listSvc:   listSvc,
		showSvc:   showSvc,
		removeSvc: removeSvc,
		logger:    cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.loggingMiddleware)
	r.Use(httpMetrics.middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1/checkpoints", func(r chi.Router) {
		r.Get("/", h.handleListCheckpoints)
		r.Get("/{jobID}", h.handleGetCheckpoint)
		r.Delete("/{jobID}", h.handleDeleteCheckpoint)
	})

	return r, nil
}

func (h handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.WithValues(log.Kv{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request-id": middleware.GetReqID(r.Context()),
		}).Debugf("Request handled in %s", time.Since(start))
	})
}
