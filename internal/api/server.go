// Package api serves parsed peak tables over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samcharles93/peaktable/internal/logger"
)

// DefaultMaxUploadBytes bounds the size of an uploaded peak table.
const DefaultMaxUploadBytes = 256 << 20

type Config struct {
	MaxUploadBytes int64
	// Registry receives the server metrics. Nil creates a private registry.
	Registry *prometheus.Registry
	Logger   logger.Logger
}

type Server struct {
	store    *TableStore
	metrics  *serverMetrics
	registry *prometheus.Registry
	log      logger.Logger
	maxBody  int64
	clock    func() time.Time
}

func NewServer(store *TableStore, cfg Config) *Server {
	if store == nil {
		store = NewTableStore()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		store:    store,
		metrics:  newServerMetrics(cfg.Registry),
		registry: cfg.Registry,
		log:      cfg.Logger.With("component", "api"),
		maxBody:  cfg.MaxUploadBytes,
		clock:    time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/peak-tables", s.handleUpload)
	e.GET("/v1/peak-tables", s.handleList)
	e.GET("/v1/peak-tables/:id", s.handleGet)
	e.GET("/v1/peak-tables/:id/data", s.handleData)
	e.DELETE("/v1/peak-tables/:id", s.handleDelete)

	e.GET("/health", s.handleHealth)
	metrics := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	e.GET("/metrics", func(c *echo.Context) error {
		metrics.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"tables": s.store.Len(),
	})
}
