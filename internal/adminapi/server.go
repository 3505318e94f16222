// Package adminapi is the optional observability surface of §B.2: a
// loopback-bound, disabled-by-default HTTP API exposing /healthz and
// /stats. It mirrors the teacher's internal/api package (gin.Engine,
// gin.Recovery, a slog request-log middleware, typed JSON responses) but
// never touches the forwarding core's state directly — it reads counters
// through StatsSource, which forwarder.Dispatcher satisfies via Snapshot.
package adminapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/lennartvoss/sentineldns/internal/adminapi/docs"
	"github.com/lennartvoss/sentineldns/internal/filter"
	"github.com/lennartvoss/sentineldns/internal/forwarder"
)

// FilterStatsSource is the subset of filter.Filter the admin API reads.
type FilterStatsSource interface {
	Stats() filter.Stats
}

// StatsSource is the subset of forwarder.Dispatcher the admin API reads.
type StatsSource interface {
	Snapshot() forwarder.StatsSnapshot
}

// Config is the host/port the admin surface binds to, taken from
// config.AdminConfig once the caller has confirmed Enabled.
type Config struct {
	Host string
	Port int
}

// Server is the admin HTTP surface. It owns no forwarding state: Forwarding
// and Filtering are read-only views supplied by the caller at construction.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
	forwarding StatsSource
	filtering  FilterStatsSource
}

// New builds a Server. forwarding and filtering may be nil, in which case
// their sections of GET /stats report zero values.
func New(cfg Config, logger *slog.Logger, forwarding StatsSource, filtering FilterStatsSource) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(slogRequestLogger(logger))

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		engine:     engine,
		startTime:  time.Now(),
		forwarding: forwarding,
		filtering:  filtering,
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/stats", s.handleStats)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Addr returns the host:port the admin surface listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Engine exposes the underlying gin.Engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ListenAndServe blocks serving the admin API until Shutdown is called.
func (s *Server) ListenAndServe() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the admin HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func slogRequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		if logger != nil {
			logger.Debug("admin api request",
				"method", method,
				"path", path,
				"status", c.Writer.Status(),
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		}
	}
}
