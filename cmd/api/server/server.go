package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stock-portal-api/cmd/api/di"
	ginrouter "stock-portal-api/internal/adapter/gin/router"
	"stock-portal-api/internal/config"
)

// Server owns the HTTP listener for the REST API
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server

	listener net.Listener
}

// New creates a new server instance from the wired container
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(
		c.UserHandler,
		c.SentimentHandler,
		c.SystemHandler,
		ginrouter.Options{
			AllowedOrigin: cfg.CORS.AllowedOrigin,
			RateLimiter:   c.RateLimiter,
			Metrics:       c.Metrics,
			MetricsPath:   cfg.Metrics.Path,
			Gatherer:      c.Registry,
			Swagger:       cfg.App.SwaggerEnabled,
		},
		l,
	)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Listen binds the HTTP address. Start calls it when needed.
func (s *Server) Listen(ctx context.Context) error {
	if s.listener != nil {
		return nil
	}
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = lis
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.HTTP.Addr
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}

	s.Logger.Info("HTTP server running", zap.String("address", s.Addr()))

	if err := s.HTTP.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server...")
	return s.HTTP.Shutdown(ctx)
}
