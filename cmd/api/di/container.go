package di

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stock-portal-api/cmd/api/infrastructure"
	"stock-portal-api/internal/adapter/db/gormstore"
	ginhandler "stock-portal-api/internal/adapter/gin/handler"
	"stock-portal-api/internal/adapter/gin/middleware"
	"stock-portal-api/internal/config"
	sentimentuc "stock-portal-api/internal/usecase/sentiment"
	"stock-portal-api/internal/usecase/user"
	redisclient "stock-portal-api/pkg/redis"
	"stock-portal-api/pkg/security"
	"stock-portal-api/pkg/sentiment"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	DB               *gorm.DB
	RedisClient      *redisclient.Client // nil unless rate limiting is enabled
	UserUC           *user.Usecase
	SentimentUC      *sentimentuc.Usecase
	RateLimiter      *middleware.RateLimiter
	Metrics          *middleware.Metrics
	Registry         *prometheus.Registry
	UserHandler      *ginhandler.UserHandler
	SentimentHandler *ginhandler.SentimentHandler
	SystemHandler    *ginhandler.SystemHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: l,
		DB:     db,
	}

	// Redis is only needed by the rate limiter
	if cfg.RateLimit.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           true,
			},
			l,
		)
	}

	if cfg.Metrics.Enabled {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.Metrics = middleware.NewMetrics(c.Registry, metricsNamespace(cfg.Logger.ServiceName))
	}

	// Initialize repository and use cases
	repo := gormstore.NewUserRepo(db, l)
	c.UserUC = user.New(repo, security.NewBcryptHasher(cfg.Security.BcryptCost), l)
	c.SentimentUC = sentimentuc.New(sentiment.NewVaderScorer(), l)

	// Initialize Gin handlers
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.SentimentHandler = ginhandler.NewSentimentHandler(c.SentimentUC, l)
	c.SystemHandler = ginhandler.NewSystemHandler(repo, cfg.Logger.ServiceName, l)
	if c.RedisClient != nil {
		c.SystemHandler.WithDependency("redis", c.RedisClient)
	}

	return c, nil
}

// metricsNamespace turns a service name into a valid Prometheus namespace.
func metricsNamespace(service string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(service)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
