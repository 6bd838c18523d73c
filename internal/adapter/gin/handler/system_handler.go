package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stock-portal-api/pkg/logger"
)

// WelcomeMessage is the plain-text body served at the root path
const WelcomeMessage = "Welcome to the Stock and Mutual Fund API!"

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name   string
	pinger Pinger
}

// SystemHandler serves the landing and health endpoints
type SystemHandler struct {
	deps    []dependency
	service string
	log     *zap.Logger
}

// NewSystemHandler creates a new SystemHandler instance. The store is
// reported as the "database" check.
func NewSystemHandler(store Pinger, service string, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		deps:    []dependency{{name: "database", pinger: store}},
		service: service,
		log:     log,
	}
}

// WithDependency adds a named check to /health.
func (h *SystemHandler) WithDependency(name string, p Pinger) *SystemHandler {
	h.deps = append(h.deps, dependency{name: name, pinger: p})
	return h
}

// Home handles GET /
func (h *SystemHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, WelcomeMessage)
}

// Health handles GET /health. Any failing dependency yields 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	healthy := true
	checks := make(map[string]string, len(h.deps))
	for _, d := range h.deps {
		if err := d.pinger.Ping(ctx); err != nil {
			logger.WithContext(ctx, h.log).Warn("Health check failed",
				zap.String("dependency", d.name),
				zap.Error(err),
			)
			checks[d.name] = "down"
			healthy = false
			continue
		}
		checks[d.name] = "up"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"checks":  checks,
	})
}
