package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"stock-portal-api/api/swagger"
	"stock-portal-api/internal/adapter/gin/handler"
	"stock-portal-api/internal/adapter/gin/middleware"
	"stock-portal-api/pkg/logger"
)

// Options carries the optional pieces of the HTTP stack.
type Options struct {
	AllowedOrigin string
	RateLimiter   *middleware.RateLimiter // nil disables rate limiting
	Metrics       *middleware.Metrics     // nil disables metrics collection
	MetricsPath   string
	Gatherer      prometheus.Gatherer // served at MetricsPath when Metrics is set
	Swagger       bool                // serve the API document and Swagger UI under /swagger/
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	sentimentHandler *handler.SentimentHandler,
	systemHandler *handler.SystemHandler,
	opts Options,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(opts.AllowedOrigin))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Handler())
	}

	router.GET("/", systemHandler.Home)
	router.GET("/health", systemHandler.Health)
	if opts.Metrics != nil && opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	if opts.Swagger {
		mountSwagger(router)
		log.Info("Swagger UI available at", zap.String("path", "/swagger/index.html"))
	}

	api := router.Group("")
	api.Use(opts.RateLimiter.Handler())
	{
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)
		api.POST("/analyze-sentiment", sentimentHandler.Analyze)
	}

	return router
}

func mountSwagger(router *gin.Engine) {
	docPath := "/" + swagger.FileName
	ui := httpSwagger.Handler(httpSwagger.URL("/swagger" + docPath))

	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == docPath {
			c.Data(http.StatusOK, "application/json; charset=utf-8", swagger.Document)
			return
		}
		ui(c.Writer, c.Request)
	})
}
