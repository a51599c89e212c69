package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	pavegin "go.pavemaster.dev/integrations/api/gin"
	"go.pavemaster.dev/integrations/config"
	"go.pavemaster.dev/integrations/log"
)

// HealthCheck reports whether a dependency (usually the store) is reachable.
type HealthCheck func(ctx context.Context) error

// NewHTTPServer creates and configures the gin HTTP server.
func NewHTTPServer(cfg *config.Config, appLogger log.Logger, api *pavegin.IntegrationAPI, gatherer prometheus.Gatherer, health HealthCheck) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.OtelServiceName, appLogger, api, gatherer, health),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		// A sync may include one rate limit backoff plus two platform calls.
		WriteTimeout: 2*cfg.HTTPTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// NewRouter builds the gin engine with logging, tracing, metrics and health routes.
func NewRouter(serviceName string, appLogger log.Logger, api *pavegin.IntegrationAPI, gatherer prometheus.Gatherer, health HealthCheck) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(appLogger))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(pavegin.SecurityHeadersMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	if api == nil {
		appLogger.Error(context.Background(), "IntegrationAPI not provided, integration routes will not be registered", nil)
	} else {
		api.RegisterRoutes(router)
	}

	return router
}

func requestLogger(appLogger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			appLogger.Error(c.Request.Context(), "HTTP Request failed", c.Errors.Last().Err, fields)
			return
		}
		appLogger.Info(c.Request.Context(), "HTTP Request", fields)
	}
}
