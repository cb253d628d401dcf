// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fulfilment/internal/domain/catalogs/warehouse"
	"fulfilment/internal/infrastructure/http/v1/handlers"
	"fulfilment/internal/infrastructure/http/v1/middleware"
	"fulfilment/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Warehouses serves the lifecycle endpoints
	Warehouses *warehouse.Service

	// Health serves /health; nil installs a liveness-only handler
	Health *handlers.HealthHandler

	// Metrics is mounted at /metrics when set
	Metrics http.Handler

	// CORSAllowedOrigins; empty or "*" allows any origin
	CORSAllowedOrigins []string

	// Development keeps gin in debug mode
	Development bool
}

// NewRouter creates and configures the gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Order matters: Recovery records panics for ErrorHandler to render.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger, "/health", "/metrics"))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	health := cfg.Health
	if health == nil {
		health = handlers.NewHealthHandler(gin.H{"app": "fulfilment"}, nil)
	}
	healthGroup := router.Group("/health")
	{
		healthGroup.GET("/live", health.Live)
		healthGroup.GET("/ready", health.Ready)
		healthGroup.GET("/info", health.Info)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	warehouseHandler := handlers.NewWarehouseHandler(handlers.NewBaseHandler(), cfg.Warehouses)
	RegisterWarehouseRoutes(router.Group("/warehouse"), warehouseHandler)
	RegisterWarehouseRoutes(router.Group("/api/v1/warehouse"), warehouseHandler)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", middleware.HeaderRequestID, middleware.HeaderTraceID},
		ExposeHeaders: []string{middleware.HeaderRequestID, middleware.HeaderTraceID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
