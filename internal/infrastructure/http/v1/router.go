// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"partshub/internal/domain/locations"
	"partshub/internal/domain/reports"
	"partshub/internal/infrastructure/http/v1/handlers"
	"partshub/internal/infrastructure/http/v1/middleware"
	"partshub/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// DB is checked by the readiness probe
	DB handlers.Pinger

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	LocationService *locations.Service
	ReportService   *reports.Service

	// CORSAllowedOrigins lists browser origins; "*" allows any
	CORSAllowedOrigins []string

	// Debug switches Gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerLocationRoutes(v1, protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	c.ExposeHeaders = []string{middleware.HeaderRequestID, middleware.HeaderTraceID}
	c.MaxAge = 12 * time.Hour

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// registerLocationRoutes registers storage location endpoints.
func registerLocationRoutes(public, protected *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewLocationsHandler(handlers.NewBaseHandler(), cfg.LocationService)
	RegisterLocationRoutes(
		public.Group("/storage-locations"),
		protected.Group("/storage-locations"),
		handler,
	)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.ReportService == nil {
		return
	}
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.ReportService)
	rg.GET("/reports/financial-summary", handler.FinancialSummary)
}
