package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/samvad-news-gateway/internal/logger"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Debug          bool
	Observer       HTTPObserver
	MetricsHandler http.Handler
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(handler *Handler, log logger.Logger, opts RouterOptions) *gin.Engine {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log, opts.Observer))
	SetupRoutes(router, handler, opts.MetricsHandler)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	api := router.Group("/api")
	api.GET("/news", handler.GetNews)
}
