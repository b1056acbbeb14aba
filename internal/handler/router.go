package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает gin.Engine с общими middleware, /health и /metrics.
func NewRouter(batches *BatchHandler, metricsHandler http.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ZapLogger(logger.Named("HTTP")))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
	batches.RegisterRoutes(router)
	return router
}
