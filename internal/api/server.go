package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/leadcrawl/internal/config"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

const readHeaderTimeout = 10 * time.Second

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(
	log logger.Interface,
	leads *LeadsHandler,
	pipeline *PipelineHandler,
) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/stats", leads.GetStats)
	v1.GET("/leads", leads.ListLeads)
	v1.GET("/companies/:domain", leads.GetCompany)
	v1.DELETE("/companies/:domain", leads.DeleteCompany)

	if pipeline != nil {
		v1.POST("/pipeline/discover", pipeline.Discover)
		v1.POST("/pipeline/enrich", pipeline.Enrich)
		v1.POST("/pipeline/score", pipeline.Score)
		v1.POST("/pipeline/plan", pipeline.Plan)
		v1.POST("/pipeline/send", pipeline.Send)
	}

	return router
}

// StartHTTPServer builds the HTTP server with the given configuration.
func StartHTTPServer(
	log logger.Interface,
	cfg *config.ServerConfig,
	leads *LeadsHandler,
	pipeline *PipelineHandler,
) *http.Server {
	router := SetupRouter(log, leads, pipeline)

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// loggingMiddleware creates a middleware that logs HTTP requests.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", statusCode,
			"latency", latency,
		)
	}
}

// corsMiddleware adds CORS headers to allow dashboard access.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
