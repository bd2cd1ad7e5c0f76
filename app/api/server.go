package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ainewslab/autopress/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	// Published output endpoints
	r.GET("/feed.xml", handler.GetFeed)
	r.GET("/posts", handler.GetPosts)

	// Health and status endpoints
	r.GET("/health", handler.GetHealth)
	r.GET("/status", handler.GetStatus)

	// Dashboard API endpoints
	api := r.Group("/api")
	{
		api.GET("/runs", handler.APIListRuns)
		api.POST("/run", handler.APITriggerRun)
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "autopress",
			"version":     cfg.Get().Version,
			"description": "Automated AI news pipeline: candidate drafting, topic deduplication, and publishing",
			"endpoints": map[string]string{
				"feed":   "/feed.xml",
				"posts":  "/posts",
				"health": "/health",
				"status": "/status",
				"runs":   "/api/runs",
				"run":    "/api/run (POST)",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
