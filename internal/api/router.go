package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrosur/riego-backend-go/internal/config"
	"github.com/agrosur/riego-backend-go/internal/handler"
	"github.com/agrosur/riego-backend-go/internal/middleware"
)

// SetupRouter builds the gin engine with middleware and report routes
func SetupRouter(cfg *config.Config, reports *handler.ReportHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Riego Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Identity(cfg.JWTSecret))
	{
		reportsGroup := api.Group("/reports")
		{
			// submissions are rate limited per IP
			reportsGroup.POST("", middleware.RateLimit(30, time.Minute), reports.CreateReport)
			reportsGroup.GET("", reports.ListReports)
			reportsGroup.GET("/:id", reports.GetReport)
			reportsGroup.GET("/:id/download", reports.DownloadReport)
		}
	}

	return r
}
