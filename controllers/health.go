// controllers/health.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"service":   "sales-notes-service",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Sales Notes Service - REST API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"notes":  "/api/sales-notes",
			"health": "/health",
		},
	})
}
