// utils/respond.go
package utils

import "github.com/gin-gonic/gin"

func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func RespondWithErrorDetail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, gin.H{"error": message, "detail": detail})
}
