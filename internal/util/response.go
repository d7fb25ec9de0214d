package util

import "github.com/gin-gonic/gin"

// Error writes a uniform error body. Handlers return success payloads
// directly; only failures share a shape.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"detail": msg})
}
