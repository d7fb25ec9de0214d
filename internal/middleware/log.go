package middleware

import (
	"log/slog"
	"time"

	"github.com/Roshan1923/BillBrain/internal/models"

	"github.com/gin-gonic/gin"
)

// RequestLogger emits one structured line per request after it completes.
// The user id is included when the auth middleware ran first.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
		}
		if v, ok := c.Get(CurrentUserKey); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				attrs = append(attrs, slog.String("user_id", user.UserID))
			}
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request", attrs...)
		} else {
			logger.Info("request", attrs...)
		}
	}
}
