package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySize rejects requests whose declared length exceeds limit and caps the body
// reader for the rest, so a multipart parse past the limit fails.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request body too large")
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success":       false,
				"error":         "File too large",
				"policy_loaded": false,
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
