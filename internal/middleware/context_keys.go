package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// GetRequestIDFromCtx returns the id assigned by StructuredLoggingMiddleware, if any.
func GetRequestIDFromCtx(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// GetRequestIDFromContext retrieves the request id from the Gin context.
func GetRequestIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(requestIDKey))
	if !exists {
		return GetRequestIDFromCtx(c.Request.Context())
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
