package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/procurement_agent/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
	"/":       true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog.
// Clients are anonymous, so events are keyed by client IP.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			return
		}

		// Create event name from route path (e.g., "/get_realtime_data" -> "get_realtime_data")
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"failed":      len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest,
		}
		if requestID, ok := GetRequestIDFromContext(c); ok {
			props["request_id"] = requestID
		}

		posthogClient.Enqueue(c.ClientIP(), eventName, props)
	}
}
