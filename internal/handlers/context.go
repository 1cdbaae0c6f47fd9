package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// firstNonEmpty returns the first value that is not blank after trimming.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// callerOr returns explicit when set, otherwise the id of the authenticated
// caller (which may be empty).
func callerOr(c *gin.Context, explicit string) string {
	return firstNonEmpty(explicit, middleware.CallerID(c))
}
