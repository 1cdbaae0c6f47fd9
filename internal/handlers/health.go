package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

const healthPingTimeout = 2 * time.Second

// Pinger is satisfied by stores that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a readiness payload. When a pinger is supplied the store is
// checked and a failing ping reports 503.
func Health(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger == nil {
			response.Success(c, http.StatusOK, gin.H{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(requestContext(c), healthPingTimeout)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			logger.WithModule("health").Warn("store ping failed", zap.Error(err))
			response.Success(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
