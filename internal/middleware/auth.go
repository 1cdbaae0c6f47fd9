package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
)

// OptionalAuth reads a bearer token when one is supplied and exposes the
// caller's identity to handlers. No route requires credentials, so a missing,
// malformed, expired or foreign token leaves the request anonymous. A stale
// token kept by a client across a secret rotation must still reach login.
func OptionalAuth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		if authz == "" || jwt == nil {
			c.Next()
			return
		}

		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			ignoreToken(c, "unsupported authorization scheme", nil)
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(authz[7:]))
		if err != nil {
			ignoreToken(c, "invalid bearer token", err)
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)

		c.Next()
	}
}

func ignoreToken(c *gin.Context, reason string, err error) {
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.String("request_id", RequestIDFrom(c)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.WithModule("auth").Debug("treating request as anonymous", fields...)
	c.Next()
}

// CallerID returns the authenticated user id, or "" for anonymous requests.
func CallerID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
