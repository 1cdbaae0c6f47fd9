package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

// Recovery turns a handler panic into a generic 500 body. The panic value
// and stack only go to the log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			logger.WithModule("http").Error("panic recovered",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", RequestIDFrom(c)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{
				Error: apperrors.ErrInternalServer.Message,
			})
		}()
		c.Next()
	}
}

// NotFoundHandler answers unknown routes with the standard error body.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.ErrorBody{
		Error: fmt.Sprintf("route %s not found", c.Request.URL.Path),
	})
}
