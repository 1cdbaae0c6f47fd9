package response

import (
	"net/http"
	"sync/atomic"

	appErrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the payload written for every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageBody is used by endpoints that only acknowledge an action.
type MessageBody struct {
	Message string `json:"message"`
}

var exposeDetails atomic.Bool

// SetExposeDetails toggles whether internal error text is echoed back to
// clients. Only enabled in development.
func SetExposeDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

// Success writes the resource as the JSON body.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Message writes a {"message": ...} acknowledgement.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageBody{Message: message})
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErrors.StatusCode(appErr)

	body := ErrorBody{Error: appErr.Message}
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.String("code", appErr.Code)}
		if c.Request != nil {
			fields = append(fields,
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
		}
		if appErr.Internal != nil {
			fields = append(fields, zap.Error(appErr.Internal))
		}
		logger.WithModule("http").Error(appErr.Message, fields...)

		if exposeDetails.Load() && appErr.Internal != nil {
			body.Details = appErr.Internal.Error()
		}
	}

	c.AbortWithStatusJSON(status, body)
}
