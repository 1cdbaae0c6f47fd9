package api

import (
	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
)

func registerAuthRoutes(api *gin.RouterGroup, handler *handlers.AuthHandler) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/signup", handler.Signup)
	}
}
