package api

import (
	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
)

func registerUserRoutes(api *gin.RouterGroup, handler *handlers.UserHandler) {
	api.GET("/users/:id", handler.Get)
}

func registerProjectRoutes(api *gin.RouterGroup, handler *handlers.ProjectHandler) {
	projects := api.Group("/projects")
	{
		projects.GET("", handler.List)
		projects.POST("", handler.Create)
		projects.GET("/:id", handler.Get)
	}
}
