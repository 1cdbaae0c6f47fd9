package api

import (
	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
)

func registerTaskRoutes(api *gin.RouterGroup, handler *handlers.TaskHandler) {
	tasks := api.Group("/tasks")
	{
		tasks.GET("", handler.List)
		tasks.POST("", handler.Create)
		tasks.PUT("/:id", handler.Update)
		tasks.DELETE("/:id", handler.Delete)
		tasks.POST("/:id/submit", handler.Submit)
		tasks.POST("/:id/approve", handler.Approve)
	}
}
