package api

import (
	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, pinger handlers.Pinger) {
	health := handlers.Health(pinger)
	r.GET("/health", health)
	r.GET("/api/health", health)
}
