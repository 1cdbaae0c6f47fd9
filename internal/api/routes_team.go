package api

import (
	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
)

func registerTeamRoutes(api *gin.RouterGroup, handler *handlers.TeamHandler) {
	team := api.Group("/team")
	{
		team.GET("", handler.List)
		team.POST("/invite", handler.Invite)
		team.DELETE("/invite/:inviteId", handler.CancelInvite)
		team.POST("/accept", handler.Accept)
		team.POST("/remove", handler.RemoveMember)
		team.POST("/role", handler.UpdateRole)
	}
}

func registerSettingsRoutes(api *gin.RouterGroup, handler *handlers.SettingsHandler) {
	settings := api.Group("/settings")
	{
		settings.GET("", handler.Get)
		settings.PUT("", handler.Update)
		settings.PUT("/notifications", handler.UpdateNotifications)
		settings.PUT("/integrations", handler.UpdateIntegrations)
		settings.PUT("/ai", handler.UpdateAISettings)
	}
}
