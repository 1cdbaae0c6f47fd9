package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

type settingsRequest struct {
	ProjectID     string            `json:"projectId"`
	Notifications datatypes.JSONMap `json:"notifications"`
	Integrations  datatypes.JSONMap `json:"integrations"`
	AISettings    datatypes.JSONMap `json:"aiSettings"`
	General       datatypes.JSONMap `json:"general"`
}

func NewSettingsHandler(st store.Store, opts ...services.SettingsOption) (*SettingsHandler, error) {
	svc, err := services.NewSettingsService(st, opts...)
	if err != nil {
		return nil, err
	}
	return &SettingsHandler{svc: svc}, nil
}

// GET /api/settings?projectId=
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(requestContext(c), c.Query("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// PUT /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var body settingsRequest
	if !bindAndValidate(c, &body) {
		return
	}

	settings, err := h.svc.Update(requestContext(c), body.ProjectID, services.SettingsPatch{
		Notifications: body.Notifications,
		Integrations:  body.Integrations,
		AISettings:    body.AISettings,
		General:       body.General,
	})
	h.write(c, settings, err)
}

// PUT /api/settings/notifications
func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	var body settingsRequest
	if !bindAndValidate(c, &body) {
		return
	}
	settings, err := h.svc.UpdateNotifications(requestContext(c), body.ProjectID, body.Notifications)
	h.write(c, settings, err)
}

// PUT /api/settings/integrations
func (h *SettingsHandler) UpdateIntegrations(c *gin.Context) {
	var body settingsRequest
	if !bindAndValidate(c, &body) {
		return
	}
	settings, err := h.svc.UpdateIntegrations(requestContext(c), body.ProjectID, body.Integrations)
	h.write(c, settings, err)
}

// PUT /api/settings/ai
func (h *SettingsHandler) UpdateAISettings(c *gin.Context) {
	var body settingsRequest
	if !bindAndValidate(c, &body) {
		return
	}
	settings, err := h.svc.UpdateAISettings(requestContext(c), body.ProjectID, body.AISettings)
	h.write(c, settings, err)
}

func (h *SettingsHandler) write(c *gin.Context, settings any, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}
