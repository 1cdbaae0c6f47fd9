package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

// TeamHandler serves project membership and the invitation flow.
type TeamHandler struct {
	team    *services.TeamService
	invites *services.InviteService
}

type inviteRequest struct {
	Email     string `json:"email" validate:"max=320"`
	Role      string `json:"role"`
	ProjectID string `json:"projectId"`
	InvitedBy string `json:"invitedBy"`
}

type acceptInviteRequest struct {
	InviteCode string `json:"inviteCode" validate:"max=128"`
	UserName   string `json:"userName" validate:"max=128"`
}

type removeMemberRequest struct {
	UserID    string `json:"userId"`
	ProjectID string `json:"projectId"`
}

type updateRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func NewTeamHandler(st store.Store, inviteOpts ...services.InviteOption) (*TeamHandler, error) {
	team, err := services.NewTeamService(st)
	if err != nil {
		return nil, err
	}
	invites, err := services.NewInviteService(st, inviteOpts...)
	if err != nil {
		return nil, err
	}
	return &TeamHandler{team: team, invites: invites}, nil
}

// GET /api/team?projectId=
func (h *TeamHandler) List(c *gin.Context) {
	overview, err := h.team.ListMembers(requestContext(c), c.Query("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

// POST /api/team/invite
func (h *TeamHandler) Invite(c *gin.Context) {
	var body inviteRequest
	if !bindAndValidate(c, &body) {
		return
	}

	invite, err := h.invites.Invite(requestContext(c), services.InviteInput{
		Email:     body.Email,
		Role:      models.UserRole(body.Role),
		ProjectID: body.ProjectID,
		InvitedBy: callerOr(c, body.InvitedBy),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, invite)
}

// POST /api/team/accept
func (h *TeamHandler) Accept(c *gin.Context) {
	var body acceptInviteRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.invites.Accept(requestContext(c), body.InviteCode, body.UserName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// DELETE /api/team/invite/:inviteId
func (h *TeamHandler) CancelInvite(c *gin.Context) {
	message, err := h.invites.Cancel(requestContext(c), c.Param("inviteId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, message)
}

// POST /api/team/remove
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	var body removeMemberRequest
	if !bindAndValidate(c, &body) {
		return
	}

	members, err := h.team.RemoveMember(requestContext(c), body.ProjectID, body.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, members)
}

// POST /api/team/role
func (h *TeamHandler) UpdateRole(c *gin.Context) {
	var body updateRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.team.UpdateMemberRole(requestContext(c), body.UserID, models.UserRole(body.Role))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
