package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

type ProjectHandler struct {
	svc *services.ProjectService
}

type createProjectRequest struct {
	Name        string `json:"name" validate:"max=256"`
	Description string `json:"description" validate:"max=4096"`
	OwnerID     string `json:"ownerId"`
}

func NewProjectHandler(st store.Store) (*ProjectHandler, error) {
	svc, err := services.NewProjectService(st)
	if err != nil {
		return nil, err
	}
	return &ProjectHandler{svc: svc}, nil
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var body createProjectRequest
	if !bindAndValidate(c, &body) {
		return
	}

	project, err := h.svc.Create(requestContext(c), services.CreateProjectInput{
		Name:        body.Name,
		Description: body.Description,
		OwnerID:     callerOr(c, body.OwnerID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// GET /api/projects?ownerId=
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.ListByOwner(requestContext(c), callerOr(c, c.Query("ownerId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, projects)
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}
