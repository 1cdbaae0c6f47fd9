package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(st store.Store) (*UserHandler, error) {
	svc, err := services.NewUserService(st)
	if err != nil {
		return nil, err
	}
	return &UserHandler{svc: svc}, nil
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
