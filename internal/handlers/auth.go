package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

type AuthHandler struct {
	svc *services.AuthService
}

type loginRequest struct {
	InviteCode string `json:"inviteCode" validate:"max=128"`
}

type signupRequest struct {
	Name        string `json:"name" validate:"max=128"`
	Email       string `json:"email" validate:"max=320"`
	ProjectName string `json:"projectName" validate:"max=256"`
}

func NewAuthHandler(st store.Store, jwt *iauth.JWTService, opts ...services.AuthOption) (*AuthHandler, error) {
	svc, err := services.NewAuthService(st, jwt, opts...)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{svc: svc}, nil
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.svc.Login(requestContext(c), body.InviteCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var body signupRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.svc.SignupOwner(requestContext(c), services.SignupInput{
		Name:        body.Name,
		Email:       body.Email,
		ProjectName: body.ProjectName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}
