package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	iauth "github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/internal/handlers/testutil"
	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/services"
)

func TestAuthHandler_LoginResolvesRoleFromCode(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/auth/login", map[string]string{"inviteCode": "TEAM-QA-42"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := testutil.Decode[services.AuthResult](t, w)
	require.Equal(t, models.RoleQA, result.User.Role)
	require.Equal(t, "qa@octoops.dev", result.User.Email)
	require.Equal(t, "QA Specialist", result.User.Name)
	require.NotEmpty(t, result.Token)
	require.Positive(t, result.ExpiresIn)

	claims, err := env.JWT.ValidateAccessToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)

	again := env.Request(http.MethodPost, "/api/auth/login", map[string]string{"inviteCode": "qa-again"}, "")
	require.Equal(t, http.StatusOK, again.Code)
	require.Equal(t, result.User.ID, testutil.Decode[services.AuthResult](t, again).User.ID)

	dev := env.Request(http.MethodPost, "/api/auth/login", map[string]string{"inviteCode": "DEV-1"}, "")
	require.Equal(t, http.StatusOK, dev.Code)
	devResult := testutil.Decode[services.AuthResult](t, dev)
	require.Equal(t, models.RoleMember, devResult.User.Role)
	require.Equal(t, "Team Developer", devResult.User.Name)
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/auth/login", map[string]string{}, "")
	testutil.RequireError(t, w, http.StatusBadRequest, "Invite code is required")

	w = env.Request(http.MethodPost, "/api/auth/login", "not-an-object", "")
	testutil.RequireError(t, w, http.StatusBadRequest, "invalid JSON payload")
}

func TestAuthHandler_SignupOwner(t *testing.T) {
	env := testutil.NewEnv(t)

	body := map[string]string{"name": "Ada", "email": "Ada@Example.com", "projectName": "Apollo"}
	w := env.Request(http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	result := testutil.Decode[services.SignupResult](t, w)
	require.Equal(t, models.RoleOwner, result.User.Role)
	require.Equal(t, "ada@example.com", result.User.Email)
	require.Equal(t, models.AvatarOwner, result.User.Avatar)
	require.Equal(t, "Apollo", result.ProjectName)
	require.NotEmpty(t, result.Token)

	dup := env.Request(http.MethodPost, "/api/auth/signup", body, "")
	testutil.RequireError(t, dup, http.StatusBadRequest, "User already exists")

	missing := env.Request(http.MethodPost, "/api/auth/signup", map[string]string{"email": "x@example.com"}, "")
	testutil.RequireError(t, missing, http.StatusBadRequest, "Name is required")
}

func TestAuthHandler_StaleTokenStillLogsIn(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser("Owner", models.RoleOwner)
	project := env.CreateProject("Apollo", owner)

	// signed with a key the server no longer holds
	previous, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "rotated-away", Issuer: env.Config.Auth.JWT.Issuer})
	require.NoError(t, err)
	stale, err := previous.GenerateAccessToken(iauth.AccessTokenInput{UserID: owner.ID})
	require.NoError(t, err)

	login := env.Request(http.MethodPost, "/api/auth/login", map[string]string{"inviteCode": "QA-1"}, stale.Token)
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	require.NotEmpty(t, testutil.Decode[services.AuthResult](t, login).Token)

	signup := env.Request(http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "Ada", "email": "ada@example.com", "projectName": "Zeus"}, "not-a-jwt")
	require.Equal(t, http.StatusCreated, signup.Code, signup.Body.String())

	invite := env.Request(http.MethodPost, "/api/team/invite", map[string]string{
		"email":     "late@example.com",
		"projectId": project.ID,
		"invitedBy": owner.ID,
	}, "")
	require.Equal(t, http.StatusCreated, invite.Code, invite.Body.String())
	code := testutil.Decode[models.TeamInvite](t, invite).InviteCode

	accept := env.Request(http.MethodPost, "/api/team/accept", map[string]string{"inviteCode": code}, stale.Token)
	require.Equal(t, http.StatusOK, accept.Code, accept.Body.String())

	tasks := env.Request(http.MethodGet, "/api/tasks", nil, stale.Token)
	require.Equal(t, http.StatusOK, tasks.Code)
}
