package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers/testutil"
	"github.com/OluRemiFour/OctoOps-backend/internal/models"
)

func TestUserHandler_Get(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser("Grace", models.RoleMember)

	w := env.Request(http.MethodGet, "/api/users/"+user.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := testutil.Decode[models.User](t, w)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "Grace", got.Name)

	missing := env.Request(http.MethodGet, "/api/users/does-not-exist", nil, "")
	testutil.RequireError(t, missing, http.StatusNotFound, "User not found")
}

func TestProjectHandler_CreateGetList(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser("Owner", models.RoleOwner)

	w := env.Request(http.MethodPost, "/api/projects", map[string]string{
		"name":        "Apollo",
		"description": "Moonshot",
		"ownerId":     owner.ID,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := testutil.Decode[models.Project](t, w)
	require.Equal(t, []string{owner.ID}, project.TeamIDs)
	require.NotNil(t, project.Owner)
	require.Equal(t, owner.ID, project.Owner.ID)

	get := env.Request(http.MethodGet, "/api/projects/"+project.ID, nil, "")
	require.Equal(t, http.StatusOK, get.Code)
	fetched := testutil.Decode[models.Project](t, get)
	require.Len(t, fetched.Team, 1)
	require.Equal(t, owner.ID, fetched.Team[0].ID)

	list := env.Request(http.MethodGet, "/api/projects?ownerId="+owner.ID, nil, "")
	require.Equal(t, http.StatusOK, list.Code)
	require.Len(t, testutil.Decode[[]models.Project](t, list), 1)

	missing := env.Request(http.MethodGet, "/api/projects/nope", nil, "")
	testutil.RequireError(t, missing, http.StatusNotFound, "Project not found")
}

func TestProjectHandler_OwnerDefaultsToCaller(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser("Owner", models.RoleOwner)
	token := env.TokenFor(owner)

	w := env.Request(http.MethodPost, "/api/projects", map[string]string{"name": "Gemini"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, owner.ID, testutil.Decode[models.Project](t, w).OwnerID)

	list := env.Request(http.MethodGet, "/api/projects", nil, token)
	require.Equal(t, http.StatusOK, list.Code)
	require.Len(t, testutil.Decode[[]models.Project](t, list), 1)

	anonymous := env.Request(http.MethodPost, "/api/projects", map[string]string{"name": "Orphan"}, "")
	testutil.RequireError(t, anonymous, http.StatusBadRequest, "Owner ID is required")
}
