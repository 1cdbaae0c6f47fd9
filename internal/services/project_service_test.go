package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
)

func TestProjectServiceLifecycle(t *testing.T) {
	st := openServiceTestStore(t)
	svc, err := NewProjectService(st)
	require.NoError(t, err)
	ctx := context.Background()

	owner := seedUser(t, st, "Olu", "olu@example.com", models.RoleOwner)

	project, err := svc.Create(ctx, CreateProjectInput{Name: " Launch ", Description: "Q3", OwnerID: owner.ID})
	require.NoError(t, err)
	require.Equal(t, "Launch", project.Name)
	require.Equal(t, []string{owner.ID}, project.TeamIDs)
	require.Len(t, project.Team, 1)
	require.Equal(t, owner.Email, project.Team[0].Email)
	require.NotNil(t, project.Owner)
	require.Equal(t, owner.ID, project.Owner.ID)

	fetched, err := svc.Get(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, fetched.ID)

	owned, err := svc.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	none, err := svc.ListByOwner(ctx, "someone-else")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestProjectServiceErrors(t *testing.T) {
	svc, err := NewProjectService(openServiceTestStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateProjectInput{OwnerID: "x"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, CreateProjectInput{Name: "Launch", OwnerID: "missing"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, err = svc.ListByOwner(ctx, "")
	requireStatus(t, err, http.StatusBadRequest)
}
