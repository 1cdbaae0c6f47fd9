package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OluRemiFour/OctoOps-backend/internal/database"
	"github.com/OluRemiFour/OctoOps-backend/internal/database/testutil"
	"github.com/OluRemiFour/OctoOps-backend/internal/models"
)

// testClock is a manually advanced clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func openServiceTestStore(t *testing.T) *database.Store {
	t.Helper()
	return testutil.MustOpenTestStore(t)
}

func seedUser(t *testing.T, st *database.Store, name, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:   name,
		Email:  email,
		Role:   role,
		Status: models.UserStatusActive,
		Avatar: models.AvatarForRole(role),
	}
	user.Touch(time.Now().UTC())
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func seedProject(t *testing.T, st *database.Store, owner *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:    "Launch",
		OwnerID: owner.ID,
		TeamIDs: []string{owner.ID},
	}
	project.Touch(time.Now().UTC())
	require.NoError(t, st.Projects().Create(context.Background(), project))
	return project
}
