package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers/testutil"
	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

func createTask(t *testing.T, env *testutil.Env, body map[string]any) models.Task {
	t.Helper()
	w := env.Request(http.MethodPost, "/api/tasks", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.Decode[models.Task](t, w)
}

func TestTaskHandler_CreateSnapshotsAssignee(t *testing.T) {
	env := testutil.NewEnv(t)
	dev := env.CreateUser("Linus", models.RoleMember)

	task := createTask(t, env, map[string]any{
		"title":     "Wire up CI",
		"assignee":  dev.ID,
		"projectId": "p1",
		"dueDate":   "2026-04-01",
	})
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Equal(t, "Linus", task.AssigneeName)
	require.NotNil(t, task.Assignee)
	require.Equal(t, dev.Email, task.Assignee.Email)
	require.NotNil(t, task.DueDate)
	require.Equal(t, 2026, task.DueDate.Year())

	missing := env.Request(http.MethodPost, "/api/tasks", map[string]any{"description": "no title"}, "")
	testutil.RequireError(t, missing, http.StatusBadRequest, "Title is required")

	badDate := env.Request(http.MethodPost, "/api/tasks", map[string]any{"title": "x", "dueDate": "tomorrow"}, "")
	testutil.RequireError(t, badDate, http.StatusBadRequest, "invalid JSON payload")
}

func TestTaskHandler_CreatedByDefaultsToCaller(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser("Owner", models.RoleOwner)

	w := env.Request(http.MethodPost, "/api/tasks", map[string]any{"title": "Plan"}, env.TokenFor(owner))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := testutil.Decode[models.Task](t, w)
	require.NotNil(t, task.CreatedByID)
	require.Equal(t, owner.ID, *task.CreatedByID)
	require.NotNil(t, task.CreatedBy)
	require.Equal(t, "Owner", task.CreatedBy.Name)
}

func TestTaskHandler_ListFiltersByProject(t *testing.T) {
	env := testutil.NewEnv(t)

	first := createTask(t, env, map[string]any{"title": "first", "projectId": "p1"})
	createTask(t, env, map[string]any{"title": "other", "projectId": "p2"})
	second := createTask(t, env, map[string]any{"title": "second", "projectId": "p1", "dependencies": []string{first.ID}})

	w := env.Request(http.MethodGet, "/api/tasks?projectId=p1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	tasks := testutil.Decode[[]models.Task](t, w)
	require.Len(t, tasks, 2)
	require.Equal(t, second.ID, tasks[0].ID)
	require.Len(t, tasks[0].Dependencies, 1)
	require.Equal(t, first.ID, tasks[0].Dependencies[0].ID)

	all := env.Request(http.MethodGet, "/api/tasks", nil, "")
	require.Len(t, testutil.Decode[[]models.Task](t, all), 3)
}

func TestTaskHandler_UpdateAndWorkflow(t *testing.T) {
	env := testutil.NewEnv(t)
	dev := env.CreateUser("Margaret", models.RoleMember)
	task := createTask(t, env, map[string]any{"title": "Guidance", "dueDate": "2026-04-01T10:00:00Z"})

	w := env.Request(http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status":   "in-progress",
		"assignee": dev.ID,
		"dueDate":  nil,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := testutil.Decode[models.Task](t, w)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.Equal(t, "Margaret", updated.AssigneeName)
	require.Nil(t, updated.DueDate)
	require.Equal(t, "Guidance", updated.Title)

	bad := env.Request(http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"priority": "urgent"}, "")
	testutil.RequireError(t, bad, http.StatusBadRequest, "Invalid task priority")

	submit := env.Request(http.MethodPost, "/api/tasks/"+task.ID+"/submit", nil, "")
	require.Equal(t, http.StatusOK, submit.Code)
	require.Equal(t, models.TaskStatusInReview, testutil.Decode[models.Task](t, submit).Status)

	approve := env.Request(http.MethodPost, "/api/tasks/"+task.ID+"/approve", nil, "")
	require.Equal(t, http.StatusOK, approve.Code)
	require.Equal(t, models.TaskStatusDone, testutil.Decode[models.Task](t, approve).Status)

	missing := env.Request(http.MethodPost, "/api/tasks/nope/submit", nil, "")
	testutil.RequireError(t, missing, http.StatusNotFound, "Task not found")

	missingUpdate := env.Request(http.MethodPut, "/api/tasks/nope", map[string]any{"title": "x"}, "")
	testutil.RequireError(t, missingUpdate, http.StatusNotFound, "Task not found")
}

func TestTaskHandler_EnforcedTransitions(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithEnforcedTransitions())
	task := createTask(t, env, map[string]any{"title": "Guarded"})

	approve := env.Request(http.MethodPost, "/api/tasks/"+task.ID+"/approve", nil, "")
	testutil.RequireError(t, approve, http.StatusBadRequest, "cannot move task from todo to done")

	submit := env.Request(http.MethodPost, "/api/tasks/"+task.ID+"/submit", nil, "")
	require.Equal(t, http.StatusOK, submit.Code)

	approve = env.Request(http.MethodPost, "/api/tasks/"+task.ID+"/approve", nil, "")
	require.Equal(t, http.StatusOK, approve.Code)

	resubmit := env.Request(http.MethodPost, "/api/tasks/"+task.ID+"/submit", nil, "")
	testutil.RequireError(t, resubmit, http.StatusBadRequest, "cannot move task from done to in-review")
}

func TestTaskHandler_DeleteCascadesDependencies(t *testing.T) {
	env := testutil.NewEnv(t)
	dep := createTask(t, env, map[string]any{"title": "dep"})
	task := createTask(t, env, map[string]any{"title": "main", "dependencyIds": []string{dep.ID}})
	require.Equal(t, []string{dep.ID}, task.DependencyIDs)

	w := env.Request(http.MethodDelete, "/api/tasks/"+dep.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Task deleted successfully", testutil.Decode[response.MessageBody](t, w).Message)

	again := env.Request(http.MethodDelete, "/api/tasks/"+dep.ID, nil, "")
	testutil.RequireError(t, again, http.StatusNotFound, "Task not found")

	list := env.Request(http.MethodGet, "/api/tasks", nil, "")
	tasks := testutil.Decode[[]models.Task](t, list)
	require.Len(t, tasks, 1)
	require.Empty(t, tasks[0].DependencyIDs)
}
