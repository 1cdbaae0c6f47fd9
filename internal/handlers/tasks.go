package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/services"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/response"
)

type TaskHandler struct {
	svc *services.TaskService
}

// taskRequest accepts reference fields under both their stored names
// (assignee, createdBy, dependencies) and the id-suffixed names emitted in
// responses.
type taskRequest struct {
	Title         *string              `json:"title" validate:"omitempty,max=512"`
	Description   *string              `json:"description"`
	Status        *models.TaskStatus   `json:"status"`
	Priority      *models.TaskPriority `json:"priority"`
	DueDate       optionalDate         `json:"dueDate"`
	Assignee      nullableString       `json:"assignee"`
	AssigneeID    nullableString       `json:"assigneeId"`
	CreatedBy     *string              `json:"createdBy"`
	CreatedByID   *string              `json:"createdById"`
	Dependencies  *[]string            `json:"dependencies"`
	DependencyIDs *[]string            `json:"dependencyIds"`
	ProjectID     string               `json:"projectId"`
}

func (r taskRequest) assignee() (string, bool) {
	switch {
	case r.Assignee.Set:
		return r.Assignee.Value, true
	case r.AssigneeID.Set:
		return r.AssigneeID.Value, true
	}
	return "", false
}

func (r taskRequest) dependencies() *[]string {
	if r.Dependencies != nil {
		return r.Dependencies
	}
	return r.DependencyIDs
}

func (r taskRequest) createdBy() string {
	return firstNonEmpty(derefString(r.CreatedBy), derefString(r.CreatedByID))
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func NewTaskHandler(st store.Store, opts ...services.TaskOption) (*TaskHandler, error) {
	svc, err := services.NewTaskService(st, opts...)
	if err != nil {
		return nil, err
	}
	return &TaskHandler{svc: svc}, nil
}

// GET /api/tasks?projectId=
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.List(requestContext(c), c.Query("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks)
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var body taskRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.CreateTaskInput{
		Title:     derefString(body.Title),
		ProjectID: body.ProjectID,
		DueDate:   body.DueDate.Value,
	}
	if body.Description != nil {
		input.Description = *body.Description
	}
	if body.Status != nil {
		input.Status = *body.Status
	}
	if body.Priority != nil {
		input.Priority = *body.Priority
	}
	if assignee, ok := body.assignee(); ok && assignee != "" {
		input.AssigneeID = &assignee
	}
	if createdBy := callerOr(c, body.createdBy()); createdBy != "" {
		input.CreatedByID = &createdBy
	}
	if deps := body.dependencies(); deps != nil {
		input.DependencyIDs = *deps
	}

	task, err := h.svc.Create(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, task)
}

// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var body taskRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.UpdateTaskInput{
		Title:         body.Title,
		Description:   body.Description,
		Status:        body.Status,
		Priority:      body.Priority,
		DependencyIDs: body.dependencies(),
	}
	if body.DueDate.Set {
		input.DueDate = body.DueDate.Value
		input.ClearDueDate = body.DueDate.Value == nil
	}
	if assignee, ok := body.assignee(); ok {
		input.AssigneeID = &assignee
	}

	task, err := h.svc.Update(requestContext(c), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// POST /api/tasks/:id/submit
func (h *TaskHandler) Submit(c *gin.Context) {
	task, err := h.svc.Submit(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// POST /api/tasks/:id/approve
func (h *TaskHandler) Approve(c *gin.Context) {
	task, err := h.svc.Approve(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	message, err := h.svc.Delete(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, message)
}
