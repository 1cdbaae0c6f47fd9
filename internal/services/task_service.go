package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/metrics"
	"github.com/OluRemiFour/OctoOps-backend/pkg/validator"
)

const taskDeletedMessage = "Task deleted successfully"

// TaskOption customises TaskService behaviour.
type TaskOption func(*TaskService)

// WithTaskClock injects a custom clock primarily for testing.
func WithTaskClock(clock func() time.Time) TaskOption {
	return func(s *TaskService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithEnforceTransitions restricts submit and approve to the workflow order.
func WithEnforceTransitions(enabled bool) TaskOption {
	return func(s *TaskService) {
		s.enforceTransitions = enabled
	}
}

// WithCascadeDependencies controls whether deleting a task removes it from
// the dependencies of other tasks.
func WithCascadeDependencies(enabled bool) TaskOption {
	return func(s *TaskService) {
		s.cascadeDependencies = enabled
	}
}

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title         string
	Description   string
	Status        models.TaskStatus
	Priority      models.TaskPriority
	DueDate       *time.Time
	AssigneeID    *string
	CreatedByID   *string
	ProjectID     string
	DependencyIDs []string
}

// UpdateTaskInput lists the fields a partial update may change. Nil fields
// are left untouched; an empty AssigneeID clears the assignee.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *string
	DependencyIDs *[]string
}

// TaskService manages tasks and their workflow transitions.
type TaskService struct {
	tasks               store.TaskRepository
	users               store.UserRepository
	populate            populator
	enforceTransitions  bool
	cascadeDependencies bool
	now                 func() time.Time
	log                 *zap.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(st store.Store, opts ...TaskOption) (*TaskService, error) {
	if st == nil {
		return nil, errors.New("task service: store is required")
	}

	svc := &TaskService{
		tasks:               st.Tasks(),
		users:               st.Users(),
		populate:            populator{users: st.Users(), tasks: st.Tasks()},
		cascadeDependencies: true,
		now:                 time.Now,
		log:                 logger.WithModule("tasks"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// List returns tasks newest first, optionally limited to one project.
func (s *TaskService) List(ctx context.Context, projectID string) ([]models.Task, error) {
	ctx = ensureContext(ctx)

	tasks, err := s.tasks.List(ctx, store.TaskFilter{ProjectID: strings.TrimSpace(projectID)})
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch tasks")
	}
	if err := s.populate.populateTasks(ctx, tasks, true); err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch tasks")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create persists a new task, snapshotting the assignee's name.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("Title is required")
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if err := validateTaskEnums(&status, &priority); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:         title,
		Description:   input.Description,
		Status:        status,
		Priority:      priority,
		DueDate:       input.DueDate,
		AssigneeID:    optionalID(input.AssigneeID),
		CreatedByID:   optionalID(input.CreatedByID),
		ProjectID:     strings.TrimSpace(input.ProjectID),
		DependencyIDs: normaliseIDs(input.DependencyIDs),
	}

	if task.AssigneeID != nil {
		name, err := s.assigneeName(ctx, *task.AssigneeID)
		if err != nil {
			return nil, apperrors.Wrap(err, "Failed to create task")
		}
		task.AssigneeName = name
	}

	task.Touch(s.now().UTC())
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "Failed to create task")
	}

	s.log.Info("task created", zap.String("task_id", task.ID), zap.String("project_id", task.ProjectID))
	return s.loadPopulated(ctx, task.ID, true, "Failed to create task")
}

// Update applies a partial update to a task.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewBadRequest("Task ID is required")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.NewBadRequest("Title is required")
	}
	if err := validateTaskEnums(input.Status, input.Priority); err != nil {
		return nil, err
	}

	patch := store.TaskPatch{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		ClearDueDate: input.ClearDueDate && input.DueDate == nil,
		UpdatedAt:    s.now().UTC(),
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		patch.Title = &title
	}
	if input.DependencyIDs != nil {
		deps := normaliseIDs(*input.DependencyIDs)
		if deps == nil {
			deps = []string{}
		}
		patch.DependencyIDs = &deps
	}
	if input.AssigneeID != nil {
		assignee := strings.TrimSpace(*input.AssigneeID)
		name := ""
		if assignee != "" {
			var err error
			if name, err = s.assigneeName(ctx, assignee); err != nil {
				return nil, apperrors.Wrap(err, "Failed to update task")
			}
		}
		patch.AssigneeID = &assignee
		patch.AssigneeName = &name
	}

	if _, err := s.tasks.Update(ctx, id, patch); err != nil {
		return nil, storeError(err, ErrTaskNotFound, "Failed to update task")
	}
	return s.loadPopulated(ctx, id, true, "Failed to update task")
}

// Submit moves a task into review.
func (s *TaskService) Submit(ctx context.Context, id string) (*models.Task, error) {
	var from []models.TaskStatus
	if s.enforceTransitions {
		from = []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusInReview}
	}
	return s.transition(ctx, "submit", id, models.TaskStatusInReview, from, "Failed to submit task")
}

// Approve marks a task as done.
func (s *TaskService) Approve(ctx context.Context, id string) (*models.Task, error) {
	var from []models.TaskStatus
	if s.enforceTransitions {
		from = []models.TaskStatus{models.TaskStatusInReview}
	}
	return s.transition(ctx, "approve", id, models.TaskStatusDone, from, "Failed to approve task")
}

func (s *TaskService) transition(ctx context.Context, action, id string, to models.TaskStatus, from []models.TaskStatus, message string) (*models.Task, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewBadRequest("Task ID is required")
	}

	_, err := s.tasks.SetStatus(ctx, id, to, from, s.now().UTC())
	switch {
	case err == nil:
	case errors.Is(err, store.ErrStatusMismatch):
		metrics.TaskTransitions.WithLabelValues(action, "rejected").Inc()
		current, findErr := s.tasks.FindByID(ctx, id)
		if findErr != nil {
			return nil, storeError(findErr, ErrTaskNotFound, message)
		}
		return nil, apperrors.NewBadRequest(fmt.Sprintf("cannot move task from %s to %s", current.Status, to))
	default:
		metrics.TaskTransitions.WithLabelValues(action, "failure").Inc()
		return nil, storeError(err, ErrTaskNotFound, message)
	}

	metrics.TaskTransitions.WithLabelValues(action, "success").Inc()
	s.log.Info("task transitioned", zap.String("task_id", id), zap.String("action", action), zap.String("status", string(to)))
	return s.loadPopulated(ctx, id, false, message)
}

// Delete removes a task and, unless disabled, every reference to it from
// other tasks' dependencies.
func (s *TaskService) Delete(ctx context.Context, id string) (string, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperrors.NewBadRequest("Task ID is required")
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return "", storeError(err, ErrTaskNotFound, "Failed to delete task")
	}

	if s.cascadeDependencies {
		// The task is already gone; dangling references are dropped on read.
		if n, err := s.tasks.RemoveDependency(ctx, id); err != nil {
			s.log.Error("failed to remove task from dependencies", zap.String("task_id", id), zap.Error(err))
		} else if n > 0 {
			s.log.Info("removed deleted task from dependencies", zap.String("task_id", id), zap.Int64("tasks", n))
		}
	}

	s.log.Info("task deleted", zap.String("task_id", id))
	return taskDeletedMessage, nil
}

// assigneeName resolves the name snapshot for an assignee. Unknown users keep
// an empty name.
func (s *TaskService) assigneeName(ctx context.Context, userID string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

func (s *TaskService) loadPopulated(ctx context.Context, id string, withDeps bool, message string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrTaskNotFound, message)
	}

	tasks := []models.Task{*task}
	if err := s.populate.populateTasks(ctx, tasks, withDeps); err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	return &tasks[0], nil
}

func validateTaskEnums(status *models.TaskStatus, priority *models.TaskPriority) error {
	if status != nil {
		if err := validator.ValidateVar("status", string(*status), "required,"+taskStatusTag); err != nil {
			return apperrors.NewBadRequest("Invalid task status")
		}
	}
	if priority != nil {
		if err := validator.ValidateVar("priority", string(*priority), "required,"+taskPriorityTag); err != nil {
			return apperrors.NewBadRequest("Invalid task priority")
		}
	}
	return nil
}
