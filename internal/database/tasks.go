package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type taskRepository struct {
	db *gorm.DB
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		task.DependencyIDs = nonNil(uniqueStrings(task.DependencyIDs))
		return replaceDependencies(tx, task.ID, task.DependencyIDs)
	})
	return translate(err, "create task")
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	tasks, err := r.find(ctx, r.db.WithContext(ctx).Where("id = ?", id).Limit(1))
	if err != nil {
		return nil, translate(err, "find task")
	}
	if len(tasks) == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "find task")
	}
	return &tasks[0], nil
}

func (r *taskRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tasks, err := r.find(ctx, r.db.WithContext(ctx).Where("id IN ?", ids))
	return tasks, translate(err, "find tasks")
}

func (r *taskRepository) List(ctx context.Context, filter store.TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	tasks, err := r.find(ctx, query)
	return tasks, translate(err, "list tasks")
}

func (r *taskRepository) Update(ctx context.Context, id string, patch store.TaskPatch) (*models.Task, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).Where("id = ?", id).UpdateColumns(taskUpdates(patch))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if patch.DependencyIDs != nil {
			return replaceDependencies(tx, id, uniqueStrings(*patch.DependencyIDs))
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "update task")
	}
	return r.FindByID(ctx, id)
}

func (r *taskRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus, from []models.TaskStatus, now time.Time) (*models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}

	res := query.UpdateColumns(map[string]interface{}{
		"status":     status,
		"updated_at": now,
	})
	if res.Error != nil {
		return nil, translate(res.Error, "set task status")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrStatusMismatch
	}
	return r.FindByID(ctx, id)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("task_id = ?", id).Delete(&models.TaskDependency{}).Error
	})
	return translate(err, "delete task")
}

func (r *taskRepository) RemoveDependency(ctx context.Context, dependencyID string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dependents []string
		if err := tx.Model(&models.TaskDependency{}).
			Where("depends_on_id = ?", dependencyID).
			Pluck("task_id", &dependents).Error; err != nil {
			return err
		}
		if len(dependents) == 0 {
			return nil
		}

		if err := tx.Where("depends_on_id = ?", dependencyID).Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Task{}).
			Where("id IN ?", dependents).
			UpdateColumn("updated_at", time.Now().UTC())
		affected = res.RowsAffected
		return res.Error
	})
	return affected, translate(err, "remove task dependency")
}

// find runs query and attaches dependency ids in stored order.
func (r *taskRepository) find(ctx context.Context, query *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}

	var rows []models.TaskDependency
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", ids).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	deps := make(map[string][]string, len(tasks))
	for _, row := range rows {
		deps[row.TaskID] = append(deps[row.TaskID], row.DependsOnID)
	}
	for i := range tasks {
		tasks[i].DependencyIDs = nonNil(deps[tasks[i].ID])
	}
	return tasks, nil
}

func replaceDependencies(tx *gorm.DB, taskID string, dependencyIDs []string) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskDependency{}).Error; err != nil {
		return err
	}
	if len(dependencyIDs) == 0 {
		return nil
	}

	rows := make([]models.TaskDependency, len(dependencyIDs))
	for i, depID := range dependencyIDs {
		rows[i] = models.TaskDependency{TaskID: taskID, DependsOnID: depID, Position: i}
	}
	return tx.Create(&rows).Error
}

func taskUpdates(patch store.TaskPatch) map[string]interface{} {
	updates := map[string]interface{}{"updated_at": patch.UpdatedAt}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.ClearDueDate {
		updates["due_date"] = nil
	} else if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.AssigneeID != nil {
		if *patch.AssigneeID == "" {
			updates["assignee_id"] = nil
		} else {
			updates["assignee_id"] = *patch.AssigneeID
		}
	}
	if patch.AssigneeName != nil {
		updates["assignee_name"] = *patch.AssigneeName
	}
	return updates
}

var _ store.TaskRepository = (*taskRepository)(nil)
