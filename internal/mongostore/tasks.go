package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type taskRepository struct {
	coll *mongo.Collection
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	assignID(&task.BaseModel)
	task.DependencyIDs = dedupe(task.DependencyIDs)
	_, err := r.coll.InsertOne(ctx, task)
	return translate(err, "create task")
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&task); err != nil {
		return nil, translate(err, "find task")
	}
	normaliseTask(&task)
	return &task, nil
}

func (r *taskRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, byIDs(ids), nil, "find tasks")
}

func (r *taskRepository) List(ctx context.Context, filter store.TaskFilter) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, taskListFilter(filter), opts, "list tasks")
}

func (r *taskRepository) Update(ctx context.Context, id string, patch store.TaskPatch) (*models.Task, error) {
	var task models.Task
	err := r.coll.FindOneAndUpdate(ctx, byID(id), taskPatchUpdate(patch), returnAfter()).Decode(&task)
	if err != nil {
		return nil, translate(err, "update task")
	}
	normaliseTask(&task)
	return &task, nil
}

func (r *taskRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus, from []models.TaskStatus, now time.Time) (*models.Task, error) {
	var task models.Task
	err := r.coll.FindOneAndUpdate(ctx, taskStatusFilter(id, from), taskStatusUpdate(status, now), returnAfter()).Decode(&task)
	if err == nil {
		normaliseTask(&task)
		return &task, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) || len(from) == 0 {
		return nil, translate(err, "set task status")
	}

	// the guard rejected the write; tell a missing task apart from a bad state
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, store.ErrStatusMismatch
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return translate(err, "delete task")
	}
	if res.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments, "delete task")
	}
	return nil
}

func (r *taskRepository) RemoveDependency(ctx context.Context, dependencyID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, dependentsOf(dependencyID), pullDependencyUpdate(dependencyID, time.Now().UTC()))
	if err != nil {
		return 0, translate(err, "remove task dependency")
	}
	return res.ModifiedCount, nil
}

func (r *taskRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions, op string) ([]models.Task, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cursor, err := r.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, translate(err, op)
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, translate(err, op)
	}
	for i := range tasks {
		normaliseTask(&tasks[i])
	}
	return tasks, nil
}

func normaliseTask(t *models.Task) {
	if t.DependencyIDs == nil {
		t.DependencyIDs = []string{}
	}
}

var _ store.TaskRepository = (*taskRepository)(nil)
