package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type settingsRepository struct {
	coll *mongo.Collection
}

func (r *settingsRepository) FindByProject(ctx context.Context, projectID string) (*models.Settings, error) {
	var settings models.Settings
	if err := r.coll.FindOne(ctx, settingsByProject(projectID)).Decode(&settings); err != nil {
		return nil, translate(err, "find settings")
	}
	return &settings, nil
}

func (r *settingsRepository) GetOrCreate(ctx context.Context, projectID string, now time.Time) (*models.Settings, error) {
	// insert-only: an existing document keeps its updatedAt
	return r.upsert(ctx, projectID, nil, false, now, "get or create settings")
}

func (r *settingsRepository) Upsert(ctx context.Context, projectID string, sections map[string]datatypes.JSONMap, now time.Time) (*models.Settings, error) {
	return r.upsert(ctx, projectID, sections, true, now, "upsert settings")
}

func (r *settingsRepository) upsert(ctx context.Context, projectID string, sections map[string]datatypes.JSONMap, touch bool, now time.Time, op string) (*models.Settings, error) {
	update := settingsUpsertUpdate(primitive.NewObjectID().Hex(), projectID, sections, now, touch)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings models.Settings
	err := r.coll.FindOneAndUpdate(ctx, settingsByProject(projectID), update, opts).Decode(&settings)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// concurrent upserts on the unique projectId index: the loser retries
		// as a plain update
		err = r.coll.FindOneAndUpdate(ctx, settingsByProject(projectID), update, opts).Decode(&settings)
	}
	if err != nil {
		return nil, translate(err, op)
	}
	return &settings, nil
}

var _ store.SettingsRepository = (*settingsRepository)(nil)
