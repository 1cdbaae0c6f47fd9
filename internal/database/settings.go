package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

var settingsColumns = map[string]string{
	models.SectionNotifications: "notifications",
	models.SectionIntegrations:  "integrations",
	models.SectionAISettings:    "ai_settings",
	models.SectionGeneral:       "general",
}

type settingsRepository struct {
	db *gorm.DB
}

func (r *settingsRepository) FindByProject(ctx context.Context, projectID string) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Take(&settings).Error; err != nil {
		return nil, translate(err, "find settings")
	}
	return &settings, nil
}

func (r *settingsRepository) GetOrCreate(ctx context.Context, projectID string, now time.Time) (*models.Settings, error) {
	existing, err := r.FindByProject(ctx, projectID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	settings := &models.Settings{ProjectID: projectID}
	settings.ApplyDefaults()
	settings.Touch(now)

	if err := translate(r.db.WithContext(ctx).Create(settings).Error, "create settings"); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return r.FindByProject(ctx, projectID)
		}
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, projectID string, sections map[string]datatypes.JSONMap, now time.Time) (*models.Settings, error) {
	return r.upsert(ctx, projectID, sections, now, true)
}

func (r *settingsRepository) upsert(ctx context.Context, projectID string, sections map[string]datatypes.JSONMap, now time.Time, retry bool) (*models.Settings, error) {
	updates := map[string]interface{}{"updated_at": now}
	for name, value := range sections {
		column, ok := settingsColumns[name]
		if !ok {
			continue
		}
		updates[column] = value
	}

	res := r.db.WithContext(ctx).
		Model(&models.Settings{}).
		Where("project_id = ?", projectID).
		UpdateColumns(updates)
	if res.Error != nil {
		return nil, translate(res.Error, "update settings")
	}
	if res.RowsAffected > 0 {
		return r.FindByProject(ctx, projectID)
	}

	settings := &models.Settings{ProjectID: projectID}
	for name, value := range sections {
		settings.SetSection(name, value)
	}
	settings.ApplyDefaults()
	settings.Touch(now)

	err := translate(r.db.WithContext(ctx).Create(settings).Error, "create settings")
	if retry && errors.Is(err, store.ErrDuplicate) {
		// lost the insert race, apply the patch to the winner's document
		return r.upsert(ctx, projectID, sections, now, false)
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

var _ store.SettingsRepository = (*settingsRepository)(nil)
