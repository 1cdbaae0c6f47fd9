package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
)

// SettingsPatch carries replacement sections. Nil sections are left as they
// are.
type SettingsPatch struct {
	Notifications datatypes.JSONMap
	Integrations  datatypes.JSONMap
	AISettings    datatypes.JSONMap
	General       datatypes.JSONMap
}

func (p SettingsPatch) sections() map[string]datatypes.JSONMap {
	sections := make(map[string]datatypes.JSONMap, 4)
	for name, value := range map[string]datatypes.JSONMap{
		models.SectionNotifications: p.Notifications,
		models.SectionIntegrations:  p.Integrations,
		models.SectionAISettings:    p.AISettings,
		models.SectionGeneral:       p.General,
	} {
		if value != nil {
			sections[name] = value
		}
	}
	return sections
}

// SettingsOption customises SettingsService behaviour.
type SettingsOption func(*SettingsService)

// WithSettingsClock injects a custom clock primarily for testing.
func WithSettingsClock(clock func() time.Time) SettingsOption {
	return func(s *SettingsService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// SettingsService reads and writes the per-project settings document.
type SettingsService struct {
	settings store.SettingsRepository
	now      func() time.Time
	log      *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(st store.Store, opts ...SettingsOption) (*SettingsService, error) {
	if st == nil {
		return nil, errors.New("settings service: store is required")
	}

	svc := &SettingsService{
		settings: st.Settings(),
		now:      time.Now,
		log:      logger.WithModule("settings"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Get returns the project's settings, creating them with defaults on first
// access.
func (s *SettingsService) Get(ctx context.Context, projectID string) (*models.Settings, error) {
	ctx = ensureContext(ctx)

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrProjectIDRequired
	}

	settings, err := s.settings.GetOrCreate(ctx, projectID, s.now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch settings")
	}
	return settings, nil
}

// Update replaces every section present in patch.
func (s *SettingsService) Update(ctx context.Context, projectID string, patch SettingsPatch) (*models.Settings, error) {
	return s.upsert(ctx, projectID, patch.sections(), "Failed to update settings")
}

// UpdateNotifications replaces the notifications section.
func (s *SettingsService) UpdateNotifications(ctx context.Context, projectID string, value datatypes.JSONMap) (*models.Settings, error) {
	return s.upsertSection(ctx, projectID, models.SectionNotifications, value, "Failed to update notification preferences")
}

// UpdateIntegrations replaces the integrations section.
func (s *SettingsService) UpdateIntegrations(ctx context.Context, projectID string, value datatypes.JSONMap) (*models.Settings, error) {
	return s.upsertSection(ctx, projectID, models.SectionIntegrations, value, "Failed to update integrations")
}

// UpdateAISettings replaces the aiSettings section.
func (s *SettingsService) UpdateAISettings(ctx context.Context, projectID string, value datatypes.JSONMap) (*models.Settings, error) {
	return s.upsertSection(ctx, projectID, models.SectionAISettings, value, "Failed to update AI settings")
}

func (s *SettingsService) upsertSection(ctx context.Context, projectID, section string, value datatypes.JSONMap, message string) (*models.Settings, error) {
	if value == nil {
		value = datatypes.JSONMap{}
	}
	return s.upsert(ctx, projectID, map[string]datatypes.JSONMap{section: value}, message)
}

func (s *SettingsService) upsert(ctx context.Context, projectID string, sections map[string]datatypes.JSONMap, message string) (*models.Settings, error) {
	ctx = ensureContext(ctx)

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrProjectIDRequired
	}

	settings, err := s.settings.Upsert(ctx, projectID, sections, s.now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, message)
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	s.log.Info("settings updated", zap.String("project_id", projectID), zap.Strings("sections", names))
	return settings, nil
}
