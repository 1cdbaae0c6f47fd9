package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type inviteRepository struct {
	db *gorm.DB
}

func (r *inviteRepository) Create(ctx context.Context, invite *models.TeamInvite) error {
	return translate(r.db.WithContext(ctx).Create(invite).Error, "create invite")
}

func (r *inviteRepository) FindByID(ctx context.Context, id string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&invite).Error; err != nil {
		return nil, translate(err, "find invite")
	}
	return &invite, nil
}

func (r *inviteRepository) FindPendingByCode(ctx context.Context, code string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	err := r.db.WithContext(ctx).
		Where("invite_code = ? AND status = ?", code, models.InviteStatusPending).
		Take(&invite).Error
	if err != nil {
		return nil, translate(err, "find invite by code")
	}
	return &invite, nil
}

func (r *inviteRepository) ListPendingByProject(ctx context.Context, projectID string) ([]models.TeamInvite, error) {
	var invites []models.TeamInvite
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, models.InviteStatusPending).
		Order("created_at ASC").
		Find(&invites).Error
	if err != nil {
		return nil, translate(err, "list pending invites")
	}
	return invites, nil
}

func (r *inviteRepository) TransitionStatus(ctx context.Context, id string, from, to models.InviteStatus, at time.Time) (*models.TeamInvite, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TeamInvite{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(statusUpdates(to, at))
	if res.Error != nil {
		return nil, translate(res.Error, "transition invite")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "transition invite")
	}
	return r.FindByID(ctx, id)
}

func (r *inviteRepository) SetStatus(ctx context.Context, id string, status models.InviteStatus, at time.Time) (*models.TeamInvite, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TeamInvite{}).
		Where("id = ?", id).
		UpdateColumns(statusUpdates(status, at))
	if res.Error != nil {
		return nil, translate(res.Error, "set invite status")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "set invite status")
	}
	return r.FindByID(ctx, id)
}

func (r *inviteRepository) PurgeTerminal(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status <> ? AND updated_at < ?", models.InviteStatusPending, cutoff).
		Delete(&models.TeamInvite{})
	if res.Error != nil {
		return 0, translate(res.Error, "purge invites")
	}
	return res.RowsAffected, nil
}

func statusUpdates(status models.InviteStatus, at time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": at,
	}
	switch status {
	case models.InviteStatusAccepted:
		updates["accepted_at"] = at
	case models.InviteStatusPending:
		updates["accepted_at"] = nil
	}
	return updates
}

var _ store.InviteRepository = (*inviteRepository)(nil)
