package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type inviteRepository struct {
	coll *mongo.Collection
}

func (r *inviteRepository) Create(ctx context.Context, invite *models.TeamInvite) error {
	assignID(&invite.BaseModel)
	_, err := r.coll.InsertOne(ctx, invite)
	return translate(err, "create invite")
}

func (r *inviteRepository) FindByID(ctx context.Context, id string) (*models.TeamInvite, error) {
	return r.findOne(ctx, byID(id), "find invite")
}

func (r *inviteRepository) FindPendingByCode(ctx context.Context, code string) (*models.TeamInvite, error) {
	return r.findOne(ctx, pendingInviteByCode(code), "find invite by code")
}

func (r *inviteRepository) ListPendingByProject(ctx context.Context, projectID string) ([]models.TeamInvite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, pendingInvitesByProject(projectID), opts)
	if err != nil {
		return nil, translate(err, "list pending invites")
	}

	invites := []models.TeamInvite{}
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, translate(err, "decode invites")
	}
	return invites, nil
}

func (r *inviteRepository) TransitionStatus(ctx context.Context, id string, from, to models.InviteStatus, at time.Time) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	err := r.coll.FindOneAndUpdate(ctx, inviteTransitionFilter(id, from), inviteStatusUpdate(to, at), returnAfter()).Decode(&invite)
	if err != nil {
		return nil, translate(err, "transition invite")
	}
	return &invite, nil
}

func (r *inviteRepository) SetStatus(ctx context.Context, id string, status models.InviteStatus, at time.Time) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	err := r.coll.FindOneAndUpdate(ctx, byID(id), inviteStatusUpdate(status, at), returnAfter()).Decode(&invite)
	if err != nil {
		return nil, translate(err, "set invite status")
	}
	return &invite, nil
}

func (r *inviteRepository) PurgeTerminal(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, terminalInvitesBefore(cutoff))
	if err != nil {
		return 0, translate(err, "purge invites")
	}
	return res.DeletedCount, nil
}

func (r *inviteRepository) findOne(ctx context.Context, filter bson.M, op string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	if err := r.coll.FindOne(ctx, filter).Decode(&invite); err != nil {
		return nil, translate(err, op)
	}
	return &invite, nil
}

var _ store.InviteRepository = (*inviteRepository)(nil)
