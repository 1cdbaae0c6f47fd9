package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	assignID(&user.BaseModel)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	_, err := r.coll.InsertOne(ctx, user)
	return translate(err, "create user")
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&user); err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, byIDs(ids))
	if err != nil {
		return nil, translate(err, "find users")
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translate(err, "decode users")
	}
	return users, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, byID(id), roleUpdate(role, time.Now().UTC()), returnAfter()).Decode(&user)
	if err != nil {
		return nil, translate(err, "update user role")
	}
	return &user, nil
}

// assignID gives new documents a string _id holding an ObjectID hex and
// fills unset timestamps.
func assignID(base *models.BaseModel) {
	if base.ID == "" {
		base.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	if base.UpdatedAt.IsZero() {
		base.UpdatedAt = base.CreatedAt
	}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

var _ store.UserRepository = (*userRepository)(nil)
