package services

import (
	"context"
	"errors"
	"strings"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
)

// UserService exposes read access to the user directory.
type UserService struct {
	users store.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(st store.Store) (*UserService, error) {
	if st == nil {
		return nil, errors.New("user service: store is required")
	}
	return &UserService{users: st.Users()}, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewBadRequest("User ID is required")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound, "Failed to fetch user")
	}
	return user, nil
}

// findOrCreateUser returns the user registered under email, creating it from
// build when absent. A concurrent insert that trips the unique email index
// resolves to the row that won.
func findOrCreateUser(ctx context.Context, users store.UserRepository, email string, build func() *models.User) (*models.User, bool, error) {
	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	user := build()
	user.Email = email
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			existing, findErr := users.FindByEmail(ctx, email)
			return existing, false, findErr
		}
		return nil, false, err
	}
	return user, true, nil
}
