package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/metrics"
)

// demoDomain hosts the shared placeholder identities handed out by Login.
const demoDomain = "octoops.dev"

// AuthResult is returned by Login and carries a signed access token.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
}

// SignupResult is returned by SignupOwner.
type SignupResult struct {
	User        *models.User `json:"user"`
	ProjectName string       `json:"projectName"`
	Token       string       `json:"token"`
	ExpiresIn   int64        `json:"expiresIn"`
}

// SignupInput carries the owner signup form.
type SignupInput struct {
	Name        string
	Email       string
	ProjectName string
}

// AuthOption customises AuthService behaviour.
type AuthOption func(*AuthService)

// WithAuthClock injects a custom clock primarily for testing.
func WithAuthClock(clock func() time.Time) AuthOption {
	return func(s *AuthService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// AuthService implements the invite-code login and owner signup flows.
type AuthService struct {
	users store.UserRepository
	jwt   *auth.JWTService
	now   func() time.Time
	log   *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(st store.Store, jwt *auth.JWTService, opts ...AuthOption) (*AuthService, error) {
	if st == nil {
		return nil, errors.New("auth service: store is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}

	svc := &AuthService{
		users: st.Users(),
		jwt:   jwt,
		now:   time.Now,
		log:   logger.WithModule("auth"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Login resolves an invite code to one of the shared demo identities. Codes
// containing "qa" (any case) log in as the QA user, everything else as the
// developer user.
func (s *AuthService) Login(ctx context.Context, inviteCode string) (*AuthResult, error) {
	ctx = ensureContext(ctx)

	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, apperrors.NewBadRequest("Invite code is required")
	}

	role := roleForInviteCode(inviteCode)
	email := fmt.Sprintf("%s@%s", role, demoDomain)

	user, created, err := findOrCreateUser(ctx, s.users, email, func() *models.User {
		name := "Team Developer"
		if role == models.RoleQA {
			name = "QA Specialist"
		}
		u := &models.User{
			Name:   name,
			Role:   role,
			Status: models.UserStatusActive,
			Avatar: models.AvatarForRole(role),
		}
		u.Touch(s.now().UTC())
		return u
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, apperrors.Wrap(err, "Login failed")
	}

	token, err := s.issue(user)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, apperrors.Wrap(err, "Login failed")
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(role)), zap.Bool("created", created))

	return &AuthResult{User: user, Token: token.Token, ExpiresIn: int64(token.ExpiresIn / time.Second)}, nil
}

// SignupOwner registers a project owner. Project creation is a separate call.
func (s *AuthService) SignupOwner(ctx context.Context, input SignupInput) (*SignupResult, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	email := normaliseEmail(input.Email)
	if name == "" {
		return nil, apperrors.NewBadRequest("Name is required")
	}
	if email == "" {
		return nil, apperrors.NewBadRequest("Email is required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		return nil, ErrUserExists
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.Wrap(err, "Signup failed")
	}

	user := &models.User{
		Name:   name,
		Email:  email,
		Role:   models.RoleOwner,
		Status: models.UserStatusActive,
		Avatar: models.AvatarOwner,
	}
	user.Touch(s.now().UTC())

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
			return nil, ErrUserExists
		}
		return nil, apperrors.Wrap(err, "Signup failed")
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, apperrors.Wrap(err, "Signup failed")
	}

	metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
	s.log.Info("owner signed up", zap.String("user_id", user.ID))

	return &SignupResult{
		User:        user,
		ProjectName: strings.TrimSpace(input.ProjectName),
		Token:       token.Token,
		ExpiresIn:   int64(token.ExpiresIn / time.Second),
	}, nil
}

func (s *AuthService) issue(user *models.User) (*auth.AccessToken, error) {
	return s.jwt.GenerateAccessToken(auth.AccessTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
}

func roleForInviteCode(code string) models.UserRole {
	if strings.Contains(strings.ToLower(code), "qa") {
		return models.RoleQA
	}
	return models.RoleMember
}
