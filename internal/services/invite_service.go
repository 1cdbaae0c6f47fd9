package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	"github.com/OluRemiFour/OctoOps-backend/pkg/crypto"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/metrics"
	"github.com/OluRemiFour/OctoOps-backend/pkg/validator"
)

const (
	defaultInviteExpiry    = 7 * 24 * time.Hour
	inviteCodeBytes        = 16
	inviteAcceptedMessage  = "Invitation accepted successfully"
	inviteCancelledMessage = "Invitation cancelled successfully"
)

// CancelPolicy decides how Cancel treats invites that already reached a
// terminal status.
type CancelPolicy string

const (
	// CancelPolicyAlways rejects the invite whatever its current status.
	CancelPolicyAlways CancelPolicy = "always"
	// CancelPolicyPendingOnly rejects only pending invites.
	CancelPolicyPendingOnly CancelPolicy = "pending_only"
)

// ParseCancelPolicy maps a configuration value to a CancelPolicy.
func ParseCancelPolicy(value string) (CancelPolicy, error) {
	switch CancelPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", CancelPolicyAlways:
		return CancelPolicyAlways, nil
	case CancelPolicyPendingOnly:
		return CancelPolicyPendingOnly, nil
	default:
		return "", fmt.Errorf("unknown invite cancel policy %q", value)
	}
}

// InviteOption customises InviteService behaviour.
type InviteOption func(*InviteService)

// WithInviteExpiry overrides the invite lifetime.
func WithInviteExpiry(d time.Duration) InviteOption {
	return func(s *InviteService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithInviteClock injects a custom clock primarily for testing.
func WithInviteClock(clock func() time.Time) InviteOption {
	return func(s *InviteService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCancelPolicy selects how terminal invites are cancelled.
func WithCancelPolicy(policy CancelPolicy) InviteOption {
	return func(s *InviteService) {
		if policy != "" {
			s.cancelPolicy = policy
		}
	}
}

// InviteInput carries the fields of a new team invite.
type InviteInput struct {
	Email     string
	Role      models.UserRole
	ProjectID string
	InvitedBy string
}

// AcceptResult is returned after an invite has been consumed.
type AcceptResult struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// InviteService issues invite codes and resolves them into project
// membership.
type InviteService struct {
	invites      store.InviteRepository
	users        store.UserRepository
	projects     store.ProjectRepository
	populate     populator
	expiry       time.Duration
	cancelPolicy CancelPolicy
	now          func() time.Time
	log          *zap.Logger
}

// NewInviteService constructs an InviteService with the provided store.
func NewInviteService(st store.Store, opts ...InviteOption) (*InviteService, error) {
	if st == nil {
		return nil, errors.New("invite service: store is required")
	}

	svc := &InviteService{
		invites:      st.Invites(),
		users:        st.Users(),
		projects:     st.Projects(),
		populate:     populator{users: st.Users(), tasks: st.Tasks()},
		expiry:       defaultInviteExpiry,
		cancelPolicy: CancelPolicyAlways,
		now:          time.Now,
		log:          logger.WithModule("invites"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Invite issues a pending invite for email to join projectID.
func (s *InviteService) Invite(ctx context.Context, input InviteInput) (*models.TeamInvite, error) {
	ctx = ensureContext(ctx)

	email := normaliseEmail(input.Email)
	projectID := strings.TrimSpace(input.ProjectID)
	if email == "" || projectID == "" {
		return nil, apperrors.NewBadRequest("Email and project ID are required")
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if err := validator.ValidateVar("role", string(role), roleTag); err != nil {
		return nil, apperrors.NewBadRequest("Invalid role")
	}

	if err := s.ensureNotMember(ctx, email, projectID); err != nil {
		return nil, err
	}

	code, err := crypto.GenerateHexToken(inviteCodeBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to invite team member")
	}

	now := s.now().UTC()
	invite := &models.TeamInvite{
		Email:       email,
		Role:        role,
		ProjectID:   projectID,
		InvitedByID: strings.TrimSpace(input.InvitedBy),
		InviteCode:  code,
		ExpiresAt:   now.Add(s.expiry),
		Status:      models.InviteStatusPending,
	}
	invite.Touch(now)

	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, apperrors.Wrap(err, "Failed to invite team member")
	}

	invites := []models.TeamInvite{*invite}
	if err := s.populate.populateInvites(ctx, invites); err != nil {
		return nil, apperrors.Wrap(err, "Failed to invite team member")
	}

	metrics.InviteTransitions.WithLabelValues(string(models.InviteStatusPending)).Inc()
	s.log.Info("invite issued",
		zap.String("invite_id", invite.ID),
		zap.String("project_id", projectID),
		zap.String("role", string(role)),
	)
	return &invites[0], nil
}

func (s *InviteService) ensureNotMember(ctx context.Context, email, projectID string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(err, "Failed to invite team member")
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(err, "Failed to invite team member")
	}
	if project.HasMember(user.ID) {
		return ErrAlreadyTeamMember
	}
	return nil
}

// Accept consumes a pending invite code. The invite is claimed first with a
// pending to accepted compare-and-swap, so a caller that loses the race to
// another accept or a cancel leaves no user or membership behind. When user
// creation or the team update fails after the claim, the invite is released
// back to pending.
func (s *InviteService) Accept(ctx context.Context, inviteCode, userName string) (*AcceptResult, error) {
	ctx = ensureContext(ctx)

	inviteCode = strings.ToLower(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return nil, apperrors.NewBadRequest("Invite code is required")
	}

	invite, err := s.invites.FindPendingByCode(ctx, inviteCode)
	if err != nil {
		return nil, storeError(err, ErrInviteNotFound, "Failed to accept invitation")
	}

	now := s.now().UTC()
	if invite.Expired(now) {
		return nil, s.expire(ctx, invite, now)
	}

	if _, err := s.projects.FindByID(ctx, invite.ProjectID); err != nil {
		return nil, storeError(err, ErrProjectNotFound, "Failed to accept invitation")
	}

	if _, err := s.invites.TransitionStatus(ctx, invite.ID, models.InviteStatusPending, models.InviteStatusAccepted, now); err != nil {
		return nil, storeError(err, ErrInviteNotFound, "Failed to accept invitation")
	}

	user, created, err := s.join(ctx, invite, userName, now)
	if err != nil {
		s.release(ctx, invite, now)
		return nil, err
	}

	metrics.InviteTransitions.WithLabelValues(string(models.InviteStatusAccepted)).Inc()
	s.log.Info("invite accepted",
		zap.String("invite_id", invite.ID),
		zap.String("project_id", invite.ProjectID),
		zap.String("user_id", user.ID),
		zap.Bool("user_created", created),
	)
	return &AcceptResult{User: user, Message: inviteAcceptedMessage}, nil
}

// join finds or creates the invited user and adds them to the project team.
func (s *InviteService) join(ctx context.Context, invite *models.TeamInvite, userName string, now time.Time) (*models.User, bool, error) {
	user, created, err := findOrCreateUser(ctx, s.users, invite.Email, func() *models.User {
		name := strings.TrimSpace(userName)
		if name == "" {
			name = emailLocalPart(invite.Email)
		}
		invitedAt := invite.CreatedAt
		acceptedAt := now
		u := &models.User{
			Name:        name,
			Role:        invite.Role,
			Status:      models.UserStatusActive,
			Avatar:      models.AvatarForRole(invite.Role),
			InvitedByID: optionalID(&invite.InvitedByID),
			InvitedAt:   &invitedAt,
			AcceptedAt:  &acceptedAt,
		}
		u.Touch(now)
		return u
	})
	if err != nil {
		return nil, false, apperrors.Wrap(err, "Failed to accept invitation")
	}

	if err := s.projects.AddMember(ctx, invite.ProjectID, user.ID); err != nil {
		return nil, false, storeError(err, ErrProjectNotFound, "Failed to accept invitation")
	}
	return user, created, nil
}

// release hands a claimed invite back to pending so the code can be retried.
// A user created before the failure is kept; the next accept reuses it.
func (s *InviteService) release(ctx context.Context, invite *models.TeamInvite, now time.Time) {
	if _, err := s.invites.TransitionStatus(ctx, invite.ID, models.InviteStatusAccepted, models.InviteStatusPending, now); err != nil {
		s.log.Error("release claimed invite", zap.String("invite_id", invite.ID), zap.Error(err))
	}
}

// expire flips a stale pending invite to expired and reports ErrInviteExpired.
// Losing the swap to a concurrent caller still reports expiry.
func (s *InviteService) expire(ctx context.Context, invite *models.TeamInvite, now time.Time) error {
	_, err := s.invites.TransitionStatus(ctx, invite.ID, models.InviteStatusPending, models.InviteStatusExpired, now)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperrors.Wrap(err, "Failed to accept invitation")
	}
	if err == nil {
		metrics.InviteTransitions.WithLabelValues(string(models.InviteStatusExpired)).Inc()
		s.log.Info("invite expired", zap.String("invite_id", invite.ID), zap.Time("expires_at", invite.ExpiresAt))
	}
	return ErrInviteExpired
}

// Cancel rejects an invite according to the configured CancelPolicy and
// returns the acknowledgement message.
func (s *InviteService) Cancel(ctx context.Context, inviteID string) (string, error) {
	ctx = ensureContext(ctx)

	inviteID = strings.TrimSpace(inviteID)
	if inviteID == "" {
		return "", apperrors.NewBadRequest("Invite ID is required")
	}

	now := s.now().UTC()
	switch s.cancelPolicy {
	case CancelPolicyPendingOnly:
		_, err := s.invites.TransitionStatus(ctx, inviteID, models.InviteStatusPending, models.InviteStatusRejected, now)
		if errors.Is(err, store.ErrNotFound) {
			current, findErr := s.invites.FindByID(ctx, inviteID)
			if findErr != nil {
				return "", storeError(findErr, ErrInviteIDNotFound, "Failed to cancel invitation")
			}
			return "", apperrors.NewBadRequest(fmt.Sprintf("Invite is already %s", current.Status))
		}
		if err != nil {
			return "", apperrors.Wrap(err, "Failed to cancel invitation")
		}
	default:
		if _, err := s.invites.SetStatus(ctx, inviteID, models.InviteStatusRejected, now); err != nil {
			return "", storeError(err, ErrInviteIDNotFound, "Failed to cancel invitation")
		}
	}

	metrics.InviteTransitions.WithLabelValues(string(models.InviteStatusRejected)).Inc()
	s.log.Info("invite cancelled", zap.String("invite_id", inviteID), zap.String("policy", string(s.cancelPolicy)))
	return inviteCancelledMessage, nil
}
