package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
	"github.com/OluRemiFour/OctoOps-backend/pkg/validator"
)

// TeamOverview lists the members of a project together with its outstanding
// invites.
type TeamOverview struct {
	Members        []models.User       `json:"members"`
	PendingInvites []models.TeamInvite `json:"pendingInvites"`
}

// TeamService manages project membership.
type TeamService struct {
	projects store.ProjectRepository
	users    store.UserRepository
	invites  store.InviteRepository
	populate populator
	log      *zap.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(st store.Store) (*TeamService, error) {
	if st == nil {
		return nil, errors.New("team service: store is required")
	}
	return &TeamService{
		projects: st.Projects(),
		users:    st.Users(),
		invites:  st.Invites(),
		populate: populator{users: st.Users(), tasks: st.Tasks()},
		log:      logger.WithModule("team"),
	}, nil
}

// ListMembers returns the populated team and pending invites of a project.
func (s *TeamService) ListMembers(ctx context.Context, projectID string) (*TeamOverview, error) {
	ctx = ensureContext(ctx)

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrProjectIDRequired
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, storeError(err, ErrProjectNotFound, "Failed to fetch team members")
	}

	members, err := s.populate.orderedUsers(ctx, project.TeamIDs)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch team members")
	}

	invites, err := s.invites.ListPendingByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch team members")
	}
	if err := s.populate.populateInvites(ctx, invites); err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch team members")
	}
	if invites == nil {
		invites = []models.TeamInvite{}
	}

	return &TeamOverview{Members: members, PendingInvites: invites}, nil
}

// RemoveMember pulls userID from the project team and returns the remaining
// members.
func (s *TeamService) RemoveMember(ctx context.Context, projectID, userID string) ([]models.User, error) {
	ctx = ensureContext(ctx)

	projectID = strings.TrimSpace(projectID)
	userID = strings.TrimSpace(userID)
	if projectID == "" || userID == "" {
		return nil, apperrors.NewBadRequest("User ID and project ID are required")
	}

	project, err := s.projects.RemoveMember(ctx, projectID, userID)
	if err != nil {
		return nil, storeError(err, ErrProjectNotFound, "Failed to remove team member")
	}

	members, err := s.populate.orderedUsers(ctx, project.TeamIDs)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to remove team member")
	}

	s.log.Info("team member removed", zap.String("project_id", projectID), zap.String("user_id", userID))
	return members, nil
}

// UpdateMemberRole changes a user's role. Outstanding invites keep the role
// they were issued with.
func (s *TeamService) UpdateMemberRole(ctx context.Context, userID string, role models.UserRole) (*models.User, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewBadRequest("User ID is required")
	}
	if err := validator.ValidateVar("role", string(role), "required,"+roleTag); err != nil {
		return nil, apperrors.NewBadRequest("Invalid role")
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound, "Failed to update member role")
	}

	s.log.Info("member role updated", zap.String("user_id", userID), zap.String("role", string(role)))
	return user, nil
}
