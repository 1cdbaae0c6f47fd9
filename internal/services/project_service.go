package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
	apperrors "github.com/OluRemiFour/OctoOps-backend/pkg/errors"
	"github.com/OluRemiFour/OctoOps-backend/pkg/logger"
)

// CreateProjectInput describes a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     string
}

// ProjectService manages projects and exposes them with owner and team
// populated.
type ProjectService struct {
	projects store.ProjectRepository
	users    store.UserRepository
	populate populator
	now      func() time.Time
	log      *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(st store.Store) (*ProjectService, error) {
	if st == nil {
		return nil, errors.New("project service: store is required")
	}
	return &ProjectService{
		projects: st.Projects(),
		users:    st.Users(),
		populate: populator{users: st.Users(), tasks: st.Tasks()},
		now:      time.Now,
		log:      logger.WithModule("projects"),
	}, nil
}

// Create persists a project whose team starts with the owner.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	ownerID := strings.TrimSpace(input.OwnerID)
	if name == "" {
		return nil, apperrors.NewBadRequest("Project name is required")
	}
	if ownerID == "" {
		return nil, apperrors.NewBadRequest("Owner ID is required")
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, storeError(err, ErrUserNotFound, "Failed to create project")
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     ownerID,
		TeamIDs:     []string{ownerID},
	}
	project.Touch(s.now().UTC())

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.Wrap(err, "Failed to create project")
	}

	s.log.Info("project created", zap.String("project_id", project.ID), zap.String("owner_id", ownerID))
	return s.loadPopulated(ctx, project.ID, "Failed to create project")
}

// Get returns a project with owner and team populated.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProjectIDRequired
	}
	return s.loadPopulated(ctx, id, "Failed to fetch project")
}

// ListByOwner returns every project owned by ownerID.
func (s *ProjectService) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	ctx = ensureContext(ctx)

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.NewBadRequest("Owner ID is required")
	}

	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch projects")
	}
	if err := s.populate.populateProjects(ctx, projects); err != nil {
		return nil, apperrors.Wrap(err, "Failed to fetch projects")
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *ProjectService) loadPopulated(ctx context.Context, id, message string) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrProjectNotFound, message)
	}

	projects := []models.Project{*project}
	if err := s.populate.populateProjects(ctx, projects); err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	return &projects[0], nil
}
