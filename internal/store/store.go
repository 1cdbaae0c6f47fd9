// Package store declares the persistence contract shared by the Mongo and
// relational backends. Implementations report missing records with
// ErrNotFound and unique-index violations with ErrDuplicate.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"gorm.io/datatypes"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// Store bundles every repository exposed by a backend.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Invites() InviteRepository
	Tasks() TaskRepository
	Settings() SettingsRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// UserRepository persists users. Emails are stored lower-cased.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
}

// ProjectRepository persists projects and their team set.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)
	// AddMember is a set-add: adding an existing member is a no-op.
	AddMember(ctx context.Context, projectID, userID string) error
	// RemoveMember pulls userID from the team and returns the updated project.
	RemoveMember(ctx context.Context, projectID, userID string) (*models.Project, error)
}

// InviteRepository persists team invites.
type InviteRepository interface {
	Create(ctx context.Context, invite *models.TeamInvite) error
	FindByID(ctx context.Context, id string) (*models.TeamInvite, error)
	FindPendingByCode(ctx context.Context, code string) (*models.TeamInvite, error)
	ListPendingByProject(ctx context.Context, projectID string) ([]models.TeamInvite, error)
	// TransitionStatus moves an invite from one status to another atomically.
	// It returns ErrNotFound when no invite with that id currently has status
	// from. acceptedAt is stamped with at when to is accepted and cleared when
	// to is pending.
	TransitionStatus(ctx context.Context, id string, from, to models.InviteStatus, at time.Time) (*models.TeamInvite, error)
	// SetStatus writes the status unconditionally.
	SetStatus(ctx context.Context, id string, status models.InviteStatus, at time.Time) (*models.TeamInvite, error)
	// PurgeTerminal deletes non-pending invites last updated before cutoff.
	PurgeTerminal(ctx context.Context, cutoff time.Time) (int64, error)
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	ProjectID string
}

// TaskPatch lists the fields an update may change. Nil pointers are left
// untouched.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *string
	AssigneeName  *string
	DependencyIDs *[]string
	UpdatedAt     time.Time
}

// TaskRepository persists tasks and their dependency sets.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Task, error)
	// List returns tasks newest first.
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*models.Task, error)
	// SetStatus writes status when the current status is one of from (any
	// status when from is empty). It returns ErrNotFound when the task is
	// absent and ErrStatusMismatch when the guard rejects the change.
	SetStatus(ctx context.Context, id string, status models.TaskStatus, from []models.TaskStatus, now time.Time) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	// RemoveDependency pulls dependencyID from every task's dependencies.
	RemoveDependency(ctx context.Context, dependencyID string) (int64, error)
}

// ErrStatusMismatch is returned by guarded status updates.
var ErrStatusMismatch = errors.New("store: status precondition failed")

// SettingsRepository persists one settings document per project.
type SettingsRepository interface {
	FindByProject(ctx context.Context, projectID string) (*models.Settings, error)
	// GetOrCreate returns the existing document or inserts defaults.
	GetOrCreate(ctx context.Context, projectID string, now time.Time) (*models.Settings, error)
	// Upsert replaces the given sections wholesale, inserting the document
	// with defaults for the remaining sections when it does not exist.
	Upsert(ctx context.Context, projectID string, sections map[string]datatypes.JSONMap, now time.Time) (*models.Settings, error)
}
