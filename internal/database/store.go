package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

// Store implements store.Store on top of GORM.
type Store struct {
	db *gorm.DB

	users    *userRepository
	projects *projectRepository
	invites  *inviteRepository
	tasks    *taskRepository
	settings *settingsRepository
}

var _ store.Store = (*Store)(nil)

// NewStore wraps an already migrated gorm.DB.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := ensureDB(db); err != nil {
		return nil, err
	}

	return &Store{
		db:       db,
		users:    &userRepository{db: db},
		projects: &projectRepository{db: db},
		invites:  &inviteRepository{db: db},
		tasks:    &taskRepository{db: db},
		settings: &settingsRepository{db: db},
	}, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() store.UserRepository        { return s.users }
func (s *Store) Projects() store.ProjectRepository  { return s.projects }
func (s *Store) Invites() store.InviteRepository    { return s.invites }
func (s *Store) Tasks() store.TaskRepository        { return s.tasks }
func (s *Store) Settings() store.SettingsRepository { return s.settings }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database: resolve sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database: resolve sql db: %w", err)
	}
	return sqlDB.Close()
}
