package database

import (
	"gorm.io/gorm"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := ensureDB(db); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.TeamInvite{},
		&models.Task{},
		&models.TaskDependency{},
		&models.Settings{},
	)
}
