package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

type projectRepository struct {
	db *gorm.DB
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return insertMembers(tx, project.ID, project.TeamIDs, project.CreatedAt)
	})
	return translate(err, "create project")
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	db := r.db.WithContext(ctx)

	var project models.Project
	if err := db.Where("id = ?", id).Take(&project).Error; err != nil {
		return nil, translate(err, "find project")
	}

	teams, err := loadMembers(db, []string{project.ID})
	if err != nil {
		return nil, translate(err, "load project members")
	}
	project.TeamIDs = nonNil(teams[project.ID])
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	db := r.db.WithContext(ctx)

	var projects []models.Project
	if err := db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, translate(err, "list projects")
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	teams, err := loadMembers(db, ids)
	if err != nil {
		return nil, translate(err, "load project members")
	}
	for i := range projects {
		projects[i].TeamIDs = nonNil(teams[projects[i].ID])
	}
	return projects, nil
}

func (r *projectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := touchProject(tx, projectID, now); err != nil {
			return err
		}
		return insertMembers(tx, projectID, []string{userID}, now)
	})
	return translate(err, "add project member")
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID string) (*models.Project, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchProject(tx, projectID, time.Now().UTC()); err != nil {
			return err
		}
		return tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMember{}).Error
	})
	if err != nil {
		return nil, translate(err, "remove project member")
	}
	return r.FindByID(ctx, projectID)
}

// touchProject bumps updated_at and reports gorm.ErrRecordNotFound for
// unknown projects.
func touchProject(tx *gorm.DB, projectID string, now time.Time) error {
	res := tx.Model(&models.Project{}).Where("id = ?", projectID).UpdateColumn("updated_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// insertMembers adds rows with set semantics: existing pairs are left alone.
func insertMembers(tx *gorm.DB, projectID string, userIDs []string, at time.Time) error {
	userIDs = uniqueStrings(userIDs)
	if len(userIDs) == 0 {
		return nil
	}

	rows := make([]models.ProjectMember, len(userIDs))
	for i, userID := range userIDs {
		// offset keeps insertion order stable for rows written in one batch
		rows[i] = models.ProjectMember{ProjectID: projectID, UserID: userID, CreatedAt: at.Add(time.Duration(i) * time.Microsecond)}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func loadMembers(db *gorm.DB, projectIDs []string) (map[string][]string, error) {
	var rows []models.ProjectMember
	err := db.Where("project_id IN ?", projectIDs).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(projectIDs))
	for _, row := range rows {
		out[row.ProjectID] = append(out[row.ProjectID], row.UserID)
	}
	return out, nil
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var _ store.ProjectRepository = (*projectRepository)(nil)
