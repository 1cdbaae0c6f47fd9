package services

import (
	"context"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

// populator joins referenced documents in memory. Each call issues at most
// one batch lookup per referenced collection so both store backends return
// identical payloads.
type populator struct {
	users store.UserRepository
	tasks store.TaskRepository
}

func (p populator) usersByID(ctx context.Context, ids []string) (map[string]*models.User, error) {
	ids = normaliseIDs(ids)
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	users, err := p.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// orderedUsers resolves ids in order, silently dropping dangling references.
func (p populator) orderedUsers(ctx context.Context, ids []string) ([]models.User, error) {
	byID, err := p.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

// populateTasks attaches assignee and createdBy, plus dependencies when withDeps is
// set. Dependencies are not populated further.
func (p populator) populateTasks(ctx context.Context, tasks []models.Task, withDeps bool) error {
	if len(tasks) == 0 {
		return nil
	}

	var userIDs, depIDs []string
	for i := range tasks {
		if tasks[i].AssigneeID != nil {
			userIDs = append(userIDs, *tasks[i].AssigneeID)
		}
		if tasks[i].CreatedByID != nil {
			userIDs = append(userIDs, *tasks[i].CreatedByID)
		}
		if withDeps {
			depIDs = append(depIDs, tasks[i].DependencyIDs...)
		}
	}

	users, err := p.usersByID(ctx, userIDs)
	if err != nil {
		return err
	}

	deps := map[string]models.Task{}
	if withDeps {
		if depIDs = normaliseIDs(depIDs); len(depIDs) > 0 {
			found, err := p.tasks.FindByIDs(ctx, depIDs)
			if err != nil {
				return err
			}
			for _, dep := range found {
				deps[dep.ID] = dep
			}
		}
	}

	for i := range tasks {
		task := &tasks[i]
		if task.AssigneeID != nil {
			task.Assignee = models.SummaryOf(users[*task.AssigneeID])
		}
		if task.CreatedByID != nil {
			task.CreatedBy = models.RefOf(users[*task.CreatedByID])
		}
		if withDeps {
			task.Dependencies = make([]models.Task, 0, len(task.DependencyIDs))
			for _, id := range task.DependencyIDs {
				if dep, ok := deps[id]; ok {
					task.Dependencies = append(task.Dependencies, dep)
				}
			}
		}
	}
	return nil
}

func (p populator) populateInvites(ctx context.Context, invites []models.TeamInvite) error {
	ids := make([]string, 0, len(invites))
	for i := range invites {
		if invites[i].InvitedByID != "" {
			ids = append(ids, invites[i].InvitedByID)
		}
	}

	users, err := p.usersByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range invites {
		invites[i].InvitedBy = models.RefOf(users[invites[i].InvitedByID])
	}
	return nil
}

func (p populator) populateProjects(ctx context.Context, projects []models.Project) error {
	var ids []string
	for i := range projects {
		ids = append(ids, projects[i].OwnerID)
		ids = append(ids, projects[i].TeamIDs...)
	}

	users, err := p.usersByID(ctx, ids)
	if err != nil {
		return err
	}

	for i := range projects {
		project := &projects[i]
		project.Owner = models.RefOf(users[project.OwnerID])
		project.Team = make([]models.User, 0, len(project.TeamIDs))
		for _, id := range project.TeamIDs {
			if user, ok := users[id]; ok {
				project.Team = append(project.Team, *user)
			}
		}
	}
	return nil
}
