package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/datatypes"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

// Filter and update documents are built by plain functions so they can be
// asserted without a running server.

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

func byIDs(ids []string) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func pendingInviteByCode(code string) bson.M {
	return bson.M{"inviteCode": code, "status": models.InviteStatusPending}
}

func pendingInvitesByProject(projectID string) bson.M {
	return bson.M{"projectId": projectID, "status": models.InviteStatusPending}
}

// inviteTransitionFilter matches the invite only while it still has status
// from, turning FindOneAndUpdate into a compare-and-swap.
func inviteTransitionFilter(id string, from models.InviteStatus) bson.M {
	return bson.M{"_id": id, "status": from}
}

func inviteStatusUpdate(status models.InviteStatus, at time.Time) bson.M {
	set := bson.M{"status": status, "updatedAt": at}
	switch status {
	case models.InviteStatusAccepted:
		set["acceptedAt"] = at
	case models.InviteStatusPending:
		return bson.M{"$set": set, "$unset": bson.M{"acceptedAt": ""}}
	}
	return bson.M{"$set": set}
}

func terminalInvitesBefore(cutoff time.Time) bson.M {
	return bson.M{
		"status":    bson.M{"$ne": models.InviteStatusPending},
		"updatedAt": bson.M{"$lt": cutoff},
	}
}

func addMemberUpdate(userID string, at time.Time) bson.M {
	return bson.M{
		"$addToSet": bson.M{"team": userID},
		"$set":      bson.M{"updatedAt": at},
	}
}

func pullMemberUpdate(userID string, at time.Time) bson.M {
	return bson.M{
		"$pull": bson.M{"team": userID},
		"$set":  bson.M{"updatedAt": at},
	}
}

func roleUpdate(role models.UserRole, at time.Time) bson.M {
	return bson.M{"$set": bson.M{"role": role, "updatedAt": at}}
}

func taskListFilter(filter store.TaskFilter) bson.M {
	if filter.ProjectID == "" {
		return bson.M{}
	}
	return bson.M{"projectId": filter.ProjectID}
}

// taskStatusFilter guards a status write on the current status when from is
// non-empty.
func taskStatusFilter(id string, from []models.TaskStatus) bson.M {
	filter := byID(id)
	if len(from) > 0 {
		filter["status"] = bson.M{"$in": from}
	}
	return filter
}

func taskStatusUpdate(status models.TaskStatus, at time.Time) bson.M {
	return bson.M{"$set": bson.M{"status": status, "updatedAt": at}}
}

func taskPatchUpdate(patch store.TaskPatch) bson.M {
	set := bson.M{"updatedAt": patch.UpdatedAt}
	unset := bson.M{}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.ClearDueDate {
		unset["dueDate"] = ""
	} else if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}
	if patch.AssigneeID != nil {
		if *patch.AssigneeID == "" {
			unset["assignee"] = ""
		} else {
			set["assignee"] = *patch.AssigneeID
		}
	}
	if patch.AssigneeName != nil {
		set["assigneeName"] = *patch.AssigneeName
	}
	if patch.DependencyIDs != nil {
		set["dependencies"] = dedupe(*patch.DependencyIDs)
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func dependentsOf(taskID string) bson.M {
	return bson.M{"dependencies": taskID}
}

func pullDependencyUpdate(taskID string, at time.Time) bson.M {
	return bson.M{
		"$pull": bson.M{"dependencies": taskID},
		"$set":  bson.M{"updatedAt": at},
	}
}

func settingsByProject(projectID string) bson.M {
	return bson.M{"projectId": projectID}
}

// settingsUpsertUpdate replaces the given sections and, on insert only, fills
// the identity fields and the defaults for every other section. A field may
// appear in at most one operator, so defaults skip patched sections. With
// touch set, updatedAt is always written; without it and without sections
// the update is insert-only and leaves an existing document untouched.
func settingsUpsertUpdate(id, projectID string, sections map[string]datatypes.JSONMap, at time.Time, touch bool) bson.M {
	set := bson.M{}
	for name, value := range sections {
		if !isSettingsSection(name) {
			continue
		}
		if value == nil {
			value = datatypes.JSONMap{}
		}
		set[name] = value
	}

	onInsert := bson.M{
		"_id":       id,
		"projectId": projectID,
		"createdAt": at,
	}
	for _, name := range models.SettingsSections() {
		if _, patched := set[name]; patched {
			continue
		}
		onInsert[name] = models.DefaultSettingsSection(name)
	}

	if len(set) == 0 && !touch {
		onInsert["updatedAt"] = at
		return bson.M{"$setOnInsert": onInsert}
	}

	set["updatedAt"] = at
	return bson.M{"$set": set, "$setOnInsert": onInsert}
}

func isSettingsSection(name string) bool {
	for _, section := range models.SettingsSections() {
		if section == name {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
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
