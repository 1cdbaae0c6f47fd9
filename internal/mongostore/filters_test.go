package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/datatypes"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestInviteFiltersRequirePending(t *testing.T) {
	require.Equal(t, bson.M{"inviteCode": "abc", "status": models.InviteStatusPending}, pendingInviteByCode("abc"))
	require.Equal(t, bson.M{"projectId": "p1", "status": models.InviteStatusPending}, pendingInvitesByProject("p1"))
	require.Equal(t, bson.M{"_id": "i1", "status": models.InviteStatusPending}, inviteTransitionFilter("i1", models.InviteStatusPending))
}

func TestInviteStatusUpdateStampsAcceptedAt(t *testing.T) {
	accepted := inviteStatusUpdate(models.InviteStatusAccepted, fixedNow)
	require.Equal(t, bson.M{"$set": bson.M{
		"status":     models.InviteStatusAccepted,
		"updatedAt":  fixedNow,
		"acceptedAt": fixedNow,
	}}, accepted)

	expired := inviteStatusUpdate(models.InviteStatusExpired, fixedNow)
	require.NotContains(t, expired["$set"], "acceptedAt")

	released := inviteStatusUpdate(models.InviteStatusPending, fixedNow)
	require.Equal(t, bson.M{"acceptedAt": ""}, released["$unset"])
	require.NotContains(t, released["$set"], "acceptedAt")
}

func TestTerminalInvitesBefore(t *testing.T) {
	filter := terminalInvitesBefore(fixedNow)
	require.Equal(t, bson.M{"$ne": models.InviteStatusPending}, filter["status"])
	require.Equal(t, bson.M{"$lt": fixedNow}, filter["updatedAt"])
}

func TestMembershipUpdatesUseSetOperators(t *testing.T) {
	add := addMemberUpdate("u1", fixedNow)
	require.Equal(t, bson.M{"team": "u1"}, add["$addToSet"])
	require.Equal(t, bson.M{"updatedAt": fixedNow}, add["$set"])

	pull := pullMemberUpdate("u1", fixedNow)
	require.Equal(t, bson.M{"team": "u1"}, pull["$pull"])
}

func TestTaskStatusFilter(t *testing.T) {
	require.Equal(t, bson.M{"_id": "t1"}, taskStatusFilter("t1", nil))

	guarded := taskStatusFilter("t1", []models.TaskStatus{models.TaskStatusInReview})
	require.Equal(t, bson.M{"$in": []models.TaskStatus{models.TaskStatusInReview}}, guarded["status"])
}

func TestTaskListFilter(t *testing.T) {
	require.Equal(t, bson.M{}, taskListFilter(store.TaskFilter{}))
	require.Equal(t, bson.M{"projectId": "p1"}, taskListFilter(store.TaskFilter{ProjectID: "p1"}))
}

func TestTaskPatchUpdateOnlyTouchesProvidedFields(t *testing.T) {
	title := "Ship"
	assignee := "u1"
	name := "Ada"
	deps := []string{"a", "b", "a", ""}

	update := taskPatchUpdate(store.TaskPatch{
		Title:         &title,
		AssigneeID:    &assignee,
		AssigneeName:  &name,
		DependencyIDs: &deps,
		UpdatedAt:     fixedNow,
	})

	require.Equal(t, bson.M{
		"title":        "Ship",
		"assignee":     "u1",
		"assigneeName": "Ada",
		"dependencies": []string{"a", "b"},
		"updatedAt":    fixedNow,
	}, update["$set"])
	require.NotContains(t, update, "$unset")
}

func TestTaskPatchUpdateClearsFields(t *testing.T) {
	empty := ""
	update := taskPatchUpdate(store.TaskPatch{AssigneeID: &empty, ClearDueDate: true, UpdatedAt: fixedNow})

	require.Equal(t, bson.M{"assignee": "", "dueDate": ""}, update["$unset"])
	require.Equal(t, bson.M{"updatedAt": fixedNow}, update["$set"])
}

func TestPullDependencyUpdate(t *testing.T) {
	require.Equal(t, bson.M{"dependencies": "t1"}, dependentsOf("t1"))

	update := pullDependencyUpdate("t1", fixedNow)
	require.Equal(t, bson.M{"dependencies": "t1"}, update["$pull"])
}

func TestSettingsUpsertUpdateSeparatesOperators(t *testing.T) {
	update := settingsUpsertUpdate("sid", "p1", map[string]datatypes.JSONMap{
		models.SectionNotifications: {"email": false},
		"unknown":                   {"x": 1},
	}, fixedNow, true)

	set := update["$set"].(bson.M)
	onInsert := update["$setOnInsert"].(bson.M)

	require.Equal(t, datatypes.JSONMap{"email": false}, set[models.SectionNotifications])
	require.Equal(t, fixedNow, set["updatedAt"])
	require.NotContains(t, set, "unknown")

	require.Equal(t, "sid", onInsert["_id"])
	require.Equal(t, "p1", onInsert["projectId"])
	require.NotContains(t, onInsert, models.SectionNotifications)
	require.Equal(t, models.DefaultSettingsSection(models.SectionAISettings), onInsert[models.SectionAISettings])

	for key := range set {
		require.NotContains(t, onInsert, key, "field %q appears in both operators", key)
	}
}

func TestSettingsGetOrCreateUpdateIsInsertOnly(t *testing.T) {
	update := settingsUpsertUpdate("sid", "p1", nil, fixedNow, false)

	require.NotContains(t, update, "$set")
	onInsert := update["$setOnInsert"].(bson.M)
	require.Equal(t, fixedNow, onInsert["updatedAt"])
	for _, section := range models.SettingsSections() {
		require.Contains(t, onInsert, section)
	}
}

func TestSettingsUpsertWithoutSectionsTouchesUpdatedAt(t *testing.T) {
	update := settingsUpsertUpdate("sid", "p1", nil, fixedNow, true)

	require.Equal(t, bson.M{"updatedAt": fixedNow}, update["$set"])
	onInsert := update["$setOnInsert"].(bson.M)
	require.NotContains(t, onInsert, "updatedAt")
	for _, section := range models.SettingsSections() {
		require.Contains(t, onInsert, section)
	}
}

func TestDedupe(t *testing.T) {
	require.Equal(t, []string{}, dedupe(nil))
	require.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "", "b", "a"}))
}

func TestIndexModelsCoverUniqueKeys(t *testing.T) {
	indexes := indexModels()

	for _, coll := range []string{usersCollection, invitesCollection, settingsCollection} {
		require.NotEmpty(t, indexes[coll], "missing indexes for %s", coll)
		require.NotNil(t, indexes[coll][0].Options)
		require.True(t, *indexes[coll][0].Options.Unique, "first index on %s must be unique", coll)
	}
}
