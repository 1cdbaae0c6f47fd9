package mongostore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/OluRemiFour/OctoOps-backend/internal/models"
	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

var objectIDHex = regexp.MustCompile(`^[0-9a-f]{24}$`)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func findAndModifyReply(doc bson.D) bson.D {
	if doc == nil {
		return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})
	}
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

// sentFilter returns the query of the next findAndModify the client issued.
func sentFilter(mt *mtest.T) bson.Raw {
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	require.Equal(mt, "findAndModify", evt.CommandName)
	return evt.Command.Lookup("query").Document()
}

func TestInviteRepositoryTransitionStatus(t *testing.T) {
	mt := newMockT(t)

	mt.Run("swaps a pending invite", func(mt *mtest.T) {
		repo := &inviteRepository{coll: mt.Coll}
		mt.AddMockResponses(findAndModifyReply(bson.D{
			{Key: "_id", Value: "inv1"},
			{Key: "status", Value: string(models.InviteStatusAccepted)},
			{Key: "acceptedAt", Value: fixedNow},
		}))

		invite, err := repo.TransitionStatus(context.Background(), "inv1", models.InviteStatusPending, models.InviteStatusAccepted, fixedNow)
		require.NoError(mt, err)
		require.Equal(mt, models.InviteStatusAccepted, invite.Status)
		require.NotNil(mt, invite.AcceptedAt)

		query := sentFilter(mt)
		require.Equal(mt, "inv1", query.Lookup("_id").StringValue())
		require.Equal(mt, string(models.InviteStatusPending), query.Lookup("status").StringValue())
	})

	mt.Run("loses the swap", func(mt *mtest.T) {
		repo := &inviteRepository{coll: mt.Coll}
		mt.AddMockResponses(findAndModifyReply(nil))

		_, err := repo.TransitionStatus(context.Background(), "inv1", models.InviteStatusPending, models.InviteStatusAccepted, fixedNow)
		require.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("create assigns an object id", func(mt *mtest.T) {
		repo := &inviteRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		invite := &models.TeamInvite{Email: "a@example.com", ProjectID: "p1", InviteCode: "code"}
		require.NoError(mt, repo.Create(context.Background(), invite))
		require.Regexp(mt, objectIDHex, invite.ID)
	})

	mt.Run("create maps duplicate codes", func(mt *mtest.T) {
		repo := &inviteRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Code:    11000,
			Message: "E11000 duplicate key error collection: octoops.invites index: inviteCode_1",
		}))

		err := repo.Create(context.Background(), &models.TeamInvite{InviteCode: "code"})
		require.ErrorIs(mt, err, store.ErrDuplicate)
	})
}

func TestTaskRepositorySetStatusGuard(t *testing.T) {
	mt := newMockT(t)
	from := []models.TaskStatus{models.TaskStatusTodo}

	mt.Run("applies when the guard holds", func(mt *mtest.T) {
		repo := &taskRepository{coll: mt.Coll}
		mt.AddMockResponses(findAndModifyReply(bson.D{
			{Key: "_id", Value: "t1"},
			{Key: "status", Value: string(models.TaskStatusInProgress)},
		}))

		task, err := repo.SetStatus(context.Background(), "t1", models.TaskStatusInProgress, from, fixedNow)
		require.NoError(mt, err)
		require.Equal(mt, models.TaskStatusInProgress, task.Status)
		require.Equal(mt, []string{}, task.DependencyIDs)

		query := sentFilter(mt)
		require.Equal(mt, "t1", query.Lookup("_id").StringValue())
	})

	mt.Run("reports a status mismatch for an existing task", func(mt *mtest.T) {
		repo := &taskRepository{coll: mt.Coll}
		mt.AddMockResponses(
			findAndModifyReply(nil),
			mtest.CreateCursorResponse(0, "octoops.tasks", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "t1"},
				{Key: "status", Value: string(models.TaskStatusDone)},
			}),
		)

		_, err := repo.SetStatus(context.Background(), "t1", models.TaskStatusInProgress, from, fixedNow)
		require.True(mt, errors.Is(err, store.ErrStatusMismatch), "got %v", err)
	})

	mt.Run("reports not found for a missing task", func(mt *mtest.T) {
		repo := &taskRepository{coll: mt.Coll}
		mt.AddMockResponses(
			findAndModifyReply(nil),
			mtest.CreateCursorResponse(0, "octoops.tasks", mtest.FirstBatch),
		)

		_, err := repo.SetStatus(context.Background(), "missing", models.TaskStatusInProgress, from, fixedNow)
		require.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("unguarded miss is not found", func(mt *mtest.T) {
		repo := &taskRepository{coll: mt.Coll}
		mt.AddMockResponses(findAndModifyReply(nil))

		_, err := repo.SetStatus(context.Background(), "missing", models.TaskStatusDone, nil, fixedNow)
		require.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("delete of a missing task is not found", func(mt *mtest.T) {
		repo := &taskRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		require.ErrorIs(mt, repo.Delete(context.Background(), "missing"), store.ErrNotFound)
	})
}

func TestProjectRepositoryAddMemberMissingProject(t *testing.T) {
	mt := newMockT(t)

	mt.Run("no match", func(mt *mtest.T) {
		repo := &projectRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		require.ErrorIs(mt, repo.AddMember(context.Background(), "missing", "u1"), store.ErrNotFound)
	})

	mt.Run("already a member", func(mt *mtest.T) {
		repo := &projectRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		require.NoError(mt, repo.AddMember(context.Background(), "p1", "u1"))
	})
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	mt := newMockT(t)

	mt.Run("creates on first read", func(mt *mtest.T) {
		repo := &settingsRepository{coll: mt.Coll}
		mt.AddMockResponses(findAndModifyReply(bson.D{
			{Key: "_id", Value: "s1"},
			{Key: "projectId", Value: "p1"},
		}))

		settings, err := repo.GetOrCreate(context.Background(), "p1", fixedNow)
		require.NoError(mt, err)
		require.Equal(mt, "p1", settings.ProjectID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.True(mt, evt.Command.Lookup("upsert").Boolean())
	})

	mt.Run("retries after losing the insert race", func(mt *mtest.T) {
		repo := &settingsRepository{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Message: "E11000 duplicate key error collection: octoops.settings index: projectId_1",
				Name:    "DuplicateKey",
			}),
			findAndModifyReply(bson.D{
				{Key: "_id", Value: "s1"},
				{Key: "projectId", Value: "p1"},
			}),
		)

		settings, err := repo.Upsert(context.Background(), "p1", nil, fixedNow)
		require.NoError(mt, err)
		require.Equal(mt, "s1", settings.ID)

		require.NotNil(mt, mt.GetStartedEvent())
		require.NotNil(mt, mt.GetStartedEvent(), "expected a second findAndModify")
	})

	mt.Run("surfaces a repeated duplicate", func(mt *mtest.T) {
		repo := &settingsRepository{coll: mt.Coll}
		dup := mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error",
			Name:    "DuplicateKey",
		})
		mt.AddMockResponses(dup, dup)

		_, err := repo.Upsert(context.Background(), "p1", nil, fixedNow)
		require.ErrorIs(mt, err, store.ErrDuplicate)
	})
}
