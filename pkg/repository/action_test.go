package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/repository/memory"
)

func newTestAction(noteID int64, description, area string) *model.Action {
	return &model.Action{
		NoteID:      noteID,
		Description: description,
		Area:        area,
		Status:      types.ActionStatusPending,
		CreatedAt:   time.Now(),
	}
}

func runActionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Action().Create(ctx, newTestAction(1, "send report", "General"))
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(int64(0))

		got, err := repo.Action().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Description).Equal("send report")
		gt.Value(t, got.Status).Equal(types.ActionStatusPending)
	})

	t.Run("ListPending filters by area", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Action().Create(ctx, newTestAction(1, "a1", "IT"))
		gt.NoError(t, err).Required()
		_, err = repo.Action().Create(ctx, newTestAction(1, "a2", "Operations"))
		gt.NoError(t, err).Required()

		all, err := repo.Action().ListPending(ctx, "")
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)

		it, err := repo.Action().ListPending(ctx, "IT")
		gt.NoError(t, err).Required()
		gt.Array(t, it).Length(1)
		gt.Value(t, it[0].Description).Equal("a1")
	})

	t.Run("MarkDone excludes from pending and is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Action().Create(ctx, newTestAction(1, "to finish", ""))
		gt.NoError(t, err).Required()

		completedAt := time.Now()
		gt.NoError(t, repo.Action().MarkDone(ctx, created.ID, completedAt)).Required()
		gt.NoError(t, repo.Action().MarkDone(ctx, created.ID, completedAt)).Required()

		got, err := repo.Action().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ActionStatusDone)
		gt.Value(t, got.CompletedAt).NotNil()

		pending, err := repo.Action().ListPending(ctx, "")
		gt.NoError(t, err).Required()
		gt.Array(t, pending).Length(0)
	})

	t.Run("ListByNote", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Action().Create(ctx, newTestAction(7, "of note 7", ""))
		gt.NoError(t, err).Required()
		_, err = repo.Action().Create(ctx, newTestAction(8, "of note 8", ""))
		gt.NoError(t, err).Required()

		actions, err := repo.Action().ListByNote(ctx, 7)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(1)
		gt.Value(t, actions[0].NoteID).Equal(int64(7))
	})

	t.Run("SetRemoteID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Action().Create(ctx, newTestAction(1, "mirrored", ""))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Action().SetRemoteID(ctx, created.ID, "remote-task-1")).Required()

		got, err := repo.Action().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.RemoteID).Equal("remote-task-1")
	})
}

func TestActionRepository_Memory(t *testing.T) {
	runActionRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}
