package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/repository/firestore"
	"github.com/notedrop/notedrop/pkg/repository/memory"
)

func newTestNote(text string) *model.Note {
	normalized := model.NormalizeText(text, types.SourceManual)
	return &model.Note{
		CreatedAt:   time.Now(),
		Source:      types.SourceManual,
		Fingerprint: model.Fingerprint(normalized, types.SourceManual),
		Title:       model.DeriveTitle("", normalized),
		RawText:     normalized,
		Area:        "General",
		Type:        "Note",
		State:       "Pending",
		Priority:    "Medium",
		Status:      types.SyncStatusPending,
	}
}

func runNoteRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns auto-increment IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created1, err := repo.Note().Create(ctx, newTestNote("first note"))
		gt.NoError(t, err).Required()
		gt.Value(t, created1.ID).NotEqual(int64(0))
		gt.Value(t, created1.Status).Equal(types.SyncStatusPending)

		created2, err := repo.Note().Create(ctx, newTestNote("second note"))
		gt.NoError(t, err).Required()
		gt.Value(t, created2.ID).NotEqual(created1.ID)
	})

	t.Run("Create rejects duplicate fingerprints", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().Create(ctx, newTestNote("same text"))
		gt.NoError(t, err).Required()

		_, err = repo.Note().Create(ctx, newTestNote("same text"))
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, types.ErrDuplicateNote)).True()
	})

	t.Run("ExistsByFingerprint", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := newTestNote("fingerprinted")
		_, err := repo.Note().Create(ctx, note)
		gt.NoError(t, err).Required()

		exists, err := repo.Note().ExistsByFingerprint(ctx, note.Fingerprint)
		gt.NoError(t, err).Required()
		gt.Bool(t, exists).True()

		exists, err = repo.Note().ExistsByFingerprint(ctx, "no-such-fingerprint")
		gt.NoError(t, err).Required()
		gt.Bool(t, exists).False()
	})

	t.Run("Get returns error for missing note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().Get(ctx, time.Now().UnixNano())
		gt.Value(t, err).NotNil()
	})

	t.Run("List returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().Create(ctx, newTestNote("list one"))
		gt.NoError(t, err).Required()
		_, err = repo.Note().Create(ctx, newTestNote("list two"))
		gt.NoError(t, err).Required()
		created3, err := repo.Note().Create(ctx, newTestNote("list three"))
		gt.NoError(t, err).Required()

		notes, err := repo.Note().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, notes).Length(2)
		gt.Value(t, notes[0].ID).Equal(created3.ID)
	})

	t.Run("MarkSent transitions pending to sent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, newTestNote("to be sent"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Note().MarkSent(ctx, created.ID, "remote-123")).Required()

		got, err := repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.SyncStatusSent)
		gt.Value(t, got.RemoteID).Equal("remote-123")
		gt.Value(t, got.LastError).Equal("")
		gt.Value(t, got.NextRetryAt).Nil()
	})

	t.Run("MarkError schedules retry and counts attempts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, newTestNote("to fail"))
		gt.NoError(t, err).Required()

		retryAt := time.Now().Add(time.Minute)
		gt.NoError(t, repo.Note().MarkError(ctx, created.ID, "boom", retryAt)).Required()

		got, err := repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.SyncStatusError)
		gt.Value(t, got.LastError).Equal("boom")
		gt.Value(t, got.Attempts).Equal(1)
		gt.Value(t, got.NextRetryAt).NotNil()

		gt.NoError(t, repo.Note().MarkError(ctx, created.ID, "boom again", retryAt)).Required()
		got, err = repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Attempts).Equal(2)
	})

	t.Run("ListRetryable honors status and retry time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now()

		pending, err := repo.Note().Create(ctx, newTestNote("retryable pending"))
		gt.NoError(t, err).Required()

		sent, err := repo.Note().Create(ctx, newTestNote("already sent"))
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Note().MarkSent(ctx, sent.ID, "remote-sent")).Required()

		dueErr, err := repo.Note().Create(ctx, newTestNote("errored and due"))
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Note().MarkError(ctx, dueErr.ID, "x", now.Add(-time.Minute))).Required()

		futureErr, err := repo.Note().Create(ctx, newTestNote("errored not due"))
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Note().MarkError(ctx, futureErr.ID, "x", now.Add(time.Hour))).Required()

		retryable, err := repo.Note().ListRetryable(ctx, now)
		gt.NoError(t, err).Required()
		gt.Array(t, retryable).Length(2)
		// Oldest captured first.
		gt.Value(t, retryable[0].ID).Equal(pending.ID)
		gt.Value(t, retryable[1].ID).Equal(dueErr.ID)
	})
}

func TestNoteRepository_Memory(t *testing.T) {
	runNoteRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestNoteRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runNoteRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix(fmt.Sprintf("test_%d", time.Now().UnixNano())))
		gt.NoError(t, err).Required()
		return repo
	})
}
