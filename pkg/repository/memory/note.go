package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
)

type noteRepository struct {
	mu           sync.RWMutex
	notes        map[int64]*model.Note
	fingerprints map[string]int64
	nextID       int64
}

func newNoteRepository() *noteRepository {
	return &noteRepository{
		notes:        make(map[int64]*model.Note),
		fingerprints: make(map[string]int64),
		nextID:       1,
	}
}

// copyNote creates a deep copy of a note
func copyNote(n *model.Note) *model.Note {
	copied := *n
	if n.NextRetryAt != nil {
		t := *n.NextRetryAt
		copied.NextRetryAt = &t
	}
	return &copied
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fingerprints[note.Fingerprint]; exists {
		return nil, goerr.Wrap(types.ErrDuplicateNote, "fingerprint already exists",
			goerr.V("fingerprint", note.Fingerprint))
	}

	created := copyNote(note)
	created.ID = r.nextID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	r.nextID++

	r.notes[created.ID] = created
	r.fingerprints[created.Fingerprint] = created.ID
	return copyNote(created), nil
}

func (r *noteRepository) Get(ctx context.Context, id int64) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.notes[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "note not found", goerr.V("id", id))
	}
	return copyNote(n), nil
}

func (r *noteRepository) List(ctx context.Context, limit int) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*model.Note, 0, len(r.notes))
	for _, n := range r.notes {
		notes = append(notes, copyNote(n))
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (r *noteRepository) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.fingerprints[fingerprint]
	return exists, nil
}

func (r *noteRepository) ListRetryable(ctx context.Context, now time.Time) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []*model.Note
	for _, n := range r.notes {
		if !n.Status.IsRetryable() {
			continue
		}
		if n.NextRetryAt != nil && n.NextRetryAt.After(now) {
			continue
		}
		notes = append(notes, copyNote(n))
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (r *noteRepository) MarkSent(ctx context.Context, id int64, remoteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.notes[id]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "note not found", goerr.V("id", id))
	}

	n.Status = types.SyncStatusSent
	n.RemoteID = remoteID
	n.LastError = ""
	n.NextRetryAt = nil
	return nil
}

func (r *noteRepository) MarkError(ctx context.Context, id int64, message string, nextRetryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.notes[id]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "note not found", goerr.V("id", id))
	}

	n.Status = types.SyncStatusError
	n.LastError = message
	n.Attempts++
	retryAt := nextRetryAt
	n.NextRetryAt = &retryAt
	return nil
}
