package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type noteRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNoteRepository(client *firestore.Client) *noteRepository {
	return &noteRepository{client: client}
}

func (r *noteRepository) collection() string {
	return collectionName(r.collectionPrefix, "notes")
}

func (r *noteRepository) counterCollection() string {
	return collectionName(r.collectionPrefix, "counters")
}

// noteDoc is the stored representation; field paths match the migrate
// command's index definitions.
type noteDoc struct {
	ID          int64      `firestore:"id"`
	CreatedAt   time.Time  `firestore:"created_at"`
	Source      string     `firestore:"source"`
	Fingerprint string     `firestore:"fingerprint"`
	Title       string     `firestore:"title"`
	RawText     string     `firestore:"raw_text"`
	Area        string     `firestore:"area"`
	Type        string     `firestore:"type"`
	State       string     `firestore:"state"`
	Priority    string     `firestore:"priority"`
	DueDate     string     `firestore:"due_date"`
	Summary     string     `firestore:"summary"`
	ActionsText string     `firestore:"actions_text"`
	Status      string     `firestore:"status"`
	RemoteID    string     `firestore:"remote_id"`
	LastError   string     `firestore:"last_error"`
	Attempts    int        `firestore:"attempts"`
	NextRetryAt *time.Time `firestore:"next_retry_at"`
}

func toNoteDoc(n *model.Note) *noteDoc {
	return &noteDoc{
		ID:          n.ID,
		CreatedAt:   n.CreatedAt,
		Source:      n.Source.String(),
		Fingerprint: n.Fingerprint,
		Title:       n.Title,
		RawText:     n.RawText,
		Area:        n.Area,
		Type:        n.Type,
		State:       n.State,
		Priority:    n.Priority,
		DueDate:     n.DueDate,
		Summary:     n.Summary,
		ActionsText: n.ActionsText,
		Status:      n.Status.String(),
		RemoteID:    n.RemoteID,
		LastError:   n.LastError,
		Attempts:    n.Attempts,
		NextRetryAt: n.NextRetryAt,
	}
}

func (d *noteDoc) toModel() *model.Note {
	return &model.Note{
		ID:          d.ID,
		CreatedAt:   d.CreatedAt,
		Source:      types.Source(d.Source),
		Fingerprint: d.Fingerprint,
		Title:       d.Title,
		RawText:     d.RawText,
		Area:        d.Area,
		Type:        d.Type,
		State:       d.State,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		Summary:     d.Summary,
		ActionsText: d.ActionsText,
		Status:      types.SyncStatus(d.Status),
		RemoteID:    d.RemoteID,
		LastError:   d.LastError,
		Attempts:    d.Attempts,
		NextRetryAt: d.NextRetryAt,
	}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	exists, err := r.ExistsByFingerprint(ctx, note.Fingerprint)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, goerr.Wrap(types.ErrDuplicateNote, "fingerprint already exists",
			goerr.V("fingerprint", note.Fingerprint))
	}

	id, err := nextID(ctx, r.client, r.counterCollection(), "note_counter")
	if err != nil {
		return nil, err
	}

	created := *note
	created.ID = id
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	if _, err := r.client.Collection(r.collection()).Doc(docID(id)).Set(ctx, toNoteDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create note", goerr.V("id", id))
	}

	return &created, nil
}

func (r *noteRepository) Get(ctx context.Context, id int64) (*model.Note, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(types.ErrNotFound, "note not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get note", goerr.V("id", id))
	}

	var d noteDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode note", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *noteRepository) List(ctx context.Context, limit int) ([]*model.Note, error) {
	query := r.client.Collection(r.collection()).OrderBy("id", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var notes []*model.Note
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list notes")
		}

		var d noteDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode note")
		}
		notes = append(notes, d.toModel())
	}
	return notes, nil
}

func (r *noteRepository) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	iter := r.client.Collection(r.collection()).
		Where("fingerprint", "==", fingerprint).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to query fingerprint",
			goerr.V("fingerprint", fingerprint))
	}
	return true, nil
}

func (r *noteRepository) ListRetryable(ctx context.Context, now time.Time) ([]*model.Note, error) {
	iter := r.client.Collection(r.collection()).
		Where("status", "in", []string{
			types.SyncStatusPending.String(),
			types.SyncStatusError.String(),
		}).
		Documents(ctx)
	defer iter.Stop()

	// The next-retry predicate (null OR <= now) is not expressible as a
	// single Firestore filter, so it is applied client-side.
	var notes []*model.Note
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list retryable notes")
		}

		var d noteDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode note")
		}
		if d.NextRetryAt != nil && d.NextRetryAt.After(now) {
			continue
		}
		notes = append(notes, d.toModel())
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (r *noteRepository) MarkSent(ctx context.Context, id int64, remoteID string) error {
	_, err := r.client.Collection(r.collection()).Doc(docID(id)).Update(ctx, []firestore.Update{
		{Path: "status", Value: types.SyncStatusSent.String()},
		{Path: "remote_id", Value: remoteID},
		{Path: "last_error", Value: ""},
		{Path: "next_retry_at", Value: nil},
	})
	if err != nil {
		if isNotFound(err) {
			return goerr.Wrap(types.ErrNotFound, "note not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to mark note sent", goerr.V("id", id))
	}
	return nil
}

func (r *noteRepository) MarkError(ctx context.Context, id int64, message string, nextRetryAt time.Time) error {
	_, err := r.client.Collection(r.collection()).Doc(docID(id)).Update(ctx, []firestore.Update{
		{Path: "status", Value: types.SyncStatusError.String()},
		{Path: "last_error", Value: message},
		{Path: "attempts", Value: firestore.Increment(1)},
		{Path: "next_retry_at", Value: nextRetryAt},
	})
	if err != nil {
		if isNotFound(err) {
			return goerr.Wrap(types.ErrNotFound, "note not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to mark note error", goerr.V("id", id))
	}
	return nil
}
