package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type actionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActionRepository(client *firestore.Client) *actionRepository {
	return &actionRepository{client: client}
}

func (r *actionRepository) collection() string {
	return collectionName(r.collectionPrefix, "actions")
}

func (r *actionRepository) counterCollection() string {
	return collectionName(r.collectionPrefix, "counters")
}

type actionDoc struct {
	ID          int64      `firestore:"id"`
	NoteID      int64      `firestore:"note_id"`
	Description string     `firestore:"description"`
	Area        string     `firestore:"area"`
	Status      string     `firestore:"status"`
	CreatedAt   time.Time  `firestore:"created_at"`
	CompletedAt *time.Time `firestore:"completed_at"`
	RemoteID    string     `firestore:"remote_id"`
}

func toActionDoc(a *model.Action) *actionDoc {
	return &actionDoc{
		ID:          a.ID,
		NoteID:      a.NoteID,
		Description: a.Description,
		Area:        a.Area,
		Status:      a.Status.String(),
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
		RemoteID:    a.RemoteID,
	}
}

func (d *actionDoc) toModel() *model.Action {
	return &model.Action{
		ID:          d.ID,
		NoteID:      d.NoteID,
		Description: d.Description,
		Area:        d.Area,
		Status:      types.ActionStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		CompletedAt: d.CompletedAt,
		RemoteID:    d.RemoteID,
	}
}

func (r *actionRepository) Create(ctx context.Context, action *model.Action) (*model.Action, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "action_counter")
	if err != nil {
		return nil, err
	}

	created := *action
	created.ID = id
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.Status == "" {
		created.Status = types.ActionStatusPending
	}

	if _, err := r.client.Collection(r.collection()).Doc(docID(id)).Set(ctx, toActionDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create action", goerr.V("id", id))
	}

	return &created, nil
}

func (r *actionRepository) Get(ctx context.Context, id int64) (*model.Action, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(types.ErrNotFound, "action not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action", goerr.V("id", id))
	}

	var d actionDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *actionRepository) ListPending(ctx context.Context, area string) ([]*model.Action, error) {
	query := r.client.Collection(r.collection()).
		Where("status", "==", types.ActionStatusPending.String())
	if area != "" {
		query = query.Where("area", "==", area)
	}

	return r.queryActions(ctx, query.OrderBy("id", firestore.Desc))
}

func (r *actionRepository) ListByNote(ctx context.Context, noteID int64) ([]*model.Action, error) {
	query := r.client.Collection(r.collection()).
		Where("note_id", "==", noteID).
		OrderBy("id", firestore.Desc)
	return r.queryActions(ctx, query)
}

func (r *actionRepository) queryActions(ctx context.Context, query firestore.Query) ([]*model.Action, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var actions []*model.Action
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query actions")
		}

		var d actionDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode action")
		}
		actions = append(actions, d.toModel())
	}
	return actions, nil
}

func (r *actionRepository) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	_, err := r.client.Collection(r.collection()).Doc(docID(id)).Update(ctx, []firestore.Update{
		{Path: "status", Value: types.ActionStatusDone.String()},
		{Path: "completed_at", Value: completedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return goerr.Wrap(types.ErrNotFound, "action not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to mark action done", goerr.V("id", id))
	}
	return nil
}

func (r *actionRepository) SetRemoteID(ctx context.Context, id int64, remoteID string) error {
	_, err := r.client.Collection(r.collection()).Doc(docID(id)).Update(ctx, []firestore.Update{
		{Path: "remote_id", Value: remoteID},
	})
	if err != nil {
		if isNotFound(err) {
			return goerr.Wrap(types.ErrNotFound, "action not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to set action remote ID", goerr.V("id", id))
	}
	return nil
}
