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

type actionRepository struct {
	mu      sync.RWMutex
	actions map[int64]*model.Action
	nextID  int64
}

func newActionRepository() *actionRepository {
	return &actionRepository{
		actions: make(map[int64]*model.Action),
		nextID:  1,
	}
}

// copyAction creates a deep copy of an action
func copyAction(a *model.Action) *model.Action {
	copied := *a
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}

func (r *actionRepository) Create(ctx context.Context, action *model.Action) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAction(action)
	created.ID = r.nextID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.Status == "" {
		created.Status = types.ActionStatusPending
	}
	r.nextID++

	r.actions[created.ID] = created
	return copyAction(created), nil
}

func (r *actionRepository) Get(ctx context.Context, id int64) (*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.actions[id]
	if !exists {
		return nil, goerr.Wrap(types.ErrNotFound, "action not found", goerr.V("id", id))
	}
	return copyAction(a), nil
}

func (r *actionRepository) ListPending(ctx context.Context, area string) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var actions []*model.Action
	for _, a := range r.actions {
		if a.Status != types.ActionStatusPending {
			continue
		}
		if area != "" && a.Area != area {
			continue
		}
		actions = append(actions, copyAction(a))
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].ID > actions[j].ID })
	return actions, nil
}

func (r *actionRepository) ListByNote(ctx context.Context, noteID int64) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var actions []*model.Action
	for _, a := range r.actions {
		if a.NoteID == noteID {
			actions = append(actions, copyAction(a))
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].ID > actions[j].ID })
	return actions, nil
}

func (r *actionRepository) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.actions[id]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "action not found", goerr.V("id", id))
	}

	if a.Status == types.ActionStatusDone {
		return nil
	}
	a.Status = types.ActionStatusDone
	t := completedAt
	a.CompletedAt = &t
	return nil
}

func (r *actionRepository) SetRemoteID(ctx context.Context, id int64, remoteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.actions[id]
	if !exists {
		return goerr.Wrap(types.ErrNotFound, "action not found", goerr.V("id", id))
	}
	a.RemoteID = remoteID
	return nil
}
