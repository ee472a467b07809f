package interfaces

import (
	"context"
	"time"

	"github.com/notedrop/notedrop/pkg/domain/model"
)

// ActionRepository is the durable record of atomic action items.
type ActionRepository interface {
	// Create persists a new action linked to its owning note.
	Create(ctx context.Context, action *model.Action) (*model.Action, error)

	// Get retrieves one action by ID.
	Get(ctx context.Context, id int64) (*model.Action, error)

	// ListPending returns pending actions, newest first. An empty area
	// matches all areas.
	ListPending(ctx context.Context, area string) ([]*model.Action, error)

	// ListByNote returns all actions of a note, newest first.
	ListByNote(ctx context.Context, noteID int64) ([]*model.Action, error)

	// MarkDone transitions an action pending→done. One-way.
	MarkDone(ctx context.Context, id int64, completedAt time.Time) error

	// SetRemoteID attaches the remote record identifier once mirrored.
	SetRemoteID(ctx context.Context, id int64, remoteID string) error
}
