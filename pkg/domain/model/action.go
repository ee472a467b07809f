package model

import (
	"time"

	"github.com/notedrop/notedrop/pkg/domain/types"
)

// Action is one atomic follow-up item extracted from a note. It belongs to
// exactly one note and its status moves pending→done only.
type Action struct {
	ID          int64
	NoteID      int64
	Description string
	Area        string
	Status      types.ActionStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	RemoteID    string
}
