package interfaces

import (
	"context"
	"time"

	"github.com/notedrop/notedrop/pkg/domain/model"
)

// NoteRepository is the durable record of captured notes and their
// remote-sync state machine. Status transitions happen only through
// MarkSent/MarkError; both are single logical operations.
type NoteRepository interface {
	// Create persists a new note and assigns its identity.
	Create(ctx context.Context, note *model.Note) (*model.Note, error)

	// Get retrieves one note by ID.
	Get(ctx context.Context, id int64) (*model.Note, error)

	// List returns the most recent notes, newest first.
	List(ctx context.Context, limit int) ([]*model.Note, error)

	// ExistsByFingerprint reports whether a note with the fingerprint exists.
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)

	// ListRetryable returns notes whose status is pending or error and whose
	// next retry timestamp is unset or has passed, ordered by ascending ID
	// (oldest captured first).
	ListRetryable(ctx context.Context, now time.Time) ([]*model.Note, error)

	// MarkSent transitions a note to sent, records the remote ID and clears
	// the last error.
	MarkSent(ctx context.Context, id int64, remoteID string) error

	// MarkError transitions a note to error, appends the message, increments
	// the attempt counter and schedules the next retry.
	MarkError(ctx context.Context, id int64, message string, nextRetryAt time.Time) error
}
