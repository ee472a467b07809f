package interfaces

import (
	"context"

	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
)

// MasterRepository is the governed catalog of allowed values per controlled
// vocabulary. (Category, Value) is unique across the store.
type MasterRepository interface {
	// Upsert inserts or updates a value. Re-adding a deactivated value
	// reactivates it; the locked flag is raised, never lowered.
	Upsert(ctx context.Context, value *model.MasterValue) error

	// ListActive returns active values of a category in insertion order.
	ListActive(ctx context.Context, category types.Category) ([]string, error)

	// ListAll returns every value of a category, active first.
	ListAll(ctx context.Context, category types.Category) ([]*model.MasterValue, error)

	// IsLocked reports whether a value is system-locked. Unknown values are
	// not locked.
	IsLocked(ctx context.Context, category types.Category, value string) (bool, error)

	// Deactivate flips a non-locked value to inactive. Deactivating a locked
	// or unknown value is a no-op.
	Deactivate(ctx context.Context, category types.Category, value string) error
}
