package model

import "github.com/notedrop/notedrop/pkg/domain/types"

// MasterValue is one allowed value within a controlled-vocabulary category.
// (Category, Value) is unique. A system-locked value can never be
// deactivated through the governance path.
type MasterValue struct {
	ID           int64
	Category     types.Category
	Value        string
	Active       bool
	SystemLocked bool
}

// DefaultMasterValues is the seed set upserted idempotently at startup.
// Re-seeding re-activates previously deactivated defaults and raises (never
// lowers) the locked flag. State values are locked: their meaning is fixed
// by the remote system's workflow protocol.
func DefaultMasterValues() map[types.Category][]string {
	return map[types.Category][]string{
		types.CategoryArea:     {"General", "Operations", "IT"},
		types.CategoryType:     {"Note", "Decision", "Incident", "Task"},
		types.CategoryState:    {"Pending", "In progress", "Done"},
		types.CategoryPriority: {"Low", "Medium", "High"},
		types.CategoryOrigin:   {"Manual", "System"},
	}
}
