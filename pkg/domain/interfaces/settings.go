package interfaces

import (
	"context"

	"github.com/notedrop/notedrop/pkg/domain/model"
)

// SettingsRepository persists the process-wide configuration. Load returns
// an independent snapshot with defaults overlaid; Save replaces the stored
// snapshot atomically.
type SettingsRepository interface {
	Load(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, settings *model.Settings) error
}
