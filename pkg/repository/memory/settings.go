package memory

import (
	"context"
	"sync"

	"github.com/notedrop/notedrop/pkg/domain/model"
)

type settingsRepository struct {
	mu       sync.RWMutex
	settings *model.Settings
}

func newSettingsRepository() *settingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Load(ctx context.Context) (*model.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return model.DefaultSettings(), nil
	}
	copied := *r.settings
	return &copied, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *settings
	r.settings = &copied
	return nil
}
