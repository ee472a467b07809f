package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
)

// GetSettings returns the current configuration snapshot.
func (uc *UseCases) GetSettings(ctx context.Context) (*model.Settings, error) {
	return uc.repo.Settings().Load(ctx)
}

// SaveSettings replaces the configuration. Zero retry tuning values fall
// back to the defaults so a partial payload cannot disable retries.
func (uc *UseCases) SaveSettings(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return goerr.New("settings must not be nil")
	}

	defaults := model.DefaultSettings()
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = defaults.MaxAttempts
	}
	if settings.RetryDelaySeconds <= 0 {
		settings.RetryDelaySeconds = defaults.RetryDelaySeconds
	}

	return uc.repo.Settings().Save(ctx, settings)
}
