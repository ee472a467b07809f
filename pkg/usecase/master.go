package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/service/notion"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

// EnsureDefaults idempotently seeds the controlled vocabularies: the
// built-in values first, then any configured extras. Re-seeding reactivates
// a deactivated default and raises the locked flag, never lowers it.
func (uc *UseCases) EnsureDefaults(ctx context.Context) error {
	defaults := model.DefaultMasterValues()
	for _, category := range types.AllCategories() {
		for _, value := range defaults[category] {
			if err := uc.upsertMaster(ctx, category, value); err != nil {
				return err
			}
		}
		for _, value := range uc.masterSeeds[category] {
			if err := uc.upsertMaster(ctx, category, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (uc *UseCases) upsertMaster(ctx context.Context, category types.Category, value string) error {
	err := uc.repo.Master().Upsert(ctx, &model.MasterValue{
		Category:     category,
		Value:        value,
		Active:       true,
		SystemLocked: category.IsSystemLocked(),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to seed master value",
			goerr.V("category", category), goerr.V("value", value))
	}
	return nil
}

// AddMasterValue registers a new allowed value in a category.
func (uc *UseCases) AddMasterValue(ctx context.Context, category types.Category, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return goerr.Wrap(types.ErrInvalidInput, "master value must not be empty")
	}
	if !category.IsValid() {
		return goerr.Wrap(types.ErrInvalidInput, "unknown master category", goerr.V("category", category))
	}
	return uc.upsertMaster(ctx, category, value)
}

// ListMasters returns every value of a category, active first.
func (uc *UseCases) ListMasters(ctx context.Context, category types.Category) ([]*model.MasterValue, error) {
	if !category.IsValid() {
		return nil, goerr.Wrap(types.ErrInvalidInput, "unknown master category", goerr.V("category", category))
	}
	return uc.repo.Master().ListAll(ctx, category)
}

// ListActiveMasters returns the active values of a category in insertion order.
func (uc *UseCases) ListActiveMasters(ctx context.Context, category types.Category) ([]string, error) {
	if !category.IsValid() {
		return nil, goerr.Wrap(types.ErrInvalidInput, "unknown master category", goerr.V("category", category))
	}
	return uc.repo.Master().ListActive(ctx, category)
}

// DeactivateMasterValue retires a value after the governance checks pass:
// locked values always refuse, and with remote credentials configured the
// value must not be referenced by any open remote record. Without
// credentials the deactivation degrades to the local check only.
func (uc *UseCases) DeactivateMasterValue(ctx context.Context, category types.Category, value string) error {
	logger := logging.From(ctx)

	locked, err := uc.repo.Master().IsLocked(ctx, category, value)
	if err != nil {
		return goerr.Wrap(err, "failed to check master lock")
	}
	if locked {
		return goerr.Wrap(types.ErrMasterLocked, "value cannot be deactivated",
			goerr.V("category", category), goerr.V("value", value))
	}

	settings, err := uc.repo.Settings().Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load settings")
	}

	if !settings.HasRemoteCredentials() {
		logger.Warn("no remote credentials, deactivating with local checks only",
			"category", category, "value", value)
		return uc.repo.Master().Deactivate(ctx, category, value)
	}

	property, ok := settings.ResolvePropertyName(category)
	if !ok {
		// No remote property is governed by this category.
		return uc.repo.Master().Deactivate(ctx, category, value)
	}

	svc, err := uc.notionService(settings)
	if err != nil {
		return err
	}
	count, err := svc.CountOpenRecords(ctx, settings.NotionDatabaseID,
		property, value, settings.PropState, model.TerminalState)
	if err != nil {
		return goerr.Wrap(err, "failed to count open remote records",
			goerr.V("category", category), goerr.V("value", value))
	}
	if count > 0 {
		return goerr.Wrap(types.ErrMasterInUse, "open remote records reference this value",
			goerr.V("category", category), goerr.V("value", value), goerr.V("openRecords", count))
	}

	return uc.repo.Master().Deactivate(ctx, category, value)
}

// PushSchema publishes the active master values of every governed category
// as select options of the mapped remote properties. Colors of options that
// already exist remotely are preserved, and a mapped property missing from
// the fetched schema is skipped with a warning rather than created. The
// workflow-state category is never pushed; its remote options are the
// workflow protocol itself.
func (uc *UseCases) PushSchema(ctx context.Context) error {
	logger := logging.From(ctx)

	settings, err := uc.repo.Settings().Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load settings")
	}
	if err := settings.ValidateForSync(); err != nil {
		return err
	}

	svc, err := uc.notionService(settings)
	if err != nil {
		return err
	}
	schema, err := svc.GetSchema(ctx, settings.NotionDatabaseID)
	if err != nil {
		return goerr.Wrap(types.ErrRemoteSchema, err.Error())
	}

	patch := make(map[string][]notion.SelectOption)
	for _, category := range types.AllCategories() {
		if category == types.CategoryState {
			continue
		}
		property, ok := settings.ResolvePropertyName(category)
		if !ok {
			continue
		}
		ps, ok := schema.Properties[property]
		if !ok {
			logger.Warn("mapped property is missing from the remote schema, skipping its options",
				"category", category, "property", property)
			continue
		}

		values, err := uc.repo.Master().ListActive(ctx, category)
		if err != nil {
			return goerr.Wrap(err, "failed to list active master values",
				goerr.V("category", category))
		}
		if len(values) == 0 {
			continue
		}

		existingColors := make(map[string]string)
		for _, opt := range ps.Options {
			existingColors[opt.Name] = opt.Color
		}

		options := make([]notion.SelectOption, 0, len(values))
		for _, value := range values {
			options = append(options, notion.SelectOption{
				Name:  value,
				Color: existingColors[value],
			})
		}
		patch[property] = options
	}

	if err := svc.PatchSchemaProperties(ctx, settings.NotionDatabaseID, patch); err != nil {
		return goerr.Wrap(err, "failed to push schema")
	}
	return nil
}
