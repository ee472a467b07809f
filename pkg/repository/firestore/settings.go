package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
)

type settingsRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSettingsRepository(client *firestore.Client) *settingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) collection() string {
	return collectionName(r.collectionPrefix, "settings")
}

const settingsDocID = "app"

type settingsDoc struct {
	NotionToken       string `firestore:"notion_token"`
	NotionDatabaseID  string `firestore:"notion_database_id"`
	DefaultArea       string `firestore:"default_area"`
	DefaultType       string `firestore:"default_type"`
	DefaultState      string `firestore:"default_state"`
	DefaultPriority   string `firestore:"default_priority"`
	PropTitle         string `firestore:"prop_title"`
	PropArea          string `firestore:"prop_area"`
	PropType          string `firestore:"prop_type"`
	PropState         string `firestore:"prop_state"`
	PropDate          string `firestore:"prop_date"`
	PropPriority      string `firestore:"prop_priority"`
	MaxAttempts       int    `firestore:"max_attempts"`
	RetryDelaySeconds int    `firestore:"retry_delay_seconds"`
}

func (r *settingsRepository) Load(ctx context.Context) (*model.Settings, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(settingsDocID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return model.DefaultSettings(), nil
		}
		return nil, goerr.Wrap(err, "failed to load settings")
	}

	var d settingsDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode settings")
	}

	settings := &model.Settings{
		NotionToken:       d.NotionToken,
		NotionDatabaseID:  d.NotionDatabaseID,
		DefaultArea:       d.DefaultArea,
		DefaultType:       d.DefaultType,
		DefaultState:      d.DefaultState,
		DefaultPriority:   d.DefaultPriority,
		PropTitle:         d.PropTitle,
		PropArea:          d.PropArea,
		PropType:          d.PropType,
		PropState:         d.PropState,
		PropDate:          d.PropDate,
		PropPriority:      d.PropPriority,
		MaxAttempts:       d.MaxAttempts,
		RetryDelaySeconds: d.RetryDelaySeconds,
	}

	// Documents written by older versions may miss retry tuning fields.
	defaults := model.DefaultSettings()
	if settings.MaxAttempts == 0 {
		settings.MaxAttempts = defaults.MaxAttempts
	}
	if settings.RetryDelaySeconds == 0 {
		settings.RetryDelaySeconds = defaults.RetryDelaySeconds
	}

	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *model.Settings) error {
	doc := &settingsDoc{
		NotionToken:       settings.NotionToken,
		NotionDatabaseID:  settings.NotionDatabaseID,
		DefaultArea:       settings.DefaultArea,
		DefaultType:       settings.DefaultType,
		DefaultState:      settings.DefaultState,
		DefaultPriority:   settings.DefaultPriority,
		PropTitle:         settings.PropTitle,
		PropArea:          settings.PropArea,
		PropType:          settings.PropType,
		PropState:         settings.PropState,
		PropDate:          settings.PropDate,
		PropPriority:      settings.PropPriority,
		MaxAttempts:       settings.MaxAttempts,
		RetryDelaySeconds: settings.RetryDelaySeconds,
	}

	if _, err := r.client.Collection(r.collection()).Doc(settingsDocID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save settings")
	}
	return nil
}
