package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
)

// client implements Service interface
type client struct {
	api *notionapi.Client
}

// New creates a new remote tracking service with the provided API token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	return &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
	}, nil
}

// GetSchema retrieves the property schema of a database
func (c *client) GetSchema(ctx context.Context, dbID string) (*Schema, error) {
	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(dbID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get database", goerr.V("dbID", dbID))
	}

	schema := &Schema{Properties: make(map[string]PropertySchema, len(db.Properties))}
	for name, pc := range db.Properties {
		ps := PropertySchema{Type: string(pc.GetType())}
		if sp, ok := pc.(*notionapi.SelectPropertyConfig); ok {
			for _, opt := range sp.Select.Options {
				ps.Options = append(ps.Options, SelectOption{
					Name:  opt.Name,
					Color: string(opt.Color),
				})
			}
		}
		schema.Properties[name] = ps
	}
	return schema, nil
}

// ValidateSchema checks that the database exposes every property the sync
// engine writes, with the expected property types. Any mismatch aborts the
// whole sync pass before a single page is created.
func (c *client) ValidateSchema(ctx context.Context, dbID string, settings *model.Settings) error {
	schema, err := c.GetSchema(ctx, dbID)
	if err != nil {
		return goerr.Wrap(types.ErrRemoteSchema, err.Error())
	}

	expected := []struct {
		name string
		kind string
	}{
		{settings.PropTitle, PropertyTypeTitle},
		{settings.PropArea, PropertyTypeSelect},
		{settings.PropType, PropertyTypeSelect},
		{settings.PropState, PropertyTypeSelect},
		{settings.PropPriority, PropertyTypeSelect},
		{settings.PropDate, PropertyTypeDate},
		{FingerprintProperty, PropertyTypeRichText},
	}

	for _, e := range expected {
		ps, ok := schema.Properties[e.name]
		if !ok {
			return goerr.Wrap(types.ErrRemoteSchema, "property missing in remote database",
				goerr.V("property", e.name))
		}
		if ps.Type != e.kind {
			return goerr.Wrap(types.ErrRemoteSchema, "property has unexpected type",
				goerr.V("property", e.name),
				goerr.V("expected", e.kind),
				goerr.V("actual", ps.Type))
		}
	}
	return nil
}

// PatchSchemaProperties replaces the select options of the given properties
func (c *client) PatchSchemaProperties(ctx context.Context, dbID string, options map[string][]SelectOption) error {
	if len(options) == 0 {
		return nil
	}

	props := notionapi.PropertyConfigs{}
	for name, opts := range options {
		sel := notionapi.Select{Options: make([]notionapi.Option, 0, len(opts))}
		for _, opt := range opts {
			sel.Options = append(sel.Options, notionapi.Option{
				Name:  opt.Name,
				Color: notionapi.Color(opt.Color),
			})
		}
		props[name] = notionapi.SelectPropertyConfig{
			Type:   notionapi.PropertyConfigTypeSelect,
			Select: sel,
		}
	}

	if _, err := c.api.Database.Update(ctx, notionapi.DatabaseID(dbID), &notionapi.DatabaseUpdateRequest{
		Properties: props,
	}); err != nil {
		return goerr.Wrap(err, "failed to update database schema", goerr.V("dbID", dbID))
	}
	return nil
}

// UpdateRecordStatus sets the workflow-state select of an existing page
func (c *client) UpdateRecordStatus(ctx context.Context, pageID, statusProperty, value string) error {
	if _, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			statusProperty: notionapi.SelectProperty{
				Select: notionapi.Option{Name: value},
			},
		},
	}); err != nil {
		return goerr.Wrap(err, "failed to update page status",
			goerr.V("pageID", pageID), goerr.V("value", value))
	}
	return nil
}

// CountOpenRecords counts pages whose select property equals value and whose
// workflow state is not terminal. Used by master deactivation governance.
func (c *client) CountOpenRecords(ctx context.Context, dbID, property, value, statusProperty, terminalValue string) (int, error) {
	filter := notionapi.AndCompoundFilter{
		notionapi.PropertyFilter{
			Property: property,
			Select: &notionapi.SelectFilterCondition{
				Equals: value,
			},
		},
		notionapi.PropertyFilter{
			Property: statusProperty,
			Select: &notionapi.SelectFilterCondition{
				DoesNotEqual: terminalValue,
			},
		},
	}

	var count int
	var cursor notionapi.Cursor
	for {
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), &notionapi.DatabaseQueryRequest{
			Filter:      filter,
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return 0, goerr.Wrap(err, "failed to query open records",
				goerr.V("dbID", dbID), goerr.V("property", property), goerr.V("value", value))
		}

		count += len(resp.Results)
		if !resp.HasMore {
			return count, nil
		}
		cursor = resp.NextCursor
	}
}
