package notion

import (
	"context"

	"github.com/notedrop/notedrop/pkg/domain/model"
)

// Service provides interface to the remote tracking database
type Service interface {
	// GetSchema retrieves the property schema of a database
	GetSchema(ctx context.Context, dbID string) (*Schema, error)

	// ValidateSchema checks that the database exposes every property the
	// sync engine writes, with the expected property types
	ValidateSchema(ctx context.Context, dbID string, settings *model.Settings) error

	// PatchSchemaProperties replaces the select options of the given
	// properties
	PatchSchemaProperties(ctx context.Context, dbID string, options map[string][]SelectOption) error

	// CreateRecord creates a page for a note and returns the page ID
	CreateRecord(ctx context.Context, settings *model.Settings, note *model.Note) (string, error)

	// CreateSubRecord creates a task page derived from one action line of a
	// parent note and returns the page ID
	CreateSubRecord(ctx context.Context, settings *model.Settings, actionText string, parent *model.Note) (string, error)

	// UpdateRecordStatus sets the workflow-state select of an existing page
	UpdateRecordStatus(ctx context.Context, pageID, statusProperty, value string) error

	// CountOpenRecords counts pages whose select property equals value and
	// whose workflow state is not terminal
	CountOpenRecords(ctx context.Context, dbID, property, value, statusProperty, terminalValue string) (int, error)
}

// Schema describes the remote database properties relevant to sync
type Schema struct {
	Properties map[string]PropertySchema
}

// PropertySchema is one property: its type and, for selects, its options
type PropertySchema struct {
	Type    string
	Options []SelectOption
}

// SelectOption is a single select choice. Color is preserved on schema
// pushes so re-pushing the same values does not reset the styling.
type SelectOption struct {
	Name  string
	Color string
}

// Property kinds checked during schema validation.
const (
	PropertyTypeTitle    = "title"
	PropertyTypeSelect   = "select"
	PropertyTypeDate     = "date"
	PropertyTypeRichText = "rich_text"
)
