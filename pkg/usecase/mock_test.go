package usecase_test

import (
	"context"

	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/service/notion"
)

// mockNotionService is a mock implementation of notion.Service for testing
type mockNotionService struct {
	getSchemaFn             func(ctx context.Context, dbID string) (*notion.Schema, error)
	validateSchemaFn        func(ctx context.Context, dbID string, settings *model.Settings) error
	patchSchemaPropertiesFn func(ctx context.Context, dbID string, options map[string][]notion.SelectOption) error
	createRecordFn          func(ctx context.Context, settings *model.Settings, note *model.Note) (string, error)
	createSubRecordFn       func(ctx context.Context, settings *model.Settings, actionText string, parent *model.Note) (string, error)
	updateRecordStatusFn    func(ctx context.Context, pageID, statusProperty, value string) error
	countOpenRecordsFn      func(ctx context.Context, dbID, property, value, statusProperty, terminalValue string) (int, error)

	createdRecords    []*model.Note
	createdSubRecords []string
	statusUpdates     map[string]string
}

var _ notion.Service = &mockNotionService{}

func (m *mockNotionService) GetSchema(ctx context.Context, dbID string) (*notion.Schema, error) {
	if m.getSchemaFn != nil {
		return m.getSchemaFn(ctx, dbID)
	}
	return &notion.Schema{Properties: map[string]notion.PropertySchema{}}, nil
}

func (m *mockNotionService) ValidateSchema(ctx context.Context, dbID string, settings *model.Settings) error {
	if m.validateSchemaFn != nil {
		return m.validateSchemaFn(ctx, dbID, settings)
	}
	return nil
}

func (m *mockNotionService) PatchSchemaProperties(ctx context.Context, dbID string, options map[string][]notion.SelectOption) error {
	if m.patchSchemaPropertiesFn != nil {
		return m.patchSchemaPropertiesFn(ctx, dbID, options)
	}
	return nil
}

func (m *mockNotionService) CreateRecord(ctx context.Context, settings *model.Settings, note *model.Note) (string, error) {
	if m.createRecordFn != nil {
		return m.createRecordFn(ctx, settings, note)
	}
	m.createdRecords = append(m.createdRecords, note)
	return "remote-note", nil
}

func (m *mockNotionService) CreateSubRecord(ctx context.Context, settings *model.Settings, actionText string, parent *model.Note) (string, error) {
	if m.createSubRecordFn != nil {
		return m.createSubRecordFn(ctx, settings, actionText, parent)
	}
	m.createdSubRecords = append(m.createdSubRecords, actionText)
	return "remote-task", nil
}

func (m *mockNotionService) UpdateRecordStatus(ctx context.Context, pageID, statusProperty, value string) error {
	if m.updateRecordStatusFn != nil {
		return m.updateRecordStatusFn(ctx, pageID, statusProperty, value)
	}
	if m.statusUpdates == nil {
		m.statusUpdates = map[string]string{}
	}
	m.statusUpdates[pageID] = value
	return nil
}

func (m *mockNotionService) CountOpenRecords(ctx context.Context, dbID, property, value, statusProperty, terminalValue string) (int, error) {
	if m.countOpenRecordsFn != nil {
		return m.countOpenRecordsFn(ctx, dbID, property, value, statusProperty, terminalValue)
	}
	return 0, nil
}

// mockEnricher is a mock implementation of enrich.Service for testing
type mockEnricher struct {
	enrichFn func(ctx context.Context, text string) *model.Enrichment
	calls    int
}

func (m *mockEnricher) Enrich(ctx context.Context, text string) *model.Enrichment {
	m.calls++
	if m.enrichFn != nil {
		return m.enrichFn(ctx, text)
	}
	return &model.Enrichment{}
}
