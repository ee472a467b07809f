package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

const defaultListLimit = 50

// CreateNote runs the capture flow: normalize, fingerprint, dedup, enrich,
// resolve classification and persist. Deduplication happens before the
// enrichment call so a duplicate never spends a model invocation. The
// normalized form feeds only fingerprint, title and enrichment; the
// persisted text is the verbatim input.
func (uc *UseCases) CreateNote(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error) {
	logger := logging.From(ctx)

	source := req.Source.Normalize()
	normalized := model.NormalizeText(req.RawText, source)
	if normalized == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "note text must not be empty")
	}

	fingerprint := model.Fingerprint(normalized, source)
	exists, err := uc.repo.Note().ExistsByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check fingerprint")
	}
	if exists {
		return nil, goerr.Wrap(types.ErrDuplicateNote, "fingerprint already captured",
			goerr.V("fingerprint", fingerprint))
	}

	enrichment := &model.Enrichment{}
	if uc.enricher != nil {
		enrichment = uc.enricher.Enrich(ctx, normalized)
	}

	settings, err := uc.repo.Settings().Load(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings")
	}

	note := &model.Note{
		CreatedAt:   uc.now(),
		Source:      source,
		Fingerprint: fingerprint,
		Title:       model.DeriveTitle(req.Title, normalized),
		RawText:     req.RawText,
		Area:        firstNonEmpty(req.Area, settings.DefaultArea),
		Type:        firstNonEmpty(req.Type, enrichment.SuggestedType, settings.DefaultType),
		State:       firstNonEmpty(req.State, settings.DefaultState),
		Priority:    firstNonEmpty(req.Priority, enrichment.SuggestedPriority, settings.DefaultPriority),
		DueDate:     req.DueDate,
		Summary:     enrichment.Summary,
		ActionsText: enrichment.ActionsText(),
		Status:      types.SyncStatusPending,
	}

	created, err := uc.repo.Note().Create(ctx, note)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create note")
	}

	for _, description := range enrichment.Actions {
		action := &model.Action{
			NoteID:      created.ID,
			Description: description,
			Area:        created.Area,
			Status:      types.ActionStatusPending,
			CreatedAt:   uc.now(),
		}
		if _, err := uc.repo.Action().Create(ctx, action); err != nil {
			// The note is already persisted; a lost action row must not
			// fail the capture.
			logger.Error("failed to create action for note",
				"noteID", created.ID, "description", description, "error", err)
		}
	}

	return created, nil
}

// GetNote retrieves one note by ID.
func (uc *UseCases) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	return uc.repo.Note().Get(ctx, id)
}

// ListNotes returns the most recent notes, newest first.
func (uc *UseCases) ListNotes(ctx context.Context, limit int) ([]*model.Note, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return uc.repo.Note().List(ctx, limit)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
