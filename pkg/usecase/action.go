package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

// ListPendingActions returns pending actions, optionally filtered by area.
func (uc *UseCases) ListPendingActions(ctx context.Context, area string) ([]*model.Action, error) {
	return uc.repo.Action().ListPending(ctx, area)
}

// ListNoteActions returns every action of one note.
func (uc *UseCases) ListNoteActions(ctx context.Context, noteID int64) ([]*model.Action, error) {
	return uc.repo.Action().ListByNote(ctx, noteID)
}

// MarkActionDone completes an action locally and mirrors the completion to
// its remote task page when one exists. The remote update is best effort:
// the local transition is the source of truth and never rolls back.
func (uc *UseCases) MarkActionDone(ctx context.Context, id int64) error {
	action, err := uc.repo.Action().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get action", goerr.V("actionID", id))
	}

	if err := uc.repo.Action().MarkDone(ctx, id, uc.now()); err != nil {
		return goerr.Wrap(err, "failed to mark action as done", goerr.V("actionID", id))
	}

	if action.RemoteID == "" {
		return nil
	}

	settings, err := uc.repo.Settings().Load(ctx)
	if err != nil || !settings.HasRemoteCredentials() {
		return nil
	}

	logger := logging.From(ctx)
	svc, err := uc.notionService(settings)
	if err != nil {
		logger.Warn("skipping remote completion mirror", "actionID", id, "error", err)
		return nil
	}
	if err := svc.UpdateRecordStatus(ctx, action.RemoteID, settings.PropState, model.TerminalState); err != nil {
		logger.Warn("failed to mirror action completion",
			"actionID", id, "remoteID", action.RemoteID, "error", err)
	}
	return nil
}
