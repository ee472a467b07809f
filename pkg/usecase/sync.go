package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/service/notion"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

// maxStoredErrorLength bounds the error message persisted per note so one
// giant remote payload cannot bloat the store.
const maxStoredErrorLength = 1000

// SyncResult summarizes one sync pass.
type SyncResult struct {
	PassID string `json:"pass_id"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}

// SyncPending pushes every retryable note to the remote tracking database.
// Only one pass runs at a time; configuration and schema problems abort the
// whole pass, per-note write failures feed the retry state machine.
func (uc *UseCases) SyncPending(ctx context.Context) (*SyncResult, error) {
	if !uc.syncGuard.TryAcquire(1) {
		return nil, goerr.Wrap(types.ErrSyncAlreadyRunning, "sync trigger ignored")
	}
	defer uc.syncGuard.Release(1)

	result := &SyncResult{PassID: uuid.NewString()}
	logger := logging.From(ctx).With("sync_pass", result.PassID)
	ctx = logging.With(ctx, logger)

	settings, err := uc.repo.Settings().Load(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings")
	}
	if err := settings.ValidateForSync(); err != nil {
		return nil, err
	}

	svc, err := uc.notionService(settings)
	if err != nil {
		return nil, err
	}
	if err := svc.ValidateSchema(ctx, settings.NotionDatabaseID, settings); err != nil {
		return nil, err
	}

	notes, err := uc.repo.Note().ListRetryable(ctx, uc.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list retryable notes")
	}

	logger.Info("sync pass started", "retryable", len(notes))

	for _, note := range notes {
		if settings.MaxAttempts > 0 && note.Attempts >= settings.MaxAttempts {
			logger.Warn("note exceeded the attempt budget, retrying anyway",
				"noteID", note.ID, "attempts", note.Attempts)
		}

		remoteID, err := svc.CreateRecord(ctx, settings, note)
		if err != nil {
			result.Failed++
			uc.recordSyncFailure(ctx, settings, note, err)
			continue
		}
		note.RemoteID = remoteID

		uc.mirrorActions(ctx, svc, settings, note)

		if err := uc.repo.Note().MarkSent(ctx, note.ID, remoteID); err != nil {
			result.Failed++
			logger.Error("failed to mark note as sent",
				"noteID", note.ID, "remoteID", remoteID, "error", err)
			continue
		}
		result.Sent++
	}

	logger.Info("sync pass finished", "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

func (uc *UseCases) recordSyncFailure(ctx context.Context, settings *model.Settings, note *model.Note, cause error) {
	logger := logging.From(ctx)
	logger.Warn("failed to push note, scheduling retry",
		"noteID", note.ID, "attempts", note.Attempts+1, "error", cause)

	message := model.TruncateRunes(cause.Error(), maxStoredErrorLength)
	nextRetry := uc.now().Add(settings.RetryDelay())
	if err := uc.repo.Note().MarkError(ctx, note.ID, message, nextRetry); err != nil {
		logger.Error("failed to record sync failure", "noteID", note.ID, "error", err)
	}
}

// mirrorActions creates one task page per action line of a freshly pushed
// note. A failed task page never fails the note; the note itself already
// carries the full action text.
func (uc *UseCases) mirrorActions(ctx context.Context, svc notion.Service, settings *model.Settings, note *model.Note) {
	lines := note.ActionLines()
	if len(lines) == 0 {
		return
	}
	logger := logging.From(ctx)

	actions, err := uc.repo.Action().ListByNote(ctx, note.ID)
	if err != nil {
		logger.Warn("failed to list actions for note", "noteID", note.ID, "error", err)
	}
	byDescription := make(map[string]*model.Action, len(actions))
	for _, action := range actions {
		byDescription[action.Description] = action
	}

	for _, line := range lines {
		remoteID, err := svc.CreateSubRecord(ctx, settings, line, note)
		if err != nil {
			logger.Warn("failed to create task page",
				"noteID", note.ID, "action", line, "error", err)
			continue
		}
		if action, ok := byDescription[line]; ok && action.RemoteID == "" {
			if err := uc.repo.Action().SetRemoteID(ctx, action.ID, remoteID); err != nil {
				logger.Warn("failed to attach remote ID to action",
					"actionID", action.ID, "error", err)
			}
		}
	}
}
