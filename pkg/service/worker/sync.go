package worker

import (
	"context"
	"errors"
	"time"

	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/usecase"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

// SyncWorker periodically pushes the local outbox to the remote tracking
// database.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Overlap with a manually triggered sync is resolved by the single-flight
//   guard inside the sync use case, not here
type SyncWorker struct {
	uc       *usecase.UseCases
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSyncWorker creates a new background sync worker
func NewSyncWorker(uc *usecase.UseCases, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		uc:       uc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sync loop. Does not block server startup.
func (w *SyncWorker) Start(ctx context.Context) error {
	logging.Default().Info("sync worker starting", "interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SyncWorker) Stop() {
	logging.Default().Info("sync worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("sync worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *SyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.syncOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.syncOnce(ctx)

		case <-w.stopCh:
			logging.Default().Info("sync worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("sync worker context cancelled")
			return
		}
	}
}

func (w *SyncWorker) syncOnce(ctx context.Context) {
	result, err := w.uc.SyncPending(ctx)
	if err != nil {
		if errors.Is(err, types.ErrSyncAlreadyRunning) {
			logging.Default().Info("sync pass already in flight, skipping tick")
			return
		}
		if errors.Is(err, types.ErrConfiguration) {
			logging.Default().Debug("remote sync not configured, skipping tick")
			return
		}
		// Log error but continue worker
		logging.Default().Error("sync pass failed (will retry next interval)",
			"error", err.Error())
		return
	}

	if result.Sent > 0 || result.Failed > 0 {
		logging.Default().Info("sync pass completed",
			"sent", result.Sent, "failed", result.Failed, "pass", result.PassID)
	}
}
