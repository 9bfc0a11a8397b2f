// Package worker mirrors local ledger writes to the spreadsheet. Events
// arrive over AMQP; a periodic pending scan catches anything the bus
// dropped.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerly/internal/amqp"
	"ledgerly/internal/core"
	applog "ledgerly/internal/log"
	"ledgerly/internal/sheets"
	"ledgerly/internal/storage"
	"ledgerly/internal/store"
)

// mirrorConcurrency caps parallel spreadsheet writes during batch scans.
const mirrorConcurrency = 4

// TransactionSource is the slice of the repository the worker needs.
type TransactionSource interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]storage.PendingSyncTransaction, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string, cause string) error
}

// SyncWorker pushes transactions from the local store to the mirror.
type SyncWorker struct {
	source    TransactionSource
	mirror    sheets.TransactionMirror
	batchSize int
}

func NewSyncWorker(source TransactionSource, mirror sheets.TransactionMirror, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		source:    source,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleEvent processes one sync event from AMQP. Returning an error
// nacks the delivery so the broker requeues it.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing sync event",
		"kind", event.Kind,
		applog.FieldTransactionID, event.ID,
		applog.FieldVersion, event.Version)

	switch event.Kind {
	case amqp.EventDelete:
		if err := w.mirror.RemoveTransaction(ctx, event.ID); err != nil {
			return fmt.Errorf("remove mirrored transaction: %w", err)
		}
		return nil

	case amqp.EventUpsert:
		tx, err := w.source.GetTransaction(ctx, event.ID)
		if errors.Is(err, store.ErrNotFound) {
			// Row deleted after the event was queued; the delete event
			// handles the mirror side.
			slog.InfoContext(ctx, "Transaction gone, skipping upsert", applog.FieldTransactionID, event.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		if tx.Version > event.Version {
			// Stale event; the write that bumped the version queued its own.
			slog.InfoContext(ctx, "Skipping stale sync event",
				applog.FieldTransactionID, event.ID,
				"event_version", event.Version,
				"current_version", tx.Version)
			return nil
		}
		return w.mirrorTransaction(ctx, tx)

	default:
		// Unknown kinds are dropped, not requeued.
		slog.WarnContext(ctx, "Dropping event of unknown kind", "kind", event.Kind, applog.FieldTransactionID, event.ID)
		return nil
	}
}

// ProcessPending mirrors transactions that never made it over, up to one
// batch. This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.source.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))
	w.mirrorBatch(ctx, pending)
	return nil
}

// StartupSyncCheck drains a larger pending backlog once at worker start,
// recovering from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.source.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup", "count", len(pending))
	synced := w.mirrorBatch(ctx, pending)
	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", len(pending)-synced)
	return nil
}

// Run performs the startup check and then rescans for pending rows on a
// fixed interval until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.StartupSyncCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync check failed", applog.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending scan failed", applog.FieldError, err)
			}
		}
	}
}

// mirrorBatch pushes a set of pending rows with bounded concurrency and
// returns how many synced. Failures are recorded per row and never abort
// the batch.
func (w *SyncWorker) mirrorBatch(ctx context.Context, pending []storage.PendingSyncTransaction) int {
	results := make([]bool, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mirrorConcurrency)
	for i, p := range pending {
		g.Go(func() error {
			tx, err := w.source.GetTransaction(gctx, p.ID)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				slog.ErrorContext(gctx, "Failed to load pending transaction", applog.FieldTransactionID, p.ID, applog.FieldError, err)
				return nil
			}
			if err := w.mirrorTransaction(gctx, tx); err != nil {
				slog.ErrorContext(gctx, "Failed to mirror pending transaction", applog.FieldTransactionID, p.ID, applog.FieldError, err)
				return nil
			}
			results[i] = true
			return nil
		})
	}
	g.Wait()

	synced := 0
	for _, ok := range results {
		if ok {
			synced++
		}
	}
	return synced
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, tx core.Transaction) error {
	rowRef, err := w.mirror.AppendTransaction(ctx, tx)
	if err != nil {
		if markErr := w.source.MarkSyncError(ctx, tx.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", applog.FieldTransactionID, tx.ID, applog.FieldError, markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.source.MarkSynced(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		applog.FieldTransactionID, tx.ID,
		applog.FieldVersion, tx.Version,
		applog.FieldRowRef, rowRef)
	return nil
}
