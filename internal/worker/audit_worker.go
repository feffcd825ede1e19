// Package worker consumes expense events and maintains the audit trail.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/amqp"
	"spendlog/internal/storage"
)

// EventExporter mirrors audit events to an external destination.
type EventExporter interface {
	AppendEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// AuditWorker records expense events into the expense_events table and
// optionally exports them.
type AuditWorker struct {
	storage  *storage.SQLiteRepository
	exporter EventExporter

	sweepInterval time.Duration
	sweepBatch    int
}

func NewAuditWorker(storage *storage.SQLiteRepository, exporter EventExporter, sweepInterval time.Duration, sweepBatch int) *AuditWorker {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	if sweepBatch <= 0 {
		sweepBatch = 50
	}
	return &AuditWorker{
		storage:       storage,
		exporter:      exporter,
		sweepInterval: sweepInterval,
		sweepBatch:    sweepBatch,
	}
}

// HandleEvent processes a single expense event message. The audit row is
// authoritative; export failures are logged and do not fail the message.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	slog.InfoContext(ctx, "Processing expense event",
		"expense_id", msg.ExpenseID,
		"user_id", msg.UserID,
		"action", string(msg.Action))

	occurredAt := msg.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	err := w.storage.RecordEvent(ctx, msg.ExpenseID, msg.UserID, string(msg.Action),
		msg.Title, msg.Category, msg.AmountCents, occurredAt)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}

	if w.exporter != nil {
		if err := w.exporter.AppendEvent(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense event",
				"expense_id", msg.ExpenseID,
				"action", string(msg.Action),
				"error", err)
		}
	}

	return nil
}

// Run consumes events and runs the periodic sweep until ctx is cancelled
// or either loop fails.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeExpenseEvents(gctx, func(msg *amqp.ExpenseEventMessage) error {
			return w.HandleEvent(gctx, msg)
		})
	})

	g.Go(func() error {
		return w.runSweep(gctx)
	})

	return g.Wait()
}

// runSweep periodically reports audit activity. It is the watchdog side of
// the pipeline: a quiet queue with recent expense traffic shows up here.
func (w *AuditWorker) runSweep(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			since := time.Now().UTC().Add(-w.sweepInterval)
			count, err := w.storage.CountEventsSince(ctx, since)
			if err != nil {
				slog.ErrorContext(ctx, "Audit sweep failed", "error", err)
				continue
			}
			slog.InfoContext(ctx, "Audit sweep completed",
				"events_in_window", count,
				"window", w.sweepInterval.String())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
