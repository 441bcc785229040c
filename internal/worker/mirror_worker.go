// Package worker refreshes the SQLite mirror from the ledger file and pushes
// summaries to the configured exporter.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/export"
	"finanzas/internal/ledger"
	"finanzas/internal/storage"
)

// MirrorWorker reloads the ledger file and replaces the mirror snapshot
// whenever a change message arrives. The exporter is optional.
type MirrorWorker struct {
	store    *ledger.Store
	mirror   *storage.MirrorRepository
	exporter export.SummaryAppender
}

func NewMirrorWorker(store *ledger.Store, mirror *storage.MirrorRepository, exporter export.SummaryAppender) *MirrorWorker {
	return &MirrorWorker{
		store:    store,
		mirror:   mirror,
		exporter: exporter,
	}
}

// HandleChange processes a single ledger change message from AMQP.
// Messages carry no record payload, so every change triggers a full refresh.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"op", msg.Op,
		"kind", msg.Kind,
		"timestamp", msg.Timestamp)
	return w.Refresh(ctx)
}

// Refresh reloads the full ledger file and replaces the mirror snapshot.
func (w *MirrorWorker) Refresh(ctx context.Context) error {
	l := w.store.Load(ctx)

	if err := w.mirror.Replace(ctx, l); err != nil {
		return fmt.Errorf("replace mirror snapshot: %w", err)
	}

	if w.exporter != nil {
		refreshedAt, err := w.mirror.LastRefresh(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Could not read refresh time for export", "error", err)
			return nil
		}
		summary := core.Totals(l.Ingresos, l.Egresos)
		if err := w.exporter.AppendSummary(ctx, summary, refreshedAt); err != nil {
			// The mirror is already refreshed; exporting is best effort.
			slog.ErrorContext(ctx, "Failed to export summary", "error", err)
		}
	}

	return nil
}
