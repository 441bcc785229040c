package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/export/memory"
	"finanzas/internal/ledger"
	"finanzas/internal/storage"
)

func newTestWorker(t *testing.T) (*MirrorWorker, *ledger.Store, *storage.MirrorRepository, *memory.Store) {
	t.Helper()
	dir := t.TempDir()

	store := ledger.NewStore(filepath.Join(dir, "data.json"))
	mirror, err := storage.NewMirrorRepository(filepath.Join(dir, "mirror.db"))
	if err != nil {
		t.Fatalf("mirror repository: %v", err)
	}
	t.Cleanup(func() { mirror.Close() })

	exporter := memory.New()
	return NewMirrorWorker(store, mirror, exporter), store, mirror, exporter
}

func seedLedger(t *testing.T, store *ledger.Store) {
	t.Helper()
	ctx := context.Background()
	l := store.Load(ctx)
	if _, err := store.AppendIncome(ctx, l, core.Income{
		Nombre: "Ana", Fecha: core.NewDate(2024, 1, 10), Metodo: core.MetodoYape, Importe: 100,
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := store.AppendExpense(ctx, l, core.Expense{
		Fecha: core.NewDate(2024, 2, 5), Descripcion: "Luz", Metodo: core.PagoTarjeta, Mes: "Febrero", Importe: 40,
	}); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func TestRefreshMirrorsSnapshot(t *testing.T) {
	w, store, mirror, exporter := newTestWorker(t)
	ctx := context.Background()
	seedLedger(t, store)

	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	ingresos, egresos, err := mirror.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if ingresos != 1 || egresos != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", ingresos, egresos)
	}

	refreshedAt, err := mirror.LastRefresh(ctx)
	if err != nil {
		t.Fatalf("last refresh: %v", err)
	}
	if refreshedAt.IsZero() {
		t.Fatal("refresh timestamp not recorded")
	}
	if time.Since(refreshedAt) > time.Minute {
		t.Fatalf("stale refresh timestamp: %v", refreshedAt)
	}

	rows := exporter.Rows()
	if len(rows) != 1 {
		t.Fatalf("exporter got %d rows, want 1", len(rows))
	}
	if rows[0][1] != 100.0 || rows[0][2] != 40.0 || rows[0][3] != 60.0 {
		t.Fatalf("exported summary = %v", rows[0])
	}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	w, store, mirror, _ := newTestWorker(t)
	ctx := context.Background()
	seedLedger(t, store)

	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	// Remove one record from the file; the next refresh must not keep
	// the old row around.
	l := store.Load(ctx)
	ed := ledger.NewEditor(store)
	if err := ed.DeleteExpenseByID(ctx, l, l.Egresos[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	ingresos, egresos, err := mirror.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if ingresos != 1 || egresos != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", ingresos, egresos)
	}
}

func TestHandleChangeTriggersRefresh(t *testing.T) {
	w, store, mirror, _ := newTestWorker(t)
	ctx := context.Background()
	seedLedger(t, store)

	msg := amqp.NewLedgerChangeMessage(amqp.OpCreated, core.KindIngresos)
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("handle change: %v", err)
	}

	ingresos, _, err := mirror.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if ingresos != 1 {
		t.Fatalf("ingresos = %d, want 1", ingresos)
	}
}

func TestRefreshWithoutExporter(t *testing.T) {
	dir := t.TempDir()
	store := ledger.NewStore(filepath.Join(dir, "data.json"))
	mirror, err := storage.NewMirrorRepository(filepath.Join(dir, "mirror.db"))
	if err != nil {
		t.Fatalf("mirror repository: %v", err)
	}
	defer mirror.Close()

	w := NewMirrorWorker(store, mirror, nil)
	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh without exporter: %v", err)
	}
}
