package memory

import (
	"context"
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestAppendSummary(t *testing.T) {
	store := New()
	refreshedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	err := store.AppendSummary(context.Background(), core.Summary{
		TotalIncome: 150, TotalExpense: 40, Balance: 110,
	}, refreshedAt)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row[0] != "2024-06-01T12:00:00Z" {
		t.Fatalf("timestamp cell = %v", row[0])
	}
	if row[1] != 150.0 || row[2] != 40.0 || row[3] != 110.0 {
		t.Fatalf("amount cells = %v", row[1:])
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	store := New()
	_ = store.AppendSummary(context.Background(), core.Summary{Balance: 1}, time.Now())

	rows := store.Rows()
	rows[0][3] = -99.0

	if store.Rows()[0][3] == -99.0 {
		t.Fatal("Rows exposed internal state")
	}
}
