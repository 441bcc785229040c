// Package memory is an in-memory SummaryAppender used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/export"
)

type Store struct {
	mu   sync.Mutex
	rows [][]any
}

var _ export.SummaryAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendSummary(_ context.Context, sum core.Summary, refreshedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, []any{
		refreshedAt.UTC().Format(time.RFC3339),
		sum.TotalIncome,
		sum.TotalExpense,
		sum.Balance,
	})
	return nil
}

// Rows returns a copy of the appended rows.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}
