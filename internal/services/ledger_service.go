// Package services orchestrates the session ledger across storage and AMQP.
package services

import (
	"context"
	"log/slog"
	"sync"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// ChangePublisher notifies external consumers that the ledger changed.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, op string, kind core.RecordKind) error
}

// DashboardData is everything the dashboard view needs for one month
// selection: totals, the monthly comparison series and the selector
// vocabulary.
type DashboardData struct {
	Mes     string             `json:"mes"`
	Meses   []string           `json:"meses"`
	Totales core.Summary       `json:"totales"`
	Serie   []core.SeriesPoint `json:"serie"`
}

// LedgerService owns the single in-memory ledger for the session. It loads
// once at construction, serializes all access through one mutex, persists
// after every mutation and publishes a change notification afterwards.
// Publishing is best effort: a broker failure never fails the operation.
type LedgerService struct {
	mu        sync.Mutex
	store     *ledger.Store
	editor    *ledger.Editor
	publisher ChangePublisher
	ledger    *core.Ledger
}

func NewLedgerService(ctx context.Context, store *ledger.Store, editor *ledger.Editor, publisher ChangePublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		editor:    editor,
		publisher: publisher,
		ledger:    store.Load(ctx),
	}
}

// CreateIncome appends a validated income record and persists the ledger.
func (s *LedgerService) CreateIncome(ctx context.Context, in core.Income) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.store.AppendIncome(ctx, s.ledger, in)
	if err != nil {
		return "", err
	}
	s.publishChange(ctx, amqp.OpCreated, core.KindIngresos)
	return id, nil
}

// CreateExpense appends a validated expense record and persists the ledger.
func (s *LedgerService) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.store.AppendExpense(ctx, s.ledger, e)
	if err != nil {
		return "", err
	}
	s.publishChange(ctx, amqp.OpCreated, core.KindEgresos)
	return id, nil
}

// Incomes returns the incomes filtered by month token and actor name.
// Either dimension accepts core.FilterAll.
func (s *LedgerService) Incomes(monthToken, name string) []core.Income {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := core.FilterIncomesByMonth(s.ledger.Ingresos, monthToken)
	return core.FilterIncomesByName(filtered, name)
}

// Expenses returns the expenses filtered by their stored month label.
func (s *LedgerService) Expenses(monthName core.MonthName) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.FilterExpensesByMonth(s.ledger.Egresos, monthName)
}

// IncomeNames returns the distinct actor names for selector rendering.
func (s *LedgerService) IncomeNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.IncomeNames(s.ledger.Ingresos)
}

// Dashboard filters both record kinds by one canonical month token and
// aggregates them. The expense side is matched through month-name
// canonicalization so a single selector covers both vocabularies.
func (s *LedgerService) Dashboard(monthToken string) DashboardData {
	s.mu.Lock()
	defer s.mu.Unlock()
	ingresos := core.FilterIncomesByMonth(s.ledger.Ingresos, monthToken)
	egresos := core.FilterExpensesByMonthToken(s.ledger.Egresos, monthToken)
	return DashboardData{
		Mes:     monthToken,
		Meses:   core.MonthTokens(s.ledger),
		Totales: core.Totals(ingresos, egresos),
		Serie:   core.MonthlySeries(ingresos, egresos),
	}
}

// UpdateIncomeByID replaces the income with the given surrogate ID.
func (s *LedgerService) UpdateIncomeByID(ctx context.Context, id string, values core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.UpdateIncomeByID(ctx, s.ledger, id, values); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpUpdated, core.KindIngresos)
	return nil
}

// UpdateIncome replaces the first income matching the given field set.
func (s *LedgerService) UpdateIncome(ctx context.Context, match, values core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.UpdateIncome(ctx, s.ledger, match, values); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpUpdated, core.KindIngresos)
	return nil
}

// DeleteIncomeByID removes the income with the given surrogate ID.
func (s *LedgerService) DeleteIncomeByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteIncomeByID(ctx, s.ledger, id); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpDeleted, core.KindIngresos)
	return nil
}

// DeleteIncome removes the first income matching the given field set.
func (s *LedgerService) DeleteIncome(ctx context.Context, match core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteIncome(ctx, s.ledger, match); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpDeleted, core.KindIngresos)
	return nil
}

// UpdateExpenseByID replaces the expense with the given surrogate ID.
func (s *LedgerService) UpdateExpenseByID(ctx context.Context, id string, values core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.UpdateExpenseByID(ctx, s.ledger, id, values); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpUpdated, core.KindEgresos)
	return nil
}

// UpdateExpense replaces the first expense matching the given field set.
func (s *LedgerService) UpdateExpense(ctx context.Context, match, values core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.UpdateExpense(ctx, s.ledger, match, values); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpUpdated, core.KindEgresos)
	return nil
}

// DeleteExpenseByID removes the expense with the given surrogate ID.
func (s *LedgerService) DeleteExpenseByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteExpenseByID(ctx, s.ledger, id); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpDeleted, core.KindEgresos)
	return nil
}

// DeleteExpense removes the first expense matching the given field set.
func (s *LedgerService) DeleteExpense(ctx context.Context, match core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteExpense(ctx, s.ledger, match); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpDeleted, core.KindEgresos)
	return nil
}

// BeginIncomeEdit opens a staged edit and returns the current values.
func (s *LedgerService) BeginIncomeEdit(id string) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.BeginIncomeEdit(s.ledger, id)
}

// CommitIncomeEdit applies staged values and persists.
func (s *LedgerService) CommitIncomeEdit(ctx context.Context, id string, values core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.CommitIncomeEdit(ctx, s.ledger, id, values); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpUpdated, core.KindIngresos)
	return nil
}

// BeginExpenseEdit opens a staged edit and returns the current values.
func (s *LedgerService) BeginExpenseEdit(id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.BeginExpenseEdit(s.ledger, id)
}

// CommitExpenseEdit applies staged values and persists.
func (s *LedgerService) CommitExpenseEdit(ctx context.Context, id string, values core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.CommitExpenseEdit(ctx, s.ledger, id, values); err != nil {
		return err
	}
	s.publishChange(ctx, amqp.OpUpdated, core.KindEgresos)
	return nil
}

// CancelEdit discards a staged edit, if any.
func (s *LedgerService) CancelEdit(id string) {
	s.editor.CancelEdit(id)
}

func (s *LedgerService) publishChange(ctx context.Context, op string, kind core.RecordKind) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, op, kind); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"op", op, "kind", string(kind), "error", err)
		// Don't fail the request - the ledger is saved locally
	}
}
