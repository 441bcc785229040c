package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"finanzas/internal/core"
)

// ErrNoEditSession is returned when a commit arrives for a record that has
// no staged edit open.
var ErrNoEditSession = errors.New("no edit session open for record")

// Editor resolves a ledger record and updates or removes it in place,
// persisting the whole ledger afterwards. The primary lookup key is the
// surrogate record ID; matching by the full displayed field set is kept as
// a compatibility shim for callers that only hold the record's values.
// Persistence is attempted only after a successful match, so a failed
// lookup never touches the file.
type Editor struct {
	store *Store

	mu     sync.Mutex
	staged map[string]core.RecordKind
}

func NewEditor(store *Store) *Editor {
	return &Editor{
		store:  store,
		staged: make(map[string]core.RecordKind),
	}
}

// UpdateIncomeByID replaces the income with the given surrogate ID,
// preserving its position and ID, then persists.
func (ed *Editor) UpdateIncomeByID(ctx context.Context, l *core.Ledger, id string, values core.Income) error {
	if err := values.Validate(); err != nil {
		return err
	}
	idx := incomeIndexByID(l, id)
	if idx < 0 {
		return fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	return ed.replaceIncome(ctx, l, idx, values)
}

// UpdateIncome locates the first income whose fields equal match exactly
// and replaces it with values. Duplicates beyond the first are left alone.
func (ed *Editor) UpdateIncome(ctx context.Context, l *core.Ledger, match, values core.Income) error {
	if err := values.Validate(); err != nil {
		return err
	}
	idx := incomeIndexByMatch(l, match)
	if idx < 0 {
		return fmt.Errorf("income matching %s/%s: %w", match.Nombre, match.Fecha, core.ErrNotFound)
	}
	return ed.replaceIncome(ctx, l, idx, values)
}

// DeleteIncomeByID removes the income with the given surrogate ID and persists.
func (ed *Editor) DeleteIncomeByID(ctx context.Context, l *core.Ledger, id string) error {
	idx := incomeIndexByID(l, id)
	if idx < 0 {
		return fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	return ed.removeIncome(ctx, l, idx)
}

// DeleteIncome removes the first income whose fields equal match exactly.
func (ed *Editor) DeleteIncome(ctx context.Context, l *core.Ledger, match core.Income) error {
	idx := incomeIndexByMatch(l, match)
	if idx < 0 {
		return fmt.Errorf("income matching %s/%s: %w", match.Nombre, match.Fecha, core.ErrNotFound)
	}
	return ed.removeIncome(ctx, l, idx)
}

// UpdateExpenseByID replaces the expense with the given surrogate ID,
// preserving its position and ID, then persists.
func (ed *Editor) UpdateExpenseByID(ctx context.Context, l *core.Ledger, id string, values core.Expense) error {
	if err := values.Validate(); err != nil {
		return err
	}
	idx := expenseIndexByID(l, id)
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return ed.replaceExpense(ctx, l, idx, values)
}

// UpdateExpense locates the first expense whose fields equal match exactly
// and replaces it with values.
func (ed *Editor) UpdateExpense(ctx context.Context, l *core.Ledger, match, values core.Expense) error {
	if err := values.Validate(); err != nil {
		return err
	}
	idx := expenseIndexByMatch(l, match)
	if idx < 0 {
		return fmt.Errorf("expense matching %s/%s: %w", match.Descripcion, match.Fecha, core.ErrNotFound)
	}
	return ed.replaceExpense(ctx, l, idx, values)
}

// DeleteExpenseByID removes the expense with the given surrogate ID and persists.
func (ed *Editor) DeleteExpenseByID(ctx context.Context, l *core.Ledger, id string) error {
	idx := expenseIndexByID(l, id)
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return ed.removeExpense(ctx, l, idx)
}

// DeleteExpense removes the first expense whose fields equal match exactly.
func (ed *Editor) DeleteExpense(ctx context.Context, l *core.Ledger, match core.Expense) error {
	idx := expenseIndexByMatch(l, match)
	if idx < 0 {
		return fmt.Errorf("expense matching %s/%s: %w", match.Descripcion, match.Fecha, core.ErrNotFound)
	}
	return ed.removeExpense(ctx, l, idx)
}

// BeginIncomeEdit opens a staged edit for the income with the given ID and
// returns a copy of its current values for the caller to modify.
func (ed *Editor) BeginIncomeEdit(l *core.Ledger, id string) (core.Income, error) {
	idx := incomeIndexByID(l, id)
	if idx < 0 {
		return core.Income{}, fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	ed.mu.Lock()
	ed.staged[id] = core.KindIngresos
	ed.mu.Unlock()
	return l.Ingresos[idx], nil
}

// CommitIncomeEdit applies staged values to the record and persists. The
// edit session is closed whether or not the record still exists.
func (ed *Editor) CommitIncomeEdit(ctx context.Context, l *core.Ledger, id string, values core.Income) error {
	ed.mu.Lock()
	kind, open := ed.staged[id]
	delete(ed.staged, id)
	ed.mu.Unlock()
	if !open || kind != core.KindIngresos {
		return fmt.Errorf("income %s: %w", id, ErrNoEditSession)
	}
	return ed.UpdateIncomeByID(ctx, l, id, values)
}

// BeginExpenseEdit opens a staged edit for the expense with the given ID
// and returns a copy of its current values.
func (ed *Editor) BeginExpenseEdit(l *core.Ledger, id string) (core.Expense, error) {
	idx := expenseIndexByID(l, id)
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	ed.mu.Lock()
	ed.staged[id] = core.KindEgresos
	ed.mu.Unlock()
	return l.Egresos[idx], nil
}

// CommitExpenseEdit applies staged values to the record and persists.
func (ed *Editor) CommitExpenseEdit(ctx context.Context, l *core.Ledger, id string, values core.Expense) error {
	ed.mu.Lock()
	kind, open := ed.staged[id]
	delete(ed.staged, id)
	ed.mu.Unlock()
	if !open || kind != core.KindEgresos {
		return fmt.Errorf("expense %s: %w", id, ErrNoEditSession)
	}
	return ed.UpdateExpenseByID(ctx, l, id, values)
}

// CancelEdit discards a staged edit, if any.
func (ed *Editor) CancelEdit(id string) {
	ed.mu.Lock()
	delete(ed.staged, id)
	ed.mu.Unlock()
}

func (ed *Editor) replaceIncome(ctx context.Context, l *core.Ledger, idx int, values core.Income) error {
	prev := l.Ingresos[idx]
	values.ID = prev.ID
	l.Ingresos[idx] = values
	if err := ed.store.Save(ctx, l); err != nil {
		l.Ingresos[idx] = prev
		return err
	}
	slog.InfoContext(ctx, "Income updated", "id", prev.ID, "position", idx)
	return nil
}

func (ed *Editor) removeIncome(ctx context.Context, l *core.Ledger, idx int) error {
	removed := l.Ingresos[idx]
	l.Ingresos = append(l.Ingresos[:idx], l.Ingresos[idx+1:]...)
	if err := ed.store.Save(ctx, l); err != nil {
		l.Ingresos = append(l.Ingresos[:idx], append([]core.Income{removed}, l.Ingresos[idx:]...)...)
		return err
	}
	slog.InfoContext(ctx, "Income deleted", "id", removed.ID, "position", idx)
	return nil
}

func (ed *Editor) replaceExpense(ctx context.Context, l *core.Ledger, idx int, values core.Expense) error {
	prev := l.Egresos[idx]
	values.ID = prev.ID
	l.Egresos[idx] = values
	if err := ed.store.Save(ctx, l); err != nil {
		l.Egresos[idx] = prev
		return err
	}
	slog.InfoContext(ctx, "Expense updated", "id", prev.ID, "position", idx)
	return nil
}

func (ed *Editor) removeExpense(ctx context.Context, l *core.Ledger, idx int) error {
	removed := l.Egresos[idx]
	l.Egresos = append(l.Egresos[:idx], l.Egresos[idx+1:]...)
	if err := ed.store.Save(ctx, l); err != nil {
		l.Egresos = append(l.Egresos[:idx], append([]core.Expense{removed}, l.Egresos[idx:]...)...)
		return err
	}
	slog.InfoContext(ctx, "Expense deleted", "id", removed.ID, "position", idx)
	return nil
}

func incomeIndexByID(l *core.Ledger, id string) int {
	for i := range l.Ingresos {
		if l.Ingresos[i].ID == id {
			return i
		}
	}
	return -1
}

func incomeIndexByMatch(l *core.Ledger, match core.Income) int {
	for i := range l.Ingresos {
		if l.Ingresos[i].Matches(match) {
			return i
		}
	}
	return -1
}

func expenseIndexByID(l *core.Ledger, id string) int {
	for i := range l.Egresos {
		if l.Egresos[i].ID == id {
			return i
		}
	}
	return -1
}

func expenseIndexByMatch(l *core.Ledger, match core.Expense) int {
	for i := range l.Egresos {
		if l.Egresos[i].Matches(match) {
			return i
		}
	}
	return -1
}
