// Package ledger persists the ledger file and edits its records.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"finanzas/internal/core"

	"github.com/google/uuid"
)

// Store reads and writes the whole ledger as one JSON document. It keeps a
// hash of the content it last saw on disk so a save can detect that another
// writer touched the file since load.
type Store struct {
	mu         sync.Mutex
	path       string
	version    [sha256.Size]byte
	hasVersion bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger from the backing file. An absent or malformed file
// recovers to an empty ledger; the caller never sees a parse error. Every
// record gets a session-scoped surrogate ID on the way in.
func (s *Store) Load(ctx context.Context) *core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Ledger file unreadable, starting empty",
				"path", s.path, "error", err)
		}
		s.hasVersion = false
		return core.NewLedger()
	}

	// Remember what was on disk even if it does not parse, so the next
	// save overwrites exactly this content without flagging a conflict.
	s.version = sha256.Sum256(raw)
	s.hasVersion = true

	l := core.NewLedger()
	if err := json.Unmarshal(raw, l); err != nil {
		slog.WarnContext(ctx, "Ledger file malformed, starting empty",
			"path", s.path, "error", err)
		return core.NewLedger()
	}
	normalize(l)
	assignIDs(l)
	return l
}

// Save serializes the whole ledger and replaces the backing file. The write
// goes to a temp file in the same directory followed by a rename, and fails
// with core.ErrConflict when the on-disk content no longer matches what
// this store last loaded or saved.
func (s *Store) Save(ctx context.Context, l *core.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConflict(); err != nil {
		return err
	}

	normalize(l)
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file: %w", err)
	}

	s.version = sha256.Sum256(data)
	s.hasVersion = true

	slog.DebugContext(ctx, "Ledger saved",
		"path", s.path,
		"ingresos", len(l.Ingresos),
		"egresos", len(l.Egresos))
	return nil
}

// AppendIncome validates the record, appends it to the income sequence and
// persists the whole ledger. Returns the new record's surrogate ID.
func (s *Store) AppendIncome(ctx context.Context, l *core.Ledger, in core.Income) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	in.ID = uuid.NewString()
	l.Ingresos = append(l.Ingresos, in)
	if err := s.Save(ctx, l); err != nil {
		l.Ingresos = l.Ingresos[:len(l.Ingresos)-1]
		return "", err
	}
	return in.ID, nil
}

// AppendExpense validates the record, appends it to the expense sequence
// and persists the whole ledger. Returns the new record's surrogate ID.
func (s *Store) AppendExpense(ctx context.Context, l *core.Ledger, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	e.ID = uuid.NewString()
	l.Egresos = append(l.Egresos, e)
	if err := s.Save(ctx, l); err != nil {
		l.Egresos = l.Egresos[:len(l.Egresos)-1]
		return "", err
	}
	return e.ID, nil
}

// checkConflict compares the current on-disk content against the version
// this store last observed. A missing file never conflicts: saving simply
// recreates it.
func (s *Store) checkConflict() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read ledger file: %w", err)
	}
	if !s.hasVersion {
		// The file appeared after we loaded nothing; refuse to clobber it.
		return core.ErrConflict
	}
	if sha256.Sum256(raw) != s.version {
		return core.ErrConflict
	}
	return nil
}

// normalize guarantees all three top-level sequences serialize as arrays,
// never null.
func normalize(l *core.Ledger) {
	if l.Ingresos == nil {
		l.Ingresos = []core.Income{}
	}
	if l.Egresos == nil {
		l.Egresos = []core.Expense{}
	}
	if l.Usuarios == nil {
		l.Usuarios = []json.RawMessage{}
	}
}

func assignIDs(l *core.Ledger) {
	for i := range l.Ingresos {
		if l.Ingresos[i].ID == "" {
			l.Ingresos[i].ID = uuid.NewString()
		}
	}
	for i := range l.Egresos {
		if l.Egresos[i].ID == "" {
			l.Egresos[i].ID = uuid.NewString()
		}
	}
}
