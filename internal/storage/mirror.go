// Package storage maintains a queryable SQLite snapshot of the ledger.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finanzas/internal/core"

	_ "modernc.org/sqlite"
)

// MirrorRepository holds a disposable read replica of the current ledger.
// The whole snapshot is replaced in one transaction per refresh; no history
// is kept.
type MirrorRepository struct {
	db *sql.DB
}

func NewMirrorRepository(dbPath string) (*MirrorRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &MirrorRepository{db: db}, nil
}

func (r *MirrorRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Replace swaps the whole mirrored snapshot for the given ledger contents
// in one transaction.
func (r *MirrorRepository) Replace(ctx context.Context, l *core.Ledger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin refresh tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ingresos`); err != nil {
		return fmt.Errorf("clear ingresos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM egresos`); err != nil {
		return fmt.Errorf("clear egresos: %w", err)
	}

	for _, in := range l.Ingresos {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ingresos (nombre, fecha, metodo, importe) VALUES (?, ?, ?, ?)`,
			in.Nombre, in.Fecha.String(), string(in.Metodo), in.Importe)
		if err != nil {
			return fmt.Errorf("insert ingreso: %w", err)
		}
	}
	for _, e := range l.Egresos {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO egresos (fecha, descripcion, metodo, mes, importe) VALUES (?, ?, ?, ?, ?)`,
			e.Fecha.String(), e.Descripcion, string(e.Metodo), string(e.Mes), e.Importe)
		if err != nil {
			return fmt.Errorf("insert egreso: %w", err)
		}
	}

	refreshedAt := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO mirror_state (id, refreshed_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET refreshed_at = excluded.refreshed_at`,
		refreshedAt)
	if err != nil {
		return fmt.Errorf("update mirror state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit refresh tx: %w", err)
	}

	slog.InfoContext(ctx, "Mirror refreshed",
		"ingresos", len(l.Ingresos),
		"egresos", len(l.Egresos),
		"refreshed_at", refreshedAt)
	return nil
}

// Counts returns the number of mirrored rows per record kind.
func (r *MirrorRepository) Counts(ctx context.Context) (ingresos, egresos int64, err error) {
	if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingresos`).Scan(&ingresos); err != nil {
		return 0, 0, fmt.Errorf("count ingresos: %w", err)
	}
	if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM egresos`).Scan(&egresos); err != nil {
		return 0, 0, fmt.Errorf("count egresos: %w", err)
	}
	return ingresos, egresos, nil
}

// LastRefresh returns when the snapshot was last replaced, or the zero time
// when no refresh has happened yet.
func (r *MirrorRepository) LastRefresh(ctx context.Context) (time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT refreshed_at FROM mirror_state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read mirror state: %w", err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse refreshed_at: %w", err)
	}
	return t, nil
}
