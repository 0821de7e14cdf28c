package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/minipnl/internal/ledger"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// One row per upload; the transaction table only ever holds the latest.
		`CREATE TABLE IF NOT EXISTS batches (
			id          TEXT PRIMARY KEY,
			filename    TEXT NOT NULL,
			row_count   INTEGER NOT NULL,
			uploaded_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id           TEXT PRIMARY KEY,
			batch_id     TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
			seq          INTEGER NOT NULL,
			date         TEXT NOT NULL,
			period       TEXT NOT NULL,
			amount       REAL NOT NULL,
			cost_center  TEXT NOT NULL,
			counterparty TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_seq ON transactions(batch_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_period ON transactions(period)`,

		// position preserves declaration order, which decides first-match-wins.
		`CREATE TABLE IF NOT EXISTS mapping_rules (
			position     INTEGER PRIMARY KEY,
			group_label  TEXT NOT NULL DEFAULT '',
			cost_center  TEXT NOT NULL,
			counterparty TEXT NOT NULL DEFAULT '',
			target_line  INTEGER NOT NULL CHECK (target_line BETWEEN 1 AND 99),
			kind         TEXT NOT NULL CHECK (kind IN ('Revenue','Cost','Expense')),
			active       INTEGER NOT NULL DEFAULT 1,
			note         TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS overrides (
			row_no     INTEGER NOT NULL,
			period     TEXT NOT NULL,
			value      REAL NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			PRIMARY KEY (row_no, period)
		)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}

	if err := insertRules(ctx, tx, ledger.DefaultMappings); err != nil {
		return fmt.Errorf("seed mappings: %w", err)
	}
	return nil
}

func firstLine(stmt string) string {
	if len(stmt) > 60 {
		return stmt[:60]
	}
	return stmt
}
