package store

import (
	"context"
	"fmt"

	"github.com/simonvc/minipnl/internal/ledger"
)

func (s *Store) Overrides(ctx context.Context) (ledger.OverrideSet, error) {
	return listOverrides(ctx, s.reader)
}

// SetOverride validates and upserts one cell.
func (s *Store) SetOverride(ctx context.Context, row ledger.RowNumber, period ledger.Period, value float64) error {
	if err := ledger.ValidateOverride(row, period, value); err != nil {
		return err
	}
	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO overrides (row_no, period, value) VALUES (?, ?, ?)
		 ON CONFLICT(row_no, period) DO UPDATE SET value = excluded.value,
		 updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		int(row), string(period), value,
	)
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// ClearOverride removes one cell. Clearing a missing cell is not an error.
func (s *Store) ClearOverride(ctx context.Context, row ledger.RowNumber, period ledger.Period) error {
	if err := ledger.ValidateRow(row); err != nil {
		return err
	}
	if _, err := ledger.ParsePeriod(string(period)); err != nil {
		return err
	}
	_, err := s.writer.ExecContext(ctx,
		`DELETE FROM overrides WHERE row_no = ? AND period = ?`, int(row), string(period))
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

// ClearOverrides removes every stored cell and reports how many there were.
func (s *Store) ClearOverrides(ctx context.Context) (int64, error) {
	res, err := s.writer.ExecContext(ctx, `DELETE FROM overrides`)
	if err != nil {
		return 0, fmt.Errorf("clear overrides: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ReplaceOverrides swaps the whole set in one transaction after validating
// every cell.
func (s *Store) ReplaceOverrides(ctx context.Context, set ledger.OverrideSet) error {
	cells := set.List()
	for _, o := range cells {
		if err := ledger.ValidateOverride(o.Row, o.Period, o.Value); err != nil {
			return err
		}
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM overrides`); err != nil {
		return fmt.Errorf("clear overrides: %w", err)
	}
	for _, o := range cells {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO overrides (row_no, period, value) VALUES (?, ?, ?)`,
			int(o.Row), string(o.Period), o.Value,
		); err != nil {
			return fmt.Errorf("insert override %d/%s: %w", o.Row, o.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func listOverrides(ctx context.Context, q queryer) (ledger.OverrideSet, error) {
	rows, err := q.QueryContext(ctx, `SELECT row_no, period, value FROM overrides ORDER BY row_no, period`)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	set := ledger.OverrideSet{}
	for rows.Next() {
		var row int
		var period string
		var value float64
		if err := rows.Scan(&row, &period, &value); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		if set[ledger.RowNumber(row)] == nil {
			set[ledger.RowNumber(row)] = make(map[ledger.Period]float64)
		}
		set[ledger.RowNumber(row)][ledger.Period(period)] = value
	}
	return set, rows.Err()
}
