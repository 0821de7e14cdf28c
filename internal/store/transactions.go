package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simonvc/minipnl/internal/ledger"
)

// ReplaceTransactions stores txs as the new transaction table, replacing the
// previous upload in one transaction. Ids are assigned in place.
func (s *Store) ReplaceTransactions(ctx context.Context, filename string, txs []ledger.Transaction) (*ledger.Batch, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: empty transaction table", ledger.ErrRejectedIngestion)
	}

	batch := &ledger.Batch{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Filename:   filename,
		Rows:       len(txs),
		UploadedAt: time.Now().UTC(),
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Cascades to transactions.
	if _, err := tx.ExecContext(ctx, `DELETE FROM batches`); err != nil {
		return nil, fmt.Errorf("clear batches: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, filename, row_count, uploaded_at) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.Filename, batch.Rows, batch.UploadedAt.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, batch_id, seq, date, period, amount, cost_center, counterparty)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range txs {
		txs[i].ID = uuid.Must(uuid.NewV7()).String()
		txs[i].BatchID = batch.ID
		if _, err := stmt.ExecContext(ctx,
			txs[i].ID, batch.ID, i,
			txs[i].Date.Format(ledger.DateLayout), string(txs[i].Period()),
			txs[i].Amount, txs[i].CostCenter, txs[i].Counterparty,
		); err != nil {
			return nil, fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return batch, nil
}

// CurrentBatch describes the loaded upload, or ErrNoTransactions.
func (s *Store) CurrentBatch(ctx context.Context) (*ledger.Batch, error) {
	var b ledger.Batch
	var uploadedAt string
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, filename, row_count, uploaded_at FROM batches ORDER BY uploaded_at DESC LIMIT 1`,
	).Scan(&b.ID, &b.Filename, &b.Rows, &uploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNoTransactions
	}
	if err != nil {
		return nil, fmt.Errorf("current batch: %w", err)
	}
	b.UploadedAt, _ = time.Parse(time.RFC3339Nano, uploadedAt)
	return &b, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error) {
	query := `SELECT id, batch_id, date, amount, cost_center, counterparty FROM transactions WHERE 1=1`
	args := []any{}

	if filter.Period != "" {
		query += ` AND period = ?`
		args = append(args, string(filter.Period))
	}
	if filter.CostCenter != "" {
		query += ` AND lower(trim(cost_center)) = ?`
		args = append(args, ledger.Normalize(filter.CostCenter))
	}

	query += ` ORDER BY seq`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	return listTransactions(ctx, s.reader, query, args...)
}

func listTransactions(ctx context.Context, q queryer, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []ledger.Transaction{}
	for rows.Next() {
		var t ledger.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.BatchID, &date, &t.Amount, &t.CostCenter, &t.Counterparty); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = time.Parse(ledger.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
