package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/minipnl/internal/ledger"
)

// Snapshot is a consistent view of everything a P&L computation reads.
type Snapshot struct {
	Transactions []ledger.Transaction
	Rules        []ledger.MappingRule
	Overrides    ledger.OverrideSet
}

// Snapshot reads transactions, rules and overrides inside one read
// transaction so a concurrent mapping update is seen entirely or not at all.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := s.reader.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	txs, err := listTransactions(ctx, tx,
		`SELECT id, batch_id, date, amount, cost_center, counterparty FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	rules, err := listRules(ctx, tx)
	if err != nil {
		return nil, err
	}
	overrides, err := listOverrides(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return &Snapshot{Transactions: txs, Rules: rules, Overrides: overrides}, nil
}
