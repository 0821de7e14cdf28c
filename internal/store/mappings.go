package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/minipnl/internal/ledger"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Mappings returns the rule set in declaration order.
func (s *Store) Mappings(ctx context.Context) ([]ledger.MappingRule, error) {
	return listRules(ctx, s.reader)
}

// ReplaceMappings validates rules and swaps the whole set in one transaction.
// On a validation error the stored set is untouched.
func (s *Store) ReplaceMappings(ctx context.Context, rules []ledger.MappingRule) error {
	if err := ledger.ValidateRules(rules); err != nil {
		return err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mapping_rules`); err != nil {
		return fmt.Errorf("clear mappings: %w", err)
	}
	if err := insertRules(ctx, tx, rules); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ResetMappings restores the default rule set.
func (s *Store) ResetMappings(ctx context.Context) ([]ledger.MappingRule, error) {
	rules := ledger.DefaultRules()
	if err := s.ReplaceMappings(ctx, rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func insertRules(ctx context.Context, tx *sql.Tx, rules []ledger.MappingRule) error {
	for i, r := range rules {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO mapping_rules (position, group_label, cost_center, counterparty, target_line, kind, active, note)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.GroupLabel, r.CostCenter, r.Counterparty, int(r.TargetLine), string(r.Kind), boolToInt(r.Active), r.Note,
		)
		if err != nil {
			return fmt.Errorf("insert mapping %d: %w", i, err)
		}
	}
	return nil
}

func listRules(ctx context.Context, q queryer) ([]ledger.MappingRule, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT group_label, cost_center, counterparty, target_line, kind, active, note
		 FROM mapping_rules ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	rules := []ledger.MappingRule{}
	for rows.Next() {
		var r ledger.MappingRule
		var line, active int
		var kind string
		if err := rows.Scan(&r.GroupLabel, &r.CostCenter, &r.Counterparty, &line, &kind, &active, &r.Note); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		r.TargetLine = ledger.Line(line)
		r.Kind = ledger.Kind(kind)
		r.Active = active == 1
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
