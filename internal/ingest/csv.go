// Package ingest turns an accounting-system CSV export into transactions.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonvc/minipnl/internal/ledger"
)

// Column headers of the ledger export, with English aliases.
var (
	dateColumns         = []string{"data de competência", "data de competencia", "date"}
	amountColumns       = []string{"valor (r$)", "valor", "amount"}
	costCenterColumns   = []string{"centro de custo 1", "centro de custo", "cost_center", "cost center"}
	counterpartyColumns = []string{"nome do fornecedor/cliente", "fornecedor/cliente", "counterparty"}
)

var separators = []rune{',', ';', '\t'}

// Day-first layouts are tried before month-first ones.
var dateLayouts = []string{"2/1/2006", "2006-1-2", "1/2/2006", "2-1-2006"}

const maxUploadBytes = 32 << 20

// Result is a parsed upload.
type Result struct {
	Transactions []ledger.Transaction
	Encoding     string
	Separator    rune
	Rows         int
	Skipped      int
}

// Parse reads a CSV export and returns its usable rows.
func Parse(r io.Reader) ([]ledger.Transaction, error) {
	res, err := ParseDetailed(r)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// ParseDetailed is Parse with detection and row counts. Rows whose date
// cannot be parsed are skipped and an unparseable amount reads as zero; a
// file without a single dated row is rejected.
func ParseDetailed(r io.Reader) (*Result, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %w", ledger.ErrRejectedIngestion, err)
	}
	if len(raw) > maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ledger.ErrRejectedIngestion, maxUploadBytes)
	}

	text, encoding, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrRejectedIngestion, err)
	}

	records, cols, sep, err := detectLayout(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrRejectedIngestion, err)
	}

	res := &Result{Encoding: encoding, Separator: sep}
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		res.Rows++
		tx, ok := cols.transaction(rec)
		if !ok {
			res.Skipped++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	if len(res.Transactions) == 0 {
		return nil, fmt.Errorf("%w: no row has a usable date (%d rows read)", ledger.ErrRejectedIngestion, res.Rows)
	}
	return res, nil
}

// decode returns the file as UTF-8, falling back to Windows-1252 (a superset
// of ISO-8859-1 for printable text) when the bytes are not valid UTF-8.
func decode(raw []byte) (string, string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), "windows-1252", nil
}

type columns struct {
	date, amount, costCenter, counterparty int
}

// detectLayout tries each separator and keeps the first whose header row
// carries every required column.
func detectLayout(text string) ([][]string, columns, rune, error) {
	var lastErr error
	for _, sep := range separators {
		cr := csv.NewReader(strings.NewReader(text))
		cr.Comma = sep
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true

		header, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, columns{}, 0, fmt.Errorf("empty file")
			}
			lastErr = err
			continue
		}
		cols, missing := locate(header)
		if missing != "" {
			lastErr = fmt.Errorf("missing required column %q", missing)
			continue
		}

		var records [][]string
		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				// Malformed lines are skipped, like a lenient spreadsheet import.
				continue
			}
			records = append(records, rec)
		}
		return records, cols, sep, nil
	}
	return nil, columns{}, 0, fmt.Errorf("could not detect separator: %w", lastErr)
}

func locate(header []string) (columns, string) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i
			}
		}
		return -1
	}

	c := columns{
		date:         find(dateColumns),
		amount:       find(amountColumns),
		costCenter:   find(costCenterColumns),
		counterparty: find(counterpartyColumns),
	}
	switch {
	case c.date < 0:
		return c, "Data de competência"
	case c.amount < 0:
		return c, "Valor (R$)"
	case c.costCenter < 0:
		return c, "Centro de Custo 1"
	case c.counterparty < 0:
		return c, "Nome do fornecedor/cliente"
	}
	return c, ""
}

func (c columns) transaction(rec []string) (ledger.Transaction, bool) {
	field := func(i int) string {
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := ParseDate(field(c.date))
	if err != nil {
		return ledger.Transaction{}, false
	}
	// An unreadable amount keeps the row at zero so it stays listed.
	amount, _ := ledger.ParseAmount(field(c.amount))
	return ledger.Transaction{
		Date:         date,
		Amount:       amount,
		CostCenter:   field(c.costCenter),
		Counterparty: field(c.counterparty),
	}, true
}

// ParseDate accepts day-first, ISO, month-first and dashed day-first dates.
// A trailing time of day is ignored.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
