package ledger

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for transaction dates and date filters.
const DateLayout = "2006-01-02"

// Period is a calendar month key formatted as YYYY-MM. Periods sort
// chronologically as plain strings.
type Period string

const periodLayout = "2006-01"

// PeriodOf returns the calendar month of t.
func PeriodOf(t time.Time) Period {
	return Period(t.Format(periodLayout))
}

// ParsePeriod validates a YYYY-MM key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

// Transaction is one ledger row as delivered by ingestion.
type Transaction struct {
	ID           string    `json:"id,omitempty"`
	BatchID      string    `json:"batch_id,omitempty"`
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	CostCenter   string    `json:"cost_center"`
	Counterparty string    `json:"counterparty"`
}

// Period returns the calendar month the transaction belongs to.
func (t Transaction) Period() Period {
	return PeriodOf(t.Date)
}

// Batch describes one ingested upload.
type Batch struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Rows       int       `json:"rows"`
	UploadedAt time.Time `json:"uploaded_at"`
}
