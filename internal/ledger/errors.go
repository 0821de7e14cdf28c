package ledger

import "errors"

var (
	ErrRejectedIngestion = errors.New("ingestion rejected")
	ErrInvalidMapping    = errors.New("invalid mapping rule")
	ErrInvalidLine       = errors.New("invalid line number")
	ErrUnknownRow        = errors.New("unknown statement row")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidOverride   = errors.New("invalid override value")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrNoTransactions    = errors.New("no transactions loaded")
	ErrInsightsDisabled  = errors.New("insights generator not configured")
)
