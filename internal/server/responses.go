package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simonvc/minipnl/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNoTransactions), errors.Is(err, ledger.ErrUnknownRow):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidMapping),
		errors.Is(err, ledger.ErrInvalidLine),
		errors.Is(err, ledger.ErrInvalidPeriod),
		errors.Is(err, ledger.ErrInvalidOverride),
		errors.Is(err, ledger.ErrInvalidDateRange),
		errors.Is(err, ledger.ErrUnknownMetric):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrRejectedIngestion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInsightsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
