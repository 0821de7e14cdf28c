package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simonvc/minipnl/internal/ledger"
)

func (s *Server) listOverrides(w http.ResponseWriter, r *http.Request) {
	set, err := s.store.Overrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	list := set.List()
	if list == nil {
		list = []ledger.Override{}
	}
	writeJSON(w, http.StatusOK, list)
}

type setOverrideRequest struct {
	Value *float64 `json:"value"`
}

func (s *Server) setOverride(w http.ResponseWriter, r *http.Request) {
	row, period, ok := overrideCell(w, r)
	if !ok {
		return
	}

	var req setOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	if err := s.store.SetOverride(r.Context(), row, period, *req.Value); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ledger.Override{Row: row, Period: period, Value: *req.Value})
}

func (s *Server) clearOverride(w http.ResponseWriter, r *http.Request) {
	row, period, ok := overrideCell(w, r)
	if !ok {
		return
	}
	if err := s.store.ClearOverride(r.Context(), row, period); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearOverrides(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearOverrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": n})
}

// replaceOverrides installs a full list of cells, dropping every other one.
func (s *Server) replaceOverrides(w http.ResponseWriter, r *http.Request) {
	var list []ledger.Override
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	set := ledger.OverrideSet{}
	for _, o := range list {
		if err := set.Set(o.Row, o.Period, o.Value); err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
	}
	if err := s.store.ReplaceOverrides(r.Context(), set); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	out := set.List()
	if out == nil {
		out = []ledger.Override{}
	}
	writeJSON(w, http.StatusOK, out)
}

func overrideCell(w http.ResponseWriter, r *http.Request) (ledger.RowNumber, ledger.Period, bool) {
	rowStr := chi.URLParam(r, "row")
	n, err := strconv.Atoi(rowStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row: "+rowStr)
		return 0, "", false
	}
	row := ledger.RowNumber(n)
	if err := ledger.ValidateRow(row); err != nil {
		writeError(w, mapError(err), err.Error())
		return 0, "", false
	}
	period, err := ledger.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return 0, "", false
	}
	return row, period, true
}
