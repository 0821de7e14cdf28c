package server

import (
	"encoding/json"
	"net/http"

	"github.com/simonvc/minipnl/internal/ledger"
	"github.com/simonvc/minipnl/internal/logger"
)

func (s *Server) listMappings(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.Mappings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rules == nil {
		rules = []ledger.MappingRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// replaceMappings swaps the whole ordered rule list. A single invalid rule
// rejects the request and the stored list is left as it was.
func (s *Server) replaceMappings(w http.ResponseWriter, r *http.Request) {
	var rules []ledger.MappingRule
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.ReplaceMappings(r.Context(), rules); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	reqLog := logger.FromContext(r.Context())
	reqLog.Info().Int("rules", len(rules)).Msg("mapping rules replaced")
	if rules == nil {
		rules = []ledger.MappingRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) resetMappings(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.ResetMappings(r.Context())
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rules)
}
