package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/simonvc/minipnl/internal/export"
	"github.com/simonvc/minipnl/internal/insights"
	"github.com/simonvc/minipnl/internal/ledger"
	"github.com/simonvc/minipnl/internal/logger"
	"github.com/simonvc/minipnl/internal/pnl"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// compute reads a snapshot and runs the engine over the given window.
func (s *Server) compute(r *http.Request, win pnl.Window) (*pnl.Result, error) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	return pnl.Build(pnl.Input{
		Transactions: snap.Transactions,
		Rules:        snap.Rules,
		Overrides:    snap.Overrides,
		Window:       win,
	}), nil
}

func windowParams(r *http.Request) (pnl.Window, error) {
	q := r.URL.Query()
	return pnl.ParseWindow(q.Get("start_date"), q.Get("end_date"))
}

func (s *Server) pnl(w http.ResponseWriter, r *http.Request) {
	win, err := windowParams(r)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	res, err := s.compute(r, win)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.Header().Set("X-Transactions", strconv.Itoa(res.Stats.Transactions))
	w.Header().Set("X-Unmatched", strconv.Itoa(res.Stats.Unmatched))
	writeJSON(w, http.StatusOK, res.Report)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	win, err := windowParams(r)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	res, err := s.compute(r, win)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pnl.Dashboard(&res.Report))
}

// drillDown answers ?row=N, ?line=N or ?unmatched=true, each with an
// optional ?period=YYYY-MM.
func (s *Server) drillDown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var period ledger.Period
	if p := q.Get("period"); p != "" {
		var err error
		if period, err = ledger.ParsePeriod(p); err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var dd ledger.DrillDown
	switch {
	case q.Get("unmatched") == "true":
		dd = pnl.Unmatched(snap.Transactions, snap.Rules, period)
	case q.Get("row") != "":
		n, convErr := strconv.Atoi(q.Get("row"))
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid row: "+q.Get("row"))
			return
		}
		dd, err = pnl.DrillDownRow(snap.Transactions, snap.Rules, ledger.RowNumber(n), period)
	case q.Get("line") != "":
		n, convErr := strconv.Atoi(q.Get("line"))
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid line: "+q.Get("line"))
			return
		}
		dd, err = pnl.DrillDownLine(snap.Transactions, snap.Rules, ledger.Line(n), period)
	default:
		writeError(w, http.StatusBadRequest, "one of row, line or unmatched is required")
		return
	}
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dd)
}

func (s *Server) breakdown(w http.ResponseWriter, r *http.Request) {
	metric, err := ledger.ParseMetric(chi.URLParam(r, "metric"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	var period ledger.Period
	if p := r.URL.Query().Get("period"); p != "" {
		if period, err = ledger.ParsePeriod(p); err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
	}
	res, err := s.compute(r, pnl.Window{})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	b, err := pnl.Breakdown(&res.Report, metric, period)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	win, err := windowParams(r)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	res, err := s.compute(r, win)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	d := pnl.Dashboard(&res.Report)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res.Report, &d); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pnl-%s.xlsx"`, time.Now().Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

type insightsRequest struct {
	APIKey    string `json:"api_key"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type insightsResponse struct {
	AnchorPeriod ledger.Period `json:"anchor_period"`
	Insights     string        `json:"insights"`
}

func (s *Server) generateInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	win, err := pnl.ParseWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	gen := s.generator(req.APIKey)
	if gen == nil {
		writeError(w, mapError(ledger.ErrInsightsDisabled), ledger.ErrInsightsDisabled.Error())
		return
	}

	res, err := s.compute(r, win)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	d := pnl.Dashboard(&res.Report)
	if d.Empty() {
		writeError(w, mapError(ledger.ErrNoTransactions), ledger.ErrNoTransactions.Error())
		return
	}

	text, err := gen.Generate(r.Context(), d)
	if err != nil {
		reqLog := logger.FromContext(r.Context())
		reqLog.Error().Err(err).Msg("insights generation failed")
		status := mapError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse{AnchorPeriod: d.AnchorPeriod, Insights: text})
}

// generator returns the configured generator, switched to apiKey when the
// request brings one.
func (s *Server) generator(apiKey string) insights.Generator {
	if apiKey == "" {
		return s.insights
	}
	switch g := s.insights.(type) {
	case *insights.Gemini:
		return g.WithAPIKey(apiKey)
	case nil:
		return insights.NewGemini(insights.Options{APIKey: apiKey, Logger: s.log})
	default:
		return g
	}
}

func (s *Server) lines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ledger.Statement)
}
