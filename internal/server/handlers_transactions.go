package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/simonvc/minipnl/internal/ingest"
	"github.com/simonvc/minipnl/internal/ledger"
	"github.com/simonvc/minipnl/internal/logger"
	"github.com/simonvc/minipnl/internal/store"
)

const maxUploadMemory = 32 << 20

type uploadResponse struct {
	Batch     *ledger.Batch `json:"batch"`
	Encoding  string        `json:"encoding"`
	Separator string        `json:"separator"`
	Rows      int           `json:"rows"`
	Skipped   int           `json:"skipped"`
}

// upload accepts either a multipart form with a "file" part or the CSV as
// the raw request body.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	body, filename, err := uploadBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	res, err := ingest.ParseDetailed(body)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	batch, err := s.store.ReplaceTransactions(r.Context(), filename, res.Transactions)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	reqLog := logger.FromContext(r.Context())
	reqLog.Info().
		Str("batch", batch.ID).
		Str("file", filename).
		Str("encoding", res.Encoding).
		Int("rows", res.Rows).
		Int("skipped", res.Skipped).
		Msg("transactions ingested")

	writeJSON(w, http.StatusCreated, uploadResponse{
		Batch:     batch,
		Encoding:  res.Encoding,
		Separator: string(res.Separator),
		Rows:      res.Rows,
		Skipped:   res.Skipped,
	})
}

func uploadBody(r *http.Request) (io.ReadCloser, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, "", fmt.Errorf("invalid multipart form: %w", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing form file \"file\": %w", err)
		}
		return f, hdr.Filename, nil
	}
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = "upload.csv"
	}
	return r.Body, name, nil
}

func (s *Server) currentBatch(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.CurrentBatch(r.Context())
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TxnFilter{CostCenter: q.Get("cost_center")}
	if p := q.Get("period"); p != "" {
		period, err := ledger.ParsePeriod(p)
		if err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
		filter.Period = period
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit: "+err.Error())
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset: "+err.Error())
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}
