package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/simonvc/minipnl/internal/ledger"
	"github.com/simonvc/minipnl/internal/store"
)

const sampleCSV = "Data de competência;Valor (R$);Centro de Custo 1;Nome do fornecedor/cliente\n" +
	"15/01/2024;1.000,00;Google Play Net Revenue;GOOGLE BRASIL PAGAMENTOS LTDA\n" +
	"20/01/2024;-200,00;Web Services Expenses;AWS\n" +
	"25/01/2024;-50,00;Transfers;Own account\n"

type fakeGenerator struct {
	got ledger.Dashboard
}

func (f *fakeGenerator) Generate(_ context.Context, d ledger.Dashboard) (string, error) {
	f.got = d
	return "## Looks fine", nil
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, ":0", opts...), st
}

func do(t *testing.T, s *Server, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func uploadSample(t *testing.T, s *Server) {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/upload?filename=jan.csv", []byte(sampleCSV), "text/csv")
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body)
	}
}

func TestUploadRawBody(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/upload?filename=jan.csv", []byte(sampleCSV), "text/csv")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp uploadResponse
	decode(t, rec, &resp)
	if resp.Rows != 3 || resp.Separator != ";" || resp.Batch.Filename != "jan.csv" {
		t.Errorf("resp = %+v", resp)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/transactions?cost_center=web+services+expenses", nil, "")
	var txs []ledger.Transaction
	decode(t, rec, &txs)
	if len(txs) != 1 || txs[0].Counterparty != "AWS" || txs[0].Amount != -200 {
		t.Errorf("filtered transactions = %+v", txs)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/transactions?limit=-1", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit = %d", rec.Code)
	}
}

func TestUploadMultipart(t *testing.T) {
	s, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "feb.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(sampleCSV))
	mw.Close()

	rec := do(t, s, http.MethodPost, "/api/v1/upload", body.Bytes(), mw.FormDataContentType())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/batch", nil, "")
	var b ledger.Batch
	decode(t, rec, &b)
	if b.Filename != "feb.csv" || b.Rows != 3 {
		t.Errorf("batch = %+v", b)
	}
}

func TestUploadRejected(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/upload", []byte("a,b\n1,2\n"), "text/csv")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, s, http.MethodGet, "/api/v1/batch", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("batch after rejected upload = %d", rec.Code)
	}
}

func TestPnLAndOverrides(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/pnl", nil, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"headers":[],"rows":[]}` {
		t.Fatalf("empty pnl = %d %s", rec.Code, rec.Body)
	}

	uploadSample(t, s)

	rec = do(t, s, http.MethodGet, "/api/v1/pnl?start_date=2024-01-01&end_date=2024-01-31", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pnl = %d %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Unmatched"); got != "1" {
		t.Errorf("X-Unmatched = %q", got)
	}
	var report ledger.Report
	decode(t, rec, &report)
	if got := report.Value(ledger.RowEBITDA, "2024-01"); got != 623.5 {
		t.Errorf("EBITDA = %v", got)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/overrides/6/2024-01", []byte(`{"value": -150}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("set override = %d %s", rec.Code, rec.Body)
	}
	rec = do(t, s, http.MethodGet, "/api/v1/pnl", nil, "")
	report = ledger.Report{}
	decode(t, rec, &report)
	if got := report.Value(ledger.RowCOGS, "2024-01"); got != -150 {
		t.Errorf("COGS = %v, want override -150", got)
	}
	if got := report.Value(ledger.RowDirectCosts, "2024-01"); got != -326.5 {
		t.Errorf("direct costs = %v, want -326.5", got)
	}
	if got := report.Value(ledger.RowEBITDA, "2024-01"); got != 623.5 {
		t.Errorf("EBITDA = %v, want unchanged 623.5", got)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/overrides", nil, "")
	var list []ledger.Override
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Row != ledger.RowCOGS {
		t.Errorf("overrides = %+v", list)
	}

	rec = do(t, s, http.MethodDelete, "/api/v1/overrides/6/2024-01", nil, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("clear = %d", rec.Code)
	}
}

func TestOverrideValidation(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		path string
		body string
		want int
	}{
		{"/api/v1/overrides/99/2024-01", `{"value":1}`, http.StatusNotFound},
		{"/api/v1/overrides/x/2024-01", `{"value":1}`, http.StatusBadRequest},
		{"/api/v1/overrides/6/Jan", `{"value":1}`, http.StatusBadRequest},
		{"/api/v1/overrides/6/2024-01", `{}`, http.StatusBadRequest},
		{"/api/v1/overrides/6/2024-01", `{"value":"abc"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodPut, tt.path, []byte(tt.body), "application/json")
		if rec.Code != tt.want {
			t.Errorf("PUT %s %s = %d, want %d", tt.path, tt.body, rec.Code, tt.want)
		}
	}
}

func TestPnLRejectsBadRange(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/pnl?start_date=2024-03-01&end_date=2024-01-01", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMappings(t *testing.T) {
	s, _ := newTestServer(t)

	bad := `[{"cost_center":"x","counterparty":"generic","target_line":106,"kind":"Cost","active":true}]`
	rec := do(t, s, http.MethodPut, "/api/v1/mappings", []byte(bad), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid mappings = %d %s", rec.Code, rec.Body)
	}

	good := `[{"cost_center":"Transfers","counterparty":"generic","target_line":90,"kind":"Expense","active":true}]`
	rec = do(t, s, http.MethodPut, "/api/v1/mappings", []byte(good), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("replace = %d %s", rec.Code, rec.Body)
	}
	rec = do(t, s, http.MethodGet, "/api/v1/mappings", nil, "")
	var rules []ledger.MappingRule
	decode(t, rec, &rules)
	if len(rules) != 1 || rules[0].TargetLine != ledger.LineOtherExpenses {
		t.Fatalf("rules = %+v", rules)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/mappings/reset", nil, "")
	rules = nil
	decode(t, rec, &rules)
	if len(rules) != len(ledger.DefaultMappings) {
		t.Errorf("reset returned %d rules", len(rules))
	}
}

func TestDrillDownAndBreakdown(t *testing.T) {
	s, _ := newTestServer(t)
	uploadSample(t, s)

	rec := do(t, s, http.MethodGet, "/api/v1/drilldown?row=6&period=2024-01", nil, "")
	var dd ledger.DrillDown
	decode(t, rec, &dd)
	if len(dd.Transactions) != 1 || dd.Total != -200 {
		t.Errorf("drilldown = %+v", dd)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/drilldown?unmatched=true", nil, "")
	dd = ledger.DrillDown{}
	decode(t, rec, &dd)
	if len(dd.Transactions) != 1 || dd.Transactions[0].CostCenter != "Transfers" {
		t.Errorf("unmatched = %+v", dd)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/drilldown?line=106", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("derived line drilldown = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/v1/drilldown", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("drilldown without selector = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/breakdown/ebitda", nil, "")
	var b ledger.Breakdown
	decode(t, rec, &b)
	if b.Period != "2024-01" || b.Result != 623.5 {
		t.Errorf("breakdown = %+v", b)
	}
	rec = do(t, s, http.MethodGet, "/api/v1/breakdown/roi", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown metric = %d", rec.Code)
	}
}

func TestDashboardAndExport(t *testing.T) {
	s, _ := newTestServer(t)
	uploadSample(t, s)

	rec := do(t, s, http.MethodGet, "/api/v1/dashboard", nil, "")
	var d ledger.Dashboard
	decode(t, rec, &d)
	if d.AnchorPeriod != "2024-01" || d.KPIs.TotalRevenue != 1000 {
		t.Errorf("dashboard = %+v", d)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/export/pnl.xlsx", nil, "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("export = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 2 {
		t.Errorf("sheets = %v", got)
	}
}

func TestInsights(t *testing.T) {
	gen := &fakeGenerator{}
	s, _ := newTestServer(t, WithInsights(gen))

	rec := do(t, s, http.MethodPost, "/api/v1/insights", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("insights with no data = %d %s", rec.Code, rec.Body)
	}

	uploadSample(t, s)
	rec = do(t, s, http.MethodPost, "/api/v1/insights", []byte(`{}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("insights = %d %s", rec.Code, rec.Body)
	}
	var resp insightsResponse
	decode(t, rec, &resp)
	if resp.Insights != "## Looks fine" || gen.got.AnchorPeriod != "2024-01" {
		t.Errorf("resp = %+v, dashboard = %+v", resp, gen.got)
	}
}

func TestInsightsDisabled(t *testing.T) {
	s, _ := newTestServer(t)
	uploadSample(t, s)
	rec := do(t, s, http.MethodPost, "/api/v1/insights", []byte(`{}`), "application/json")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHealthAndLines(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/api/v1/health", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/api/v1/lines", nil, "")
	var rows []ledger.RowDef
	decode(t, rec, &rows)
	if len(rows) != len(ledger.Statement) {
		t.Errorf("lines = %d", len(rows))
	}
}
