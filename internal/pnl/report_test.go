package pnl

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/simonvc/minipnl/internal/ledger"
)

func sampleTransactions() []ledger.Transaction {
	return []ledger.Transaction{
		tx("2024-01-15", 1000, "Google Play Net Revenue", "GOOGLE BRASIL PAGAMENTOS LTDA"),
		tx("2024-01-20", -200, "Web Services Expenses", "AWS"),
	}
}

func value(t *testing.T, r ledger.Report, row ledger.RowNumber, p ledger.Period) float64 {
	t.Helper()
	got, ok := r.Row(row)
	if !ok {
		t.Fatalf("row %d missing from report", row)
	}
	return got.Values[p]
}

func TestBuildReportEndToEnd(t *testing.T) {
	r := BuildReport(Input{Transactions: sampleTransactions(), Rules: ledger.DefaultRules()})

	if len(r.Headers) != 1 || r.Headers[0] != "2024-01" {
		t.Fatalf("headers = %v", r.Headers)
	}
	tests := []struct {
		row  ledger.RowNumber
		want float64
	}{
		{ledger.RowGrossRevenue, 1000},
		{ledger.RowSalesRevenue, 1000},
		{ledger.RowGoogleRevenue, 1000},
		{ledger.RowAppleRevenue, 0},
		{ledger.RowInvestIncome, 0},
		{ledger.RowProcessing, -176.5},
		{ledger.RowCOGS, -200},
		{ledger.RowDirectCosts, -376.5},
		{ledger.RowGrossProfit, 623.5},
		{ledger.RowOperatingExpense, 0},
		{ledger.RowEBITDA, 623.5},
		{ledger.RowNetResult, 623.5},
	}
	for _, tt := range tests {
		if got := value(t, r, tt.row, "2024-01"); got != tt.want {
			t.Errorf("row %d = %v, want %v", tt.row, got, tt.want)
		}
	}
	if got := value(t, r, ledger.RowGrossMargin, "2024-01"); math.Abs(got-62.35) > 1e-9 {
		t.Errorf("gross margin = %v, want 62.35", got)
	}
}

func TestBuildReportRowOrder(t *testing.T) {
	r := BuildReport(Input{Transactions: sampleTransactions(), Rules: ledger.DefaultRules()})
	want := []ledger.RowNumber{1, 2, 21, 22, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 16, 14, 15}
	if len(r.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(r.Rows), len(want))
	}
	for i, n := range want {
		if r.Rows[i].LineNumber != n {
			t.Errorf("rows[%d] = %d, want %d", i, r.Rows[i].LineNumber, n)
		}
	}
	if !r.Rows[0].IsHeader || !r.Rows[8].IsTotal {
		t.Error("header/total flags not set")
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	overrides := ledger.OverrideSet{}
	if err := overrides.Set(ledger.RowWages, "2024-01", -10); err != nil {
		t.Fatal(err)
	}
	in := Input{Transactions: sampleTransactions(), Rules: ledger.DefaultRules(), Overrides: overrides}

	a, err := json.Marshal(BuildReport(in))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(BuildReport(in))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("reports differ:\n%s\n%s", a, b)
	}
}

func TestMarginGuardOnZeroRevenue(t *testing.T) {
	txs := []ledger.Transaction{tx("2024-05-02", -90, "Wages Expenses", "Payroll")}
	r := BuildReport(Input{Transactions: txs, Rules: ledger.DefaultRules()})

	for _, row := range []ledger.RowNumber{ledger.RowEBITDAMargin, ledger.RowGrossMargin} {
		got := value(t, r, row, "2024-05")
		if got != 0 || math.IsNaN(got) {
			t.Errorf("row %d = %v, want exactly 0", row, got)
		}
	}
	d := Dashboard(&r)
	if d.KPIs.EBITDAMargin != 0 || d.KPIs.GrossMargin != 0 {
		t.Errorf("dashboard margins = %+v", d.KPIs)
	}
}

func TestOverrideDoesNotPropagateToEBITDA(t *testing.T) {
	txs := []ledger.Transaction{tx("2024-03-10", -500, "Marketing & Growth Expenses", "MGA MARKETING LTDA")}
	in := Input{Transactions: txs, Rules: ledger.DefaultRules()}

	before := BuildReport(in)
	if got := value(t, before, ledger.RowMarketing, "2024-03"); got != -500 {
		t.Fatalf("marketing = %v, want -500", got)
	}

	in.Overrides = ledger.OverrideSet{}
	if err := in.Overrides.Set(ledger.RowMarketing, "2024-03", -450); err != nil {
		t.Fatal(err)
	}
	after := BuildReport(in)

	if got := value(t, after, ledger.RowMarketing, "2024-03"); got != -450 {
		t.Errorf("marketing = %v, want -450", got)
	}
	if got := value(t, after, ledger.RowEBITDA, "2024-03"); got != -500 {
		t.Errorf("EBITDA = %v, want -500 computed from the raw marketing value", got)
	}
	if got := value(t, after, ledger.RowOperatingExpense, "2024-03"); got != -500 {
		t.Errorf("operating expenses = %v, want -500", got)
	}
}

func TestOverrideGroupSums(t *testing.T) {
	txs := append(sampleTransactions(), tx("2024-01-25", -40, "Legal & Accounting Expenses", "BHUB.AI"))
	in := Input{Transactions: txs, Rules: ledger.DefaultRules(), Overrides: ledger.OverrideSet{}}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(in.Overrides.Set(ledger.RowProcessing, "2024-01", -100))
	must(in.Overrides.Set(ledger.RowOtherExpenses, "2024-01", -60))
	r := BuildReport(in)
	if got := value(t, r, ledger.RowDirectCosts, "2024-01"); got != -300 {
		t.Errorf("direct costs = %v, want -300 (overridden processing + COGS)", got)
	}
	if got := value(t, r, ledger.RowOperatingExpense, "2024-01"); got != -60 {
		t.Errorf("operating expenses = %v, want -60 (SG&A + overridden other)", got)
	}
	if got := value(t, r, ledger.RowGrossProfit, "2024-01"); got != 623.5 {
		t.Errorf("gross profit = %v, want 623.5 (not recomputed)", got)
	}

	must(in.Overrides.Set(ledger.RowDirectCosts, "2024-01", -999))
	r = BuildReport(in)
	if got := value(t, r, ledger.RowDirectCosts, "2024-01"); got != -999 {
		t.Errorf("direct costs = %v, want the header override -999", got)
	}
}

func TestOverrideOutsideWindowIsUnused(t *testing.T) {
	in := Input{Transactions: sampleTransactions(), Rules: ledger.DefaultRules(), Overrides: ledger.OverrideSet{}}
	if err := in.Overrides.Set(ledger.RowCOGS, "2023-06", -1); err != nil {
		t.Fatal(err)
	}
	r := BuildReport(in)
	if got := value(t, r, ledger.RowCOGS, "2024-01"); got != -200 {
		t.Errorf("COGS = %v", got)
	}
	if _, ok := r.Rows[0].Values["2023-06"]; ok {
		t.Error("out-of-window period leaked into the report")
	}
}

func TestBuildReportEmptyWindow(t *testing.T) {
	w, err := ParseWindow("2030-01-01", "2030-12-31")
	if err != nil {
		t.Fatal(err)
	}
	r := BuildReport(Input{Transactions: sampleTransactions(), Rules: ledger.DefaultRules(), Window: w})
	if r.Headers == nil || r.Rows == nil || len(r.Headers) != 0 || len(r.Rows) != 0 {
		t.Fatalf("want empty non-nil report, got %+v", r)
	}
	b, _ := json.Marshal(r)
	if string(b) != `{"headers":[],"rows":[]}` {
		t.Errorf("json = %s", b)
	}

	d := Dashboard(&r)
	if !d.Empty() || len(d.MonthlyData) != 0 {
		t.Errorf("dashboard = %+v", d)
	}
}

func TestWindowBoundsAreInclusive(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2024-01-31", 10, "Google Play Net Revenue", "GOOGLE BRASIL PAGAMENTOS LTDA"),
		tx("2024-02-01", 20, "Google Play Net Revenue", "GOOGLE BRASIL PAGAMENTOS LTDA"),
		tx("2024-02-29", 30, "Google Play Net Revenue", "GOOGLE BRASIL PAGAMENTOS LTDA"),
		tx("2024-03-01", 40, "Google Play Net Revenue", "GOOGLE BRASIL PAGAMENTOS LTDA"),
	}
	w, err := ParseWindow("2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	r := BuildReport(Input{Transactions: txs, Rules: ledger.DefaultRules(), Window: w})
	if len(r.Headers) != 1 || r.Headers[0] != "2024-02" {
		t.Fatalf("headers = %v", r.Headers)
	}
	if got := value(t, r, ledger.RowGoogleRevenue, "2024-02"); got != 50 {
		t.Errorf("google = %v, want 50", got)
	}
}

func TestParseWindowRejectsMalformed(t *testing.T) {
	tests := []struct{ start, end string }{
		{"2024-13-01", ""},
		{"", "01/02/2024"},
		{"2024-03-01", "2024-02-01"},
	}
	for _, tt := range tests {
		if _, err := ParseWindow(tt.start, tt.end); !errors.Is(err, ledger.ErrInvalidDateRange) {
			t.Errorf("ParseWindow(%q, %q) = %v", tt.start, tt.end, err)
		}
	}
	if w, err := ParseWindow("", ""); err != nil || !w.Start.IsZero() || !w.End.IsZero() {
		t.Errorf("open window = %+v, %v", w, err)
	}
}
