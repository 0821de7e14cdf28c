package client

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonvc/minipnl/internal/ledger"
	"github.com/simonvc/minipnl/internal/server"
	"github.com/simonvc/minipnl/internal/store"
)

const csvExport = "date,amount,cost_center,counterparty\n" +
	"2024-01-15,1000,Google Play Net Revenue,GOOGLE BRASIL PAGAMENTOS LTDA\n" +
	"2024-01-20,-200,Web Services Expenses,AWS\n"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	ts := httptest.NewServer(server.New(st, "").Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CurrentBatch(ctx); !NotFound(err) {
		t.Fatalf("CurrentBatch on empty store = %v", err)
	}

	up, err := c.Upload(ctx, "jan.csv", strings.NewReader(csvExport))
	if err != nil {
		t.Fatal(err)
	}
	if up.Rows != 2 || up.Batch.Filename != "jan.csv" {
		t.Errorf("upload = %+v", up)
	}

	report, err := c.PnL(ctx, "2024-01-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Value(ledger.RowGrossProfit, "2024-01"); got != 623.5 {
		t.Errorf("gross profit = %v", got)
	}

	if _, err := c.SetOverride(ctx, ledger.RowWages, "2024-01", -10); err != nil {
		t.Fatal(err)
	}
	list, err := c.Overrides(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("overrides = %+v, %v", list, err)
	}
	n, err := c.ClearOverrides(ctx)
	if err != nil || n != 1 {
		t.Errorf("ClearOverrides = %d, %v", n, err)
	}

	dd, err := c.DrillDownRow(ctx, ledger.RowCOGS, "2024-01")
	if err != nil || dd.Total != -200 {
		t.Errorf("drilldown = %+v, %v", dd, err)
	}

	b, err := c.Breakdown(ctx, ledger.MetricGrossProfit, "")
	if err != nil || b.Result != 623.5 {
		t.Errorf("breakdown = %+v, %v", b, err)
	}

	var buf bytes.Buffer
	size, err := c.ExportXLSX(ctx, "", "", &buf)
	if err != nil || size == 0 || int64(buf.Len()) != size {
		t.Errorf("export = %d bytes, %v", size, err)
	}
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.SetOverride(ctx, 99, "2024-01", 1)
	if !NotFound(err) {
		t.Errorf("unknown row err = %v", err)
	}
	_, err = c.PnL(ctx, "2024-02-01", "2024-01-01")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Errorf("bad window err = %v", err)
	}

	if _, err := c.ReplaceMappings(ctx, []ledger.MappingRule{{CostCenter: ""}}); err == nil {
		t.Error("empty cost center accepted")
	}
	rules, err := c.ResetMappings(ctx)
	if err != nil || len(rules) != len(ledger.DefaultMappings) {
		t.Errorf("reset = %d, %v", len(rules), err)
	}
}
