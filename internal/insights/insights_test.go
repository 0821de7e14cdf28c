package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/simonvc/minipnl/internal/ledger"
)

func sampleDashboard() ledger.Dashboard {
	return ledger.Dashboard{
		AnchorPeriod: "2024-02",
		KPIs: ledger.KPIs{
			TotalRevenue: 2000,
			EBITDA:       1247,
			NetResult:    1247,
			EBITDAMargin: 0.6235,
			GrossMargin:  0.8235,
		},
		MonthlyData: []ledger.MonthlyPoint{
			{Period: "2024-01", Revenue: 1500, Costs: 464.75, Expenses: 475, EBITDA: 560.25},
			{Period: "2024-02", Revenue: 2000, Costs: 353, Expenses: 400, EBITDA: 1247},
		},
		CostStructure: ledger.CostStructure{PaymentProcessing: 353, Marketing: 400},
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleDashboard())
	for _, want := range []string{
		"KPIs for 2024-02",
		"Total Revenue: 2000.00",
		"EBITDA Margin: 62.4%",
		"Gross Margin: 82.3%",
		"- 2024-01: revenue=1500.00 costs=464.75 expenses=475.00 ebitda=560.25",
		"Marketing: 400.00",
		"Markdown",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	g := NewGemini(Options{})
	if _, err := g.Generate(context.Background(), sampleDashboard()); !errors.Is(err, ledger.ErrInsightsDisabled) {
		t.Fatalf("err = %v, want ErrInsightsDisabled", err)
	}
}

func TestGenerateEmptyDashboard(t *testing.T) {
	g := NewGemini(Options{APIKey: "k"})
	if _, err := g.Generate(context.Background(), ledger.Dashboard{}); !errors.Is(err, ledger.ErrNoTransactions) {
		t.Fatalf("err = %v, want ErrNoTransactions", err)
	}
}

func TestWithAPIKey(t *testing.T) {
	g := NewGemini(Options{APIKey: "configured"})
	if g.WithAPIKey("  ") != g {
		t.Error("blank key should keep the configured generator")
	}
	o := g.WithAPIKey("override")
	if o.opts.APIKey != "override" || g.opts.APIKey != "configured" {
		t.Errorf("override = %q, original = %q", o.opts.APIKey, g.opts.APIKey)
	}
	if o.opts.Model != DefaultModel {
		t.Errorf("model = %q", o.opts.Model)
	}
}
