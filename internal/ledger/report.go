package ledger

import "fmt"

// Row is one rendered statement row.
type Row struct {
	LineNumber  RowNumber          `json:"line_number"`
	Description string             `json:"description"`
	Values      map[Period]float64 `json:"values"`
	IsHeader    bool               `json:"is_header"`
	IsTotal     bool               `json:"is_total"`
}

// Report is the monthly P&L statement.
type Report struct {
	Headers []Period `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the report has no periods.
func (r *Report) Empty() bool {
	return len(r.Headers) == 0
}

// Row finds a row by display number.
func (r *Report) Row(n RowNumber) (Row, bool) {
	for _, row := range r.Rows {
		if row.LineNumber == n {
			return row, true
		}
	}
	return Row{}, false
}

// Value reads the displayed value of (row, period), zero if absent.
func (r *Report) Value(n RowNumber, p Period) float64 {
	row, ok := r.Row(n)
	if !ok {
		return 0
	}
	return row.Values[p]
}

// KPIs are the headline figures for the dashboard anchor month.
// Margins are fractions, not percentages.
type KPIs struct {
	TotalRevenue  float64 `json:"total_revenue"`
	NetResult     float64 `json:"net_result"`
	EBITDA        float64 `json:"ebitda"`
	EBITDAMargin  float64 `json:"ebitda_margin"`
	GrossMargin   float64 `json:"gross_margin"`
	GoogleRevenue float64 `json:"google_revenue"`
	AppleRevenue  float64 `json:"apple_revenue"`
}

// MonthlyPoint is one period of the dashboard series. Costs and expenses
// are positive magnitudes.
type MonthlyPoint struct {
	Period   Period  `json:"period"`
	Revenue  float64 `json:"revenue"`
	EBITDA   float64 `json:"ebitda"`
	Costs    float64 `json:"costs"`
	Expenses float64 `json:"expenses"`
}

// CostStructure is the anchor-month cost split, positive magnitudes.
type CostStructure struct {
	PaymentProcessing float64 `json:"payment_processing"`
	COGS              float64 `json:"cogs"`
	Marketing         float64 `json:"marketing"`
	Wages             float64 `json:"wages"`
	Tech              float64 `json:"tech"`
	Other             float64 `json:"other"`
}

// Total sums every component.
func (c CostStructure) Total() float64 {
	return c.PaymentProcessing + c.COGS + c.Marketing + c.Wages + c.Tech + c.Other
}

type Dashboard struct {
	AnchorPeriod  Period         `json:"anchor_period,omitempty"`
	KPIs          KPIs           `json:"kpis"`
	MonthlyData   []MonthlyPoint `json:"monthly_data"`
	CostStructure CostStructure  `json:"cost_structure"`
}

// Empty reports whether the dashboard was built from an empty report.
func (d *Dashboard) Empty() bool {
	return d.AnchorPeriod == ""
}

// DrillDown lists the raw transactions behind a row or line.
type DrillDown struct {
	Row          RowNumber     `json:"line_number,omitempty"`
	Lines        []Line        `json:"lines"`
	Period       Period        `json:"period,omitempty"`
	Transactions []Transaction `json:"transactions"`
	Total        float64       `json:"total"`
}

// BreakdownStep is one term of a metric's computation.
type BreakdownStep struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Symbol string  `json:"symbol,omitempty"`
	Sub    bool    `json:"is_sub_item,omitempty"`
}

// Breakdown explains how a dashboard metric was computed for one period.
type Breakdown struct {
	Metric Metric          `json:"metric"`
	Period Period          `json:"period"`
	Steps  []BreakdownStep `json:"steps"`
	Result float64         `json:"result"`
}

// Metric names a KPI that can be broken down.
type Metric string

const (
	MetricTotalRevenue Metric = "total_revenue"
	MetricGrossProfit  Metric = "gross_profit"
	MetricEBITDA       Metric = "ebitda"
	MetricNetResult    Metric = "net_result"
	MetricEBITDAMargin Metric = "ebitda_margin"
	MetricGrossMargin  Metric = "gross_margin"
)

var AllMetrics = []Metric{
	MetricTotalRevenue, MetricGrossProfit, MetricEBITDA,
	MetricNetResult, MetricEBITDAMargin, MetricGrossMargin,
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownMetric, s, AllMetrics)
}
