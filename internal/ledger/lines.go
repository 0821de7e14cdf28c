package ledger

import "fmt"

// Line identifies a slot in the line grid. Raw lines are written by the
// classifier from mapping rules; derived lines are written by the formula
// engine. The two ranges never overlap.
type Line int

const (
	FirstRawLine     Line = 1
	LastRawLine      Line = 99
	FirstDerivedLine Line = 100
	LastDerivedLine  Line = 120
)

// Raw lines the formula engine reads.
const (
	LineGoogleRevenue  Line = 25
	LineGoogleBrazil   Line = 26
	LineGoogleUSA      Line = 28
	LineAppleRevenue   Line = 33
	LineAppleBrazil    Line = 34
	LineAppleUSA       Line = 36
	LineInvestIncome   Line = 38
	LineCOGSAWS        Line = 43
	LineCOGSCloudflare Line = 44
	LineCOGSHeroku     Line = 45
	LineCOGSIAPHub     Line = 46
	LineCOGSMailGun    Line = 47
	LineCOGSAWSSES     Line = 48
	LineMarketing      Line = 56
	LineWages          Line = 64
	LineTechMisc       Line = 65
	LineTechSubscribed Line = 68
	LineOtherExpenses  Line = 90
)

// Derived lines written by the formula engine.
const (
	LineTotalRevenue      Line = 100
	LineRevenueSubjectFee Line = 101
	LineProcessingCost    Line = 102
	LineCOGSTotal         Line = 103
	LineGrossProfit       Line = 104
	LineSGATotal          Line = 105
	LineEBITDA            Line = 106
	LineMarketingTotal    Line = 107
	LineWagesTotal        Line = 108
	LineTechTotal         Line = 109
	LineOtherTotal        Line = 110
	LineNetResult         Line = 111
	LineGoogleTotal       Line = 112
	LineAppleTotal        Line = 113
	LineInvestTotal       Line = 114
	LineEBITDAMargin      Line = 115
	LineGrossMargin       Line = 116
	LineOpExTotal         Line = 117
)

var (
	GoogleLines = []Line{LineGoogleRevenue, LineGoogleBrazil, LineGoogleUSA}
	AppleLines  = []Line{LineAppleRevenue, LineAppleBrazil, LineAppleUSA}
	COGSLines   = []Line{LineCOGSAWS, LineCOGSCloudflare, LineCOGSHeroku, LineCOGSIAPHub, LineCOGSMailGun, LineCOGSAWSSES}
	TechLines   = []Line{LineTechMisc, LineTechSubscribed}
)

// IsRaw reports whether l may be targeted by a mapping rule.
func (l Line) IsRaw() bool {
	return l >= FirstRawLine && l <= LastRawLine
}

// IsDerived reports whether l is a formula output slot.
func (l Line) IsDerived() bool {
	return l >= FirstDerivedLine && l <= LastDerivedLine
}

// Valid reports whether l is inside the grid.
func (l Line) Valid() bool {
	return l.IsRaw() || l.IsDerived()
}

// ValidateRaw returns ErrInvalidLine unless l is a mappable raw line.
func (l Line) ValidateRaw() error {
	if !l.IsRaw() {
		return fmt.Errorf("%w: %d (mapping targets must be %d-%d)", ErrInvalidLine, l, FirstRawLine, LastRawLine)
	}
	return nil
}

// RowNumber is the display identifier of a statement row. It overlaps in
// value with Line but is a separate namespace; overrides are keyed by it.
type RowNumber int

const (
	RowGrossRevenue     RowNumber = 1
	RowSalesRevenue     RowNumber = 2
	RowInvestIncome     RowNumber = 3
	RowDirectCosts      RowNumber = 4
	RowProcessing       RowNumber = 5
	RowCOGS             RowNumber = 6
	RowGrossProfit      RowNumber = 7
	RowOperatingExpense RowNumber = 8
	RowMarketing        RowNumber = 9
	RowWages            RowNumber = 10
	RowTechSupport      RowNumber = 11
	RowOtherExpenses    RowNumber = 12
	RowEBITDA           RowNumber = 13
	RowEBITDAMargin     RowNumber = 14
	RowGrossMargin      RowNumber = 15
	RowNetResult        RowNumber = 16
	RowGoogleRevenue    RowNumber = 21
	RowAppleRevenue     RowNumber = 22
)

// RowDef describes one statement row and the grid cells it displays.
// Line is zero for group rows whose value is a sum of overridden siblings.
type RowDef struct {
	Number      RowNumber `json:"line_number"`
	Description string    `json:"description"`
	Line        Line      `json:"line,omitempty"`
	RawLines    []Line    `json:"raw_lines,omitempty"`
	Header      bool      `json:"is_header"`
	Total       bool      `json:"is_total"`
}

// Statement is the fixed row layout of the P&L, in display order.
var Statement = []RowDef{
	{Number: RowGrossRevenue, Description: "GROSS OPERATING REVENUE", Line: LineTotalRevenue, Header: true},
	{Number: RowSalesRevenue, Description: "Sales Revenue (Google + Apple)", Line: LineRevenueSubjectFee},
	{Number: RowGoogleRevenue, Description: "Google Play Revenue", Line: LineGoogleTotal, RawLines: GoogleLines},
	{Number: RowAppleRevenue, Description: "App Store Revenue", Line: LineAppleTotal, RawLines: AppleLines},
	{Number: RowInvestIncome, Description: "Investment Income", Line: LineInvestTotal, RawLines: []Line{LineInvestIncome}},
	{Number: RowDirectCosts, Description: "(-) DIRECT COSTS", Header: true},
	{Number: RowProcessing, Description: "Payment Processing (17.65%)", Line: LineProcessingCost},
	{Number: RowCOGS, Description: "COGS (Web Services)", Line: LineCOGSTotal, RawLines: COGSLines},
	{Number: RowGrossProfit, Description: "(=) GROSS PROFIT", Line: LineGrossProfit, Total: true},
	{Number: RowOperatingExpense, Description: "(-) OPERATING EXPENSES", Header: true},
	{Number: RowMarketing, Description: "Marketing", Line: LineMarketingTotal, RawLines: []Line{LineMarketing}},
	{Number: RowWages, Description: "Wages", Line: LineWagesTotal, RawLines: []Line{LineWages}},
	{Number: RowTechSupport, Description: "Tech Support & Services", Line: LineTechTotal, RawLines: TechLines},
	{Number: RowOtherExpenses, Description: "Other Expenses", Line: LineOtherTotal, RawLines: []Line{LineOtherExpenses}},
	{Number: RowEBITDA, Description: "(=) EBITDA", Line: LineEBITDA, Total: true},
	{Number: RowNetResult, Description: "(=) NET RESULT", Line: LineNetResult, Total: true},
	{Number: RowEBITDAMargin, Description: "EBITDA Margin %", Line: LineEBITDAMargin},
	{Number: RowGrossMargin, Description: "Gross Margin %", Line: LineGrossMargin},
}

// LookupRow finds a statement row by number.
func LookupRow(n RowNumber) (RowDef, bool) {
	for _, r := range Statement {
		if r.Number == n {
			return r, true
		}
	}
	return RowDef{}, false
}

// ValidateRow returns ErrUnknownRow unless n is a statement row.
func ValidateRow(n RowNumber) error {
	if _, ok := LookupRow(n); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRow, n)
	}
	return nil
}
