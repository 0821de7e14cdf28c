// Package export renders statements as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/simonvc/minipnl/internal/ledger"
)

const (
	StatementSheet = "P&L"
	DashboardSheet = "Dashboard"
)

const (
	amountFormat  = "#,##0.00;[Red]-#,##0.00"
	percentFormat = "0.00%"
)

// Workbook builds a workbook with the statement and, when d is not nil and
// not empty, a dashboard sheet. Margin rows are written as fractions with a
// percent format.
func Workbook(r ledger.Report, d *ledger.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", StatementSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := writeStatement(f, st, r); err != nil {
		f.Close()
		return nil, err
	}
	if d != nil && !d.Empty() {
		if err := writeDashboard(f, st, *d); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook for r (and d) to w.
func WriteXLSX(w io.Writer, r ledger.Report, d *ledger.Dashboard) error {
	f, err := Workbook(r, d)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type styles struct {
	header, title, total, amount, totalAmount, percent int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	amount, percent := amountFormat, percentFormat
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&s.total, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#F1F5F9"}, Pattern: 1},
		}},
		{&s.amount, &excelize.Style{CustomNumFmt: &amount}},
		{&s.totalAmount, &excelize.Style{
			Font:         &excelize.Font{Bold: true},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{"#F1F5F9"}, Pattern: 1},
			CustomNumFmt: &amount,
		}},
		{&s.percent, &excelize.Style{CustomNumFmt: &percent}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

func isMargin(n ledger.RowNumber) bool {
	return n == ledger.RowEBITDAMargin || n == ledger.RowGrossMargin
}

func writeStatement(f *excelize.File, st styles, r ledger.Report) error {
	sheet := StatementSheet
	headers := append([]string{"Line", "Description"}, periodStrings(r.Headers)...)
	if err := writeRow(f, sheet, 1, toAny(headers)); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", last+"1", st.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range r.Rows {
		n := i + 2
		values := []any{int(row.LineNumber), row.Description}
		for _, p := range r.Headers {
			v := row.Values[p]
			if isMargin(row.LineNumber) {
				v /= 100
			}
			values = append(values, v)
		}
		if err := writeRow(f, sheet, n, values); err != nil {
			return err
		}

		labelStyle, numStyle := 0, st.amount
		switch {
		case isMargin(row.LineNumber):
			numStyle = st.percent
		case row.IsHeader:
			labelStyle = st.title
		case row.IsTotal:
			labelStyle, numStyle = st.total, st.totalAmount
		}
		if labelStyle != 0 {
			if err := f.SetCellStyle(sheet, cell(1, n), cell(2, n), labelStyle); err != nil {
				return fmt.Errorf("style row %d: %w", row.LineNumber, err)
			}
		}
		if len(r.Headers) > 0 {
			if err := f.SetCellStyle(sheet, cell(3, n), cell(len(headers), n), numStyle); err != nil {
				return fmt.Errorf("style row %d: %w", row.LineNumber, err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	if len(r.Headers) > 0 {
		_ = f.SetColWidth(sheet, "C", last, 14)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}

func writeDashboard(f *excelize.File, st styles, d ledger.Dashboard) error {
	sheet := DashboardSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create dashboard sheet: %w", err)
	}

	kpis := [][]any{
		{"KPI", string(d.AnchorPeriod)},
		{"Total Revenue", d.KPIs.TotalRevenue},
		{"Google Play Revenue", d.KPIs.GoogleRevenue},
		{"App Store Revenue", d.KPIs.AppleRevenue},
		{"EBITDA", d.KPIs.EBITDA},
		{"Net Result", d.KPIs.NetResult},
		{"EBITDA Margin", d.KPIs.EBITDAMargin},
		{"Gross Margin", d.KPIs.GrossMargin},
	}
	for i, row := range kpis {
		if err := writeRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(sheet, "A1", "B1", st.header)
	_ = f.SetCellStyle(sheet, "B2", "B6", st.amount)
	_ = f.SetCellStyle(sheet, "B7", "B8", st.percent)

	start := len(kpis) + 2
	if err := writeRow(f, sheet, start, []any{"Period", "Revenue", "Direct Costs", "Operating Expenses", "EBITDA"}); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet, cell(1, start), cell(5, start), st.header)
	for i, m := range d.MonthlyData {
		n := start + 1 + i
		if err := writeRow(f, sheet, n, []any{string(m.Period), m.Revenue, m.Costs, m.Expenses, m.EBITDA}); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, cell(2, n), cell(5, n), st.amount)
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "E", 18)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell(i+1, row), err)
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func periodStrings(ps []ledger.Period) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
