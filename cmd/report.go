package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

var (
	reportStart string
	reportEnd   string
	reportJSON  bool
)

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportStart, "start", "", "First day of the window (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&reportEnd, "end", "", "Last day of the window (YYYY-MM-DD, inclusive)")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show the monthly P&L statement",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		r, err := c.PnL(context.Background(), reportStart, reportEnd)
		if err != nil {
			return err
		}
		if reportJSON {
			return printJSON(r)
		}
		if r.Empty() {
			fmt.Println("No transactions in the selected window.")
			return nil
		}
		printStatement(r)
		return nil
	},
}

func printStatement(r *ledger.Report) {
	const label = 36
	w := 5 + label + 15*len(r.Headers)

	fmt.Println()
	fmt.Println(center("PROFIT & LOSS", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	fmt.Printf("%4s %-*s", "#", label, "")
	for _, p := range r.Headers {
		fmt.Printf("%15s", p)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("─", w))

	for _, row := range r.Rows {
		if row.IsTotal {
			fmt.Println(strings.Repeat("─", w))
		}
		fmt.Printf("%4d %-*s", row.LineNumber, label, truncate(row.Description, label))
		for _, p := range r.Headers {
			fmt.Printf("%15s", formatCell(row.LineNumber, row.Values[p]))
		}
		fmt.Println()
	}
}

func formatCell(n ledger.RowNumber, v float64) string {
	if n == ledger.RowEBITDAMargin || n == ledger.RowGrossMargin {
		return ledger.FormatPercent(v)
	}
	return ledger.FormatAmount(v)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show KPIs, the monthly series and the cost structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		d, err := c.Dashboard(context.Background(), reportStart, reportEnd)
		if err != nil {
			return err
		}
		if reportJSON {
			return printJSON(d)
		}
		if d.Empty() {
			fmt.Println("No transactions in the selected window.")
			return nil
		}
		printDashboard(d)
		return nil
	},
}

func printDashboard(d *ledger.Dashboard) {
	k := d.KPIs
	fmt.Printf("\n  KPIs for %s\n\n", d.AnchorPeriod)
	fmt.Printf("  %-22s %18s\n", "Total Revenue", ledger.FormatCurrency(k.TotalRevenue))
	fmt.Printf("  %-22s %18s\n", "  Google Play", ledger.FormatCurrency(k.GoogleRevenue))
	fmt.Printf("  %-22s %18s\n", "  App Store", ledger.FormatCurrency(k.AppleRevenue))
	fmt.Printf("  %-22s %18s\n", "EBITDA", ledger.FormatCurrency(k.EBITDA))
	fmt.Printf("  %-22s %18s\n", "Net Result", ledger.FormatCurrency(k.NetResult))
	fmt.Printf("  %-22s %18s\n", "EBITDA Margin", ledger.FormatPercent(k.EBITDAMargin*100))
	fmt.Printf("  %-22s %18s\n", "Gross Margin", ledger.FormatPercent(k.GrossMargin*100))

	fmt.Printf("\n  %-8s %15s %15s %15s %15s\n", "PERIOD", "REVENUE", "COSTS", "EXPENSES", "EBITDA")
	for _, m := range d.MonthlyData {
		fmt.Printf("  %-8s %15s %15s %15s %15s\n", m.Period,
			ledger.FormatAmount(m.Revenue), ledger.FormatAmount(m.Costs),
			ledger.FormatAmount(m.Expenses), ledger.FormatAmount(m.EBITDA))
	}

	cs := d.CostStructure
	total := cs.Total()
	fmt.Printf("\n  Cost structure (%s)\n", d.AnchorPeriod)
	for _, part := range []struct {
		name string
		v    float64
	}{
		{"Payment processing", cs.PaymentProcessing},
		{"COGS", cs.COGS},
		{"Marketing", cs.Marketing},
		{"Wages", cs.Wages},
		{"Tech support", cs.Tech},
		{"Other", cs.Other},
	} {
		share := 0.0
		if total != 0 {
			share = part.v / total * 100
		}
		fmt.Printf("  %-22s %15s %7s\n", part.name, ledger.FormatAmount(part.v), ledger.FormatPercent(share))
	}
}

var breakdownPeriod string

var breakdownCmd = &cobra.Command{
	Use:       "breakdown [metric]",
	Short:     "Explain how a KPI is computed for a period",
	Args:      cobra.ExactArgs(1),
	ValidArgs: metricNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		b, err := c.Breakdown(context.Background(), ledger.Metric(args[0]), ledger.Period(breakdownPeriod))
		if err != nil {
			return err
		}
		if reportJSON {
			return printJSON(b)
		}
		percent := b.Metric == ledger.MetricEBITDAMargin || b.Metric == ledger.MetricGrossMargin
		fmt.Printf("\n  %s (%s)\n\n", b.Metric, b.Period)
		for _, s := range b.Steps {
			label := s.Label
			if s.Sub {
				label = "  " + label
			}
			value := ledger.FormatAmount(s.Value)
			if percent && s.Symbol == "=" {
				value = ledger.FormatPercent(s.Value)
			}
			fmt.Printf("  %2s %-32s %15s\n", s.Symbol, label, value)
		}
		return nil
	},
}

func metricNames() []string {
	names := make([]string, len(ledger.AllMetrics))
	for i, m := range ledger.AllMetrics {
		names[i] = string(m)
	}
	return names
}

var (
	drillRow       int
	drillLine      int
	drillUnmatched bool
	drillPeriod    string
)

var drilldownCmd = &cobra.Command{
	Use:   "drilldown",
	Short: "List the transactions behind a statement row or raw line",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		ctx := context.Background()
		period := ledger.Period(drillPeriod)

		var (
			dd  *ledger.DrillDown
			err error
		)
		switch {
		case drillUnmatched:
			dd, err = c.Unmatched(ctx, period)
		case cmd.Flags().Changed("row"):
			dd, err = c.DrillDownRow(ctx, ledger.RowNumber(drillRow), period)
		case cmd.Flags().Changed("line"):
			dd, err = c.DrillDownLine(ctx, ledger.Line(drillLine), period)
		default:
			return fmt.Errorf("one of --row, --line or --unmatched is required")
		}
		if err != nil {
			return err
		}
		if reportJSON {
			return printJSON(dd)
		}
		if len(dd.Transactions) == 0 {
			fmt.Println("No transactions.")
			return nil
		}
		printTransactions(dd.Transactions)
		fmt.Printf("\n%d transactions, total %s\n", len(dd.Transactions), ledger.FormatCurrency(dd.Total))
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the statement as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		c := client.New(cfg.ServerURL)
		n, err := c.ExportXLSX(context.Background(), reportStart, reportEnd, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(exportOut)
			return err
		}
		fmt.Printf("Wrote %s (%s bytes)\n", exportOut, strconv.FormatInt(n, 10))
		return nil
	},
}

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	pad := (w - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func init() {
	for _, c := range []*cobra.Command{pnlCmd, dashboardCmd, exportCmd} {
		addWindowFlags(c)
	}
	for _, c := range []*cobra.Command{pnlCmd, dashboardCmd, breakdownCmd, drilldownCmd} {
		c.Flags().BoolVar(&reportJSON, "json", false, "Print raw JSON")
	}
	breakdownCmd.Flags().StringVar(&breakdownPeriod, "period", "", "Period (YYYY-MM); defaults to the dashboard anchor month")
	drilldownCmd.Flags().IntVar(&drillRow, "row", 0, "Statement row number")
	drilldownCmd.Flags().IntVar(&drillLine, "line", 0, "Raw line number (1-99)")
	drilldownCmd.Flags().BoolVar(&drillUnmatched, "unmatched", false, "List transactions no rule classifies")
	drilldownCmd.Flags().StringVar(&drillPeriod, "period", "", "Restrict to one period (YYYY-MM)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "pnl.xlsx", "Output file")

	rootCmd.AddCommand(pnlCmd, dashboardCmd, breakdownCmd, drilldownCmd, exportCmd)
}
