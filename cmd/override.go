package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage manual replacements of statement cells",
}

func parseCell(rowArg, periodArg string) (ledger.RowNumber, ledger.Period, error) {
	n, err := strconv.Atoi(rowArg)
	if err != nil {
		return 0, "", fmt.Errorf("invalid row %q", rowArg)
	}
	row := ledger.RowNumber(n)
	if err := ledger.ValidateRow(row); err != nil {
		return 0, "", err
	}
	period, err := ledger.ParsePeriod(periodArg)
	if err != nil {
		return 0, "", err
	}
	return row, period, nil
}

var overrideSetCmd = &cobra.Command{
	Use:   "set [row] [period] [value]",
	Short: "Replace the displayed value of one cell",
	Long:  "Replace the displayed value of one cell. Values accept 1234.56, 1.234,56 or 1,234.56.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, period, err := parseCell(args[0], args[1])
		if err != nil {
			return err
		}
		value, err := ledger.ParseOverrideValue(args[2])
		if err != nil {
			return err
		}

		c := client.New(cfg.ServerURL)
		o, err := c.SetOverride(context.Background(), row, period, value)
		if err != nil {
			return err
		}
		fmt.Printf("Row %d, %s = %s\n", o.Row, o.Period, ledger.FormatAmount(o.Value))
		return nil
	},
}

var overrideAll bool

var overrideClearCmd = &cobra.Command{
	Use:   "clear [row] [period]",
	Short: "Remove one override, or all of them with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		ctx := context.Background()

		if overrideAll {
			n, err := c.ClearOverrides(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d overrides.\n", n)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("expected [row] [period] or --all")
		}
		row, period, err := parseCell(args[0], args[1])
		if err != nil {
			return err
		}
		if err := c.ClearOverride(ctx, row, period); err != nil {
			return err
		}
		fmt.Printf("Cleared row %d, %s\n", row, period)
		return nil
	},
}

var overrideListCmd = &cobra.Command{
	Use:   "list",
	Short: "List overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		list, err := c.Overrides(context.Background())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No overrides.")
			return nil
		}
		fmt.Printf("%4s %-36s %-8s %15s\n", "ROW", "DESCRIPTION", "PERIOD", "VALUE")
		for _, o := range list {
			desc := ""
			if def, ok := ledger.LookupRow(o.Row); ok {
				desc = def.Description
			}
			fmt.Printf("%4d %-36s %-8s %15s\n", o.Row, truncate(desc, 36), o.Period, ledger.FormatAmount(o.Value))
		}
		return nil
	},
}

func init() {
	overrideClearCmd.Flags().BoolVar(&overrideAll, "all", false, "Remove every override")
	overrideCmd.AddCommand(overrideSetCmd, overrideClearCmd, overrideListCmd)
	rootCmd.AddCommand(overrideCmd)
}
