package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file.csv]",
	Short: "Upload a ledger CSV export, replacing the loaded transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer f.Close()

		c := client.New(cfg.ServerURL)
		res, err := c.Upload(context.Background(), filepath.Base(args[0]), f)
		if err != nil {
			return err
		}

		sep := res.Separator
		if sep == "\t" {
			sep = "tab"
		}
		fmt.Printf("Batch %s: %s\n", res.Batch.ID, res.Batch.Filename)
		fmt.Printf("Encoding: %s, separator: %q\n", res.Encoding, sep)
		fmt.Printf("Rows: %d read, %d loaded, %d skipped\n", res.Rows, res.Batch.Rows, res.Skipped)
		return nil
	},
}

var (
	txnPeriod     string
	txnCostCenter string
	txnLimit      int
	txnOffset     int
)

var transactionCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"txn"},
	Short:   "List loaded transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		txs, err := c.ListTransactions(context.Background(), client.TxnQuery{
			Period:     ledger.Period(txnPeriod),
			CostCenter: txnCostCenter,
			Limit:      txnLimit,
			Offset:     txnOffset,
		})
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}
		printTransactions(txs)
		return nil
	},
}

func printTransactions(txs []ledger.Transaction) {
	fmt.Printf("%-10s %15s  %-32s %s\n", "DATE", "AMOUNT", "COST CENTER", "COUNTERPARTY")
	fmt.Printf("%-10s %15s  %-32s %s\n", "----", "------", "-----------", "------------")
	for _, t := range txs {
		fmt.Printf("%-10s %15s  %-32s %s\n",
			t.Date.Format(ledger.DateLayout), ledger.FormatAmount(t.Amount), truncate(t.CostCenter, 32), t.Counterparty)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-2]) + ".."
}

func init() {
	transactionCmd.Flags().StringVar(&txnPeriod, "period", "", "Filter by period (YYYY-MM)")
	transactionCmd.Flags().StringVar(&txnCostCenter, "cost-center", "", "Filter by cost center")
	transactionCmd.Flags().IntVar(&txnLimit, "limit", 0, "Maximum rows (0 = all)")
	transactionCmd.Flags().IntVar(&txnOffset, "offset", 0, "Rows to skip")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(transactionCmd)
}
