package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

var mappingCmd = &cobra.Command{
	Use:     "mapping",
	Aliases: []string{"mappings"},
	Short:   "Manage the ordered classification rules",
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mapping rules in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		rules, err := c.Mappings(context.Background())
		if err != nil {
			return err
		}
		if reportJSON {
			return printJSON(rules)
		}
		printRules(rules)
		return nil
	},
}

func printRules(rules []ledger.MappingRule) {
	if len(rules) == 0 {
		fmt.Println("No mapping rules.")
		return
	}
	fmt.Printf("%3s %-30s %-30s %4s %-8s %s\n", "#", "COST CENTER", "COUNTERPARTY", "LINE", "KIND", "ACTIVE")
	fmt.Printf("%3s %-30s %-30s %4s %-8s %s\n", "-", "-----------", "------------", "----", "----", "------")
	for i, r := range rules {
		active := "yes"
		if !r.Active {
			active = "no"
		}
		fmt.Printf("%3d %-30s %-30s %4d %-8s %s\n", i+1, truncate(r.CostCenter, 30), truncate(r.Counterparty, 30), r.TargetLine, r.Kind, active)
	}
}

var mappingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		rules, err := c.ResetMappings(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Restored %d default rules.\n", len(rules))
		return nil
	},
}

var mappingApplyCmd = &cobra.Command{
	Use:   "apply [rules.json]",
	Short: "Replace all rules with the JSON array in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read rules: %w", err)
		}
		var rules []ledger.MappingRule
		if err := json.Unmarshal(data, &rules); err != nil {
			return fmt.Errorf("parse rules: %w", err)
		}
		if err := ledger.ValidateRules(rules); err != nil {
			return err
		}

		c := client.New(cfg.ServerURL)
		saved, err := c.ReplaceMappings(context.Background(), rules)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d rules.\n", len(saved))
		return nil
	},
}

func init() {
	mappingListCmd.Flags().BoolVar(&reportJSON, "json", false, "Print raw JSON")
	mappingCmd.AddCommand(mappingListCmd, mappingResetCmd, mappingApplyCmd)
	rootCmd.AddCommand(mappingCmd)
}
