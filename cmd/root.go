package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/config"
	"github.com/simonvc/minipnl/internal/logger"
)

var (
	flagServer   string
	flagDB       string
	flagLogLevel string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minipnl",
	Short: "Monthly profit & loss statements from a general-ledger export",
	Long: "Ingests an accounting-system CSV export, classifies each transaction with ordered " +
		"mapping rules and builds a monthly P&L with dashboard KPIs, drill-downs and manual overrides.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		flags := cmd.Flags()
		if flags.Changed("server") {
			cfg.ServerURL = flagServer
		}
		if flags.Changed("db") {
			cfg.DBPath = flagDB
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = flagLogLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		flagServer, flagDB = cfg.ServerURL, cfg.DBPath

		var err error
		log, err = logger.NewLevel(cfg.LogLevel)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8080", "Server address (env MINIPNL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "minipnl.db", "SQLite database path (env MINIPNL_DB)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (env MINIPNL_LOG_LEVEL)")
}

func Execute() error {
	return rootCmd.Execute()
}
