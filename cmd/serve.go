package cmd

import (
	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/insights"
	"github.com/simonvc/minipnl/internal/server"
	"github.com/simonvc/minipnl/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(st, addr, serverOptions()...)
		return srv.ListenAndServe()
	},
}

// serverOptions wires the logger and, when a key is configured, the
// insights generator.
func serverOptions() []server.Option {
	opts := []server.Option{server.WithLogger(log)}
	if cfg.InsightsEnabled() {
		opts = append(opts, server.WithInsights(insights.NewGemini(insights.Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.InsightsModel,
			Timeout: cfg.InsightsTimeout,
			Logger:  log,
		})))
		log.Info().Str("model", cfg.InsightsModel).Msg("insights enabled")
	}
	return opts
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (env MINIPNL_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
