package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/server"
	"github.com/simonvc/minipnl/internal/store"
	"github.com/simonvc/minipnl/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long:  "Launch the terminal UI. Without --server an embedded server is started on a free local port.",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverAddr := cfg.ServerURL

		if !cmd.Flags().Changed("server") {
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			defer ln.Close()

			// Request logs would draw over the alternate screen.
			log = zerolog.Nop()
			srv := server.New(st, ln.Addr().String(), serverOptions()...)
			go srv.Serve(ln)
			serverAddr = "http://" + ln.Addr().String()

			if err := waitForServer(client.New(serverAddr), 5*time.Second); err != nil {
				return err
			}
		}

		app := tui.NewApp(client.New(serverAddr))
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func waitForServer(c *client.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for {
		if err := c.Ping(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("timeout waiting for embedded server")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
