package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/simonvc/minipnl/internal/client"
)

var (
	insightsAPIKey string
	insightsRaw    bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Ask the configured model for commentary on the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.ServerURL)
		res, err := c.Insights(context.Background(), client.InsightsRequest{
			APIKey:    insightsAPIKey,
			StartDate: reportStart,
			EndDate:   reportEnd,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Insights for %s\n\n", res.AnchorPeriod)
		if insightsRaw {
			fmt.Println(res.Insights)
			return nil
		}
		out, err := renderMarkdown(res.Insights)
		if err != nil {
			log.Debug().Err(err).Msg("markdown render failed, printing raw text")
			fmt.Println(res.Insights)
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func init() {
	addWindowFlags(insightsCmd)
	insightsCmd.Flags().StringVar(&insightsAPIKey, "api-key", "", "Gemini API key for this request, if the server has none")
	insightsCmd.Flags().BoolVar(&insightsRaw, "raw", false, "print the model's Markdown without rendering")
	rootCmd.AddCommand(insightsCmd)
}
