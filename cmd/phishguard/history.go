package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/phishguard/internal/middleware"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans from the history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			page, err := a.svc.History(cmd.Context(), middleware.ValidateLimit(limit))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range page.Data {
				label := green("safe    ")
				if e.IsPhishing {
					label = red("phishing")
				}
				fmt.Fprintf(out, "%s  %-6s  %5.1f%%  %-12s  %s\n",
					label, e.Mode, e.Confidence*100, humanize.Time(e.CreatedAt), e.URL)
			}
			fmt.Fprintf(out, "%d entries\n", page.Count)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 20, "Number of entries (1-100)")
	return cmd
}
