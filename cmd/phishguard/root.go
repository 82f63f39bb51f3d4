package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/phishguard/internal/config"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishguard",
		Short: "Phishing URL scan page and CLI",
		Long: `PhishGuard renders verdicts from a remote phishing scan service.

The web page (serve) and the terminal (scan) both validate input, send one
request per action to the scan service and show its verdict as-is.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config.yaml (default: $CONFIG_PATH, ./config.yaml, XDG config dir)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, resolved, err := config.LoadResolved(path)
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}
	if resolved == "" {
		resolved = "defaults"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", resolved)
	return cfg, nil
}
