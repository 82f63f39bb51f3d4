package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	appscans "github.com/bryanwahyu/phishguard/internal/application/scans"
	"github.com/bryanwahyu/phishguard/internal/infra/session"
	"github.com/bryanwahyu/phishguard/internal/infra/view"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] URL",
		Short: "Scan one URL, or a file of URLs with --batch",
		Long: `Scan sends the URL to the scan service and prints its verdict.

Examples:
  phishguard scan https://example.com
  phishguard scan --deep=false https://example.com
  phishguard scan --batch urls.txt`,
		Args: func(cmd *cobra.Command, args []string) error {
			batch, _ := cmd.Flags().GetString("batch")
			if batch != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: runScan,
	}
	cmd.Flags().StringP("batch", "b", "", "File with one URL per line (max 10)")
	cmd.Flags().Bool("deep", true, "Request a deep scan")
	cmd.Flags().Bool("api", true, "Request reputation API checks")
	cmd.Flags().BoolP("no-color", "n", false, "Disable colorized output")
	cmd.Flags().Bool("no-progress", false, "Disable the spinner")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := buildApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sess := session.NewStore().Create()
	out := cmd.OutOrStdout()
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	if path, _ := cmd.Flags().GetString("batch"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var res appscans.BatchOutcome
		err = withSpinner(cmd.Context(), cmd.ErrOrStderr(), !noProgress, "Scanning batch", func(ctx context.Context) error {
			var err error
			res, err = a.svc.BatchScan(ctx, sess, string(raw))
			return err
		})
		if err != nil {
			return failure(a.svc, err, "batch scan failed")
		}
		printBatch(out, view.NewBatchView(res.Results))
		return nil
	}

	deep, _ := cmd.Flags().GetBool("deep")
	api, _ := cmd.Flags().GetBool("api")
	var res appscans.ScanOutcome
	err = withSpinner(cmd.Context(), cmd.ErrOrStderr(), !noProgress, "Scanning "+args[0], func(ctx context.Context) error {
		var err error
		res, err = a.svc.Scan(ctx, sess, appscans.ScanCommand{URL: args[0], DeepScan: deep, APICheck: api})
		return err
	})
	if err != nil {
		return failure(a.svc, err, "scan failed")
	}
	rv := view.NewResultView(res.Result)
	rv.Explanation = res.Explanation
	printResult(out, res.Result.URL, rv)
	return nil
}

// withSpinner runs fn while an indeterminate bar spins on w
func withSpinner(ctx context.Context, w io.Writer, enabled bool, desc string, fn func(context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]"+desc+"[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	tk := time.NewTicker(100 * time.Millisecond)
	defer tk.Stop()
	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-tk.C:
			_ = bar.Add(1)
		}
	}
}

func failure(svc *appscans.Service, err error, prefix string) error {
	n := svc.NotificationFor(err, prefix)
	return fmt.Errorf("%s", n.Message)
}

func printResult(w io.Writer, url string, r view.ResultView) {
	label := green("SAFE")
	if r.IsPhishing {
		label = red("PHISHING")
	}
	fmt.Fprintf(w, "%s  %s\n", label, url)
	fmt.Fprintf(w, "  %s %s\n", riskColor(r.RiskClass, r.Message), cyan("("+r.Confidence+"%)"))

	if p := r.AI; p != nil {
		fmt.Fprintf(w, "  AI analysis:     %s, %s%%, %s\n", p.Verdict, p.Confidence, p.RiskLevel)
	}
	if p := r.API; p != nil {
		fmt.Fprintf(w, "  External checks: VirusTotal %d/%d, Safe Browsing %s, risk %s%%\n",
			p.VTMalicious, p.VTTotal, p.SafeBrowsing, p.OverallRisk)
	}
	if p := r.NLP; p != nil {
		fmt.Fprintf(w, "  Text analysis:   %d urgency patterns, risk %s%%, %s\n",
			p.UrgencyIndicators, p.RiskScore, p.Sentiment)
	}
	if p := r.Site; p != nil {
		fmt.Fprintf(w, "  Site:            %q, forms %s, text %s\n", p.Title, p.Forms, p.Text)
	}
	if r.Explanation != "" {
		fmt.Fprintf(w, "\n  %s\n", r.Explanation)
	}
}

func printBatch(w io.Writer, b view.BatchView) {
	for _, it := range b.Items {
		if it.Error != "" {
			fmt.Fprintf(w, "%s  %s  %s\n", yellow("ERROR"), it.URL, it.Error)
			continue
		}
		fmt.Fprintf(w, "%s  %s  %s%%\n", riskColor(it.RiskClass, it.Badge), it.URL, it.Confidence)
	}
}

func riskColor(class, text string) string {
	switch class {
	case "verdict-high":
		return red(text)
	case "verdict-medium":
		return yellow(text)
	default:
		return green(text)
	}
}
