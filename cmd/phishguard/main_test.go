package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
	"github.com/bryanwahyu/phishguard/internal/infra/view"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "phishguard" {
		t.Errorf("use = %q", cmd.Use)
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
	want := map[string]bool{"serve": false, "scan": false, "history": false}
	for _, c := range cmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestScanArgs(t *testing.T) {
	cmd := NewScanCmd()
	if err := cmd.Args(cmd, nil); err == nil {
		t.Error("expected error without url")
	}
	if err := cmd.Args(cmd, []string{"https://example.com"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := cmd.Flags().Set("batch", "urls.txt"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Args(cmd, []string{"https://example.com"}); err == nil {
		t.Error("expected error with both --batch and url")
	}
}

func TestPrintResult(t *testing.T) {
	color.NoColor = true
	res := &domain.ScanResult{
		URL:          "https://example.com",
		FinalVerdict: domain.Verdict{Confidence: 0.05, RiskLevel: domain.RiskLow, Message: "Looks safe"},
		NLPAnalysis:  &domain.NLPAnalysis{},
	}
	var buf bytes.Buffer
	printResult(&buf, res.URL, view.NewResultView(res))

	got := buf.String()
	for _, want := range []string{"SAFE", "https://example.com", "Looks safe", "(5.0%)", "Text analysis"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "AI analysis") {
		t.Error("AI line printed without ai_analysis")
	}
}

func TestPrintBatch(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printBatch(&buf, view.NewBatchView([]domain.BatchItem{
		{URL: "https://a.example", Verdict: "phishing", Confidence: 0.9, RiskLevel: domain.RiskHigh},
		{URL: "https://b.example", Error: "timeout"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[0], "phishing") || !strings.Contains(lines[0], "90.0%") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "ERROR") || !strings.Contains(lines[1], "timeout") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteTimeout(t *testing.T) {
	if writeTimeout(0) != 0 {
		t.Error("no scanner timeout means no write timeout")
	}
	if got := writeTimeout(30 * time.Second); got != 45*time.Second {
		t.Errorf("got %v", got)
	}
}
