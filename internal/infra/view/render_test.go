package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bryanwahyu/phishguard/internal/domain/notify"
	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
	"github.com/bryanwahyu/phishguard/internal/domain/stats"
	"github.com/bryanwahyu/phishguard/internal/infra/progress"
)

func fullResult() *domain.ScanResult {
	return &domain.ScanResult{
		URL: "https://login-paypa1.example",
		FinalVerdict: domain.Verdict{
			IsPhishing: true,
			Confidence: 0.823,
			RiskLevel:  domain.RiskHigh,
			Message:    "High risk phishing!",
		},
		AIAnalysis: &domain.AIAnalysis{IsPhishing: true, Confidence: 0.9, RiskLevel: domain.RiskHigh},
		APIResults: &domain.APIResults{
			VirusTotal:   &domain.VirusTotal{Malicious: 7, TotalEngines: 90},
			SafeBrowsing: &domain.SafeBrowsing{IsThreat: true},
			OverallRisk:  0.75,
		},
		NLPAnalysis: &domain.NLPAnalysis{
			PhishingPatterns: &domain.PhishingPatterns{UrgencyIndicators: 3, PhishingRiskScore: 0.5},
			Sentiment:        &domain.Sentiment{IsNegative: true},
		},
		WebsiteContent: &domain.WebsiteContent{Title: "Log in", TextPreview: "...", HasForms: true},
	}
}

func TestNewResultView(t *testing.T) {
	v := NewResultView(fullResult())

	if v.RiskClass != "verdict-high" || v.Icon != "exclamation-triangle" {
		t.Errorf("unexpected header %+v", v)
	}
	if v.Confidence != "82.3" || v.MeterWidth != "82.3" {
		t.Errorf("unexpected confidence %q / %q", v.Confidence, v.MeterWidth)
	}
	if v.Panels() != 4 {
		t.Fatalf("expected 4 panels, got %d", v.Panels())
	}
	if v.API.VTMalicious != 7 || v.API.VTTotal != 90 || v.API.SafeBrowsing != "threat" || v.API.OverallRisk != "75.0" {
		t.Errorf("unexpected api panel %+v", v.API)
	}
	if v.NLP.UrgencyIndicators != 3 || v.NLP.RiskScore != "50.0" || v.NLP.Sentiment != "negative" {
		t.Errorf("unexpected nlp panel %+v", v.NLP)
	}
	if v.Site.Forms != "present" || v.Site.Text != "extracted" {
		t.Errorf("unexpected site panel %+v", v.Site)
	}
}

func TestNewResultViewVerdictOnly(t *testing.T) {
	v := NewResultView(&domain.ScanResult{
		FinalVerdict: domain.Verdict{Confidence: 1.7, RiskLevel: domain.RiskLow, Message: "safe"},
	})
	if v.Panels() != 0 {
		t.Errorf("expected no panels, got %d", v.Panels())
	}
	if v.Icon != "check-circle" {
		t.Errorf("unexpected icon %q", v.Icon)
	}
	if v.Confidence != "100.0" {
		t.Errorf("confidence should be clamped, got %q", v.Confidence)
	}
}

func TestNewResultViewPartialSections(t *testing.T) {
	v := NewResultView(&domain.ScanResult{
		APIResults:     &domain.APIResults{},
		NLPAnalysis:    &domain.NLPAnalysis{},
		WebsiteContent: &domain.WebsiteContent{},
	})
	if v.API.VTTotal != 0 || v.API.SafeBrowsing != "safe" {
		t.Errorf("unexpected api panel %+v", v.API)
	}
	if v.NLP.RiskScore != "0.0" || v.NLP.Sentiment != "positive" {
		t.Errorf("unexpected nlp panel %+v", v.NLP)
	}
	if v.Site.Title != "not available" || v.Site.Forms != "absent" || v.Site.Text != "not available" {
		t.Errorf("unexpected site panel %+v", v.Site)
	}
}

func TestRenderResult(t *testing.T) {
	r := MustRenderer()

	t.Run("all panels", func(t *testing.T) {
		html, err := r.Result(fullResult(), "")
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		s := string(html)
		for _, want := range []string{`data-panel="ai"`, `data-panel="api"`, `data-panel="nlp"`, `data-panel="site"`, `width: 82.3%`, "verdict-high"} {
			if !strings.Contains(s, want) {
				t.Errorf("expected %q in output", want)
			}
		}
		if strings.Contains(s, `data-panel="explanation"`) {
			t.Error("explanation panel should be absent")
		}
	})

	t.Run("missing nlp omits panel", func(t *testing.T) {
		res := fullResult()
		res.NLPAnalysis = nil
		html, err := r.Result(res, "")
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if strings.Contains(string(html), `data-panel="nlp"`) {
			t.Error("nlp panel should be omitted")
		}
		if !strings.Contains(string(html), `data-panel="ai"`) {
			t.Error("ai panel should still be rendered")
		}
	})

	t.Run("escapes service strings", func(t *testing.T) {
		res := fullResult()
		res.FinalVerdict.Message = `<script>alert(1)</script>`
		res.WebsiteContent.Title = `<img src=x onerror=alert(1)>`
		html, err := r.Result(res, "explained")
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		s := string(html)
		if strings.Contains(s, "<script>") || strings.Contains(s, "<img") {
			t.Error("payload strings must be escaped")
		}
		if !strings.Contains(s, `data-panel="explanation"`) {
			t.Error("explanation panel expected")
		}
	})
}

func TestRenderBatch(t *testing.T) {
	html, err := MustRenderer().Batch([]domain.BatchItem{
		{URL: "https://a.example", Verdict: "safe", Confidence: 0.64, RiskLevel: domain.RiskLow},
		{URL: "https://b.example", Error: "connection refused"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(html)
	ia := strings.Index(s, "https://a.example")
	ib := strings.Index(s, "https://b.example")
	if ia < 0 || ib < 0 || ia > ib {
		t.Error("items should appear in submission order")
	}
	for _, want := range []string{"verdict-low", "verdict-medium", "connection refused", "Confidence: 64.0%"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestRenderToast(t *testing.T) {
	html, err := MustRenderer().Toast(notify.New(notify.Error, "scan failed: server error: 500"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(html)
	for _, want := range []string{"notification-error", "#dc3545", "exclamation-circle", `data-duration="5000"`, "scan failed: server error: 500"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := MustRenderer().Page(&buf, PageView{
		Stats:         NewStatsView(stats.Placeholder()),
		Form:          FormView{URL: "https://a.example", DeepScan: true},
		Notifications: []notify.Notification{notify.New(notify.Warning, "please enter a URL to scan")},
		Steps:         progress.DefaultSteps(),
		StepInterval:  800,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := buf.String()
	for _, want := range []string{"1,247", "1,158", `value="https://a.example"`, "notification-warning", `id="resultSection" hidden`, "Validating URL", `0/<span class="batch-count">0</span>`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestStatic(t *testing.T) {
	fsys, err := Static()
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	for _, name := range []string{"/app.js", "/style.css"} {
		f, err := fsys.Open(name)
		if err != nil {
			t.Errorf("open %s: %v", name, err)
			continue
		}
		f.Close()
	}
}
