package view

import (
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"

	"github.com/bryanwahyu/phishguard/internal/domain/notify"
	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
	"github.com/bryanwahyu/phishguard/internal/domain/stats"
	"github.com/bryanwahyu/phishguard/internal/infra/progress"
)

// PageView is everything the page template binds to
type PageView struct {
	Stats         StatsView
	Form          FormView
	Result        *ResultView
	Batch         *BatchView
	Notifications []notify.Notification
	Steps         []progress.Step
	StepInterval  int64 // ms
}

// FormView keeps what the user typed across a re-render
type FormView struct {
	URL       string
	BatchURLs string
	DeepScan  bool
	APICheck  bool
}

// StatsView is Statistics formatted with thousands separators
type StatsView struct {
	TotalScans    string
	PhishingCount string
	SafeCount     string
	TodayScans    string
}

func NewStatsView(s stats.Statistics) StatsView {
	return StatsView{
		TotalScans:    humanize.Comma(int64(s.TotalScans)),
		PhishingCount: humanize.Comma(int64(s.PhishingCount)),
		SafeCount:     humanize.Comma(int64(s.SafeCount)),
		TodayScans:    humanize.Comma(int64(s.TodayScans)),
	}
}

// ResultView is one single-scan result card
type ResultView struct {
	RiskClass   string
	IsPhishing  bool
	Icon        string
	Message     string
	MeterWidth  string // percent, for the meter style
	Confidence  string // percent, one decimal
	AI          *AIPanel
	API         *APIPanel
	NLP         *NLPPanel
	Site        *SitePanel
	Explanation string
}

type AIPanel struct {
	Verdict    string
	Confidence string
	RiskLevel  string
}

type APIPanel struct {
	VTMalicious  int
	VTTotal      int
	SafeBrowsing string
	OverallRisk  string
}

type NLPPanel struct {
	UrgencyIndicators int
	RiskScore         string
	Sentiment         string
}

type SitePanel struct {
	Title string
	Forms string
	Text  string
}

// Panels counts the detail panels present
func (r ResultView) Panels() int {
	n := 0
	if r.AI != nil {
		n++
	}
	if r.API != nil {
		n++
	}
	if r.NLP != nil {
		n++
	}
	if r.Site != nil {
		n++
	}
	return n
}

// NewResultView maps a payload to its card. A missing section yields a
// nil panel, never an error.
func NewResultView(res *domain.ScanResult) ResultView {
	v := res.FinalVerdict
	out := ResultView{
		RiskClass:  riskClass(v.RiskLevel),
		IsPhishing: v.IsPhishing,
		Icon:       "check-circle",
		Message:    v.Message,
		MeterWidth: percent(v.Confidence),
		Confidence: percent(v.Confidence),
	}
	if v.IsPhishing {
		out.Icon = "exclamation-triangle"
	}

	if ai := res.AIAnalysis; ai != nil {
		out.AI = &AIPanel{
			Verdict:    verdictWord(ai.IsPhishing),
			Confidence: percent(ai.Confidence),
			RiskLevel:  string(ai.RiskLevel),
		}
	}

	if apis := res.APIResults; apis != nil {
		p := &APIPanel{
			SafeBrowsing: "safe",
			OverallRisk:  percent(apis.OverallRisk),
		}
		if vt := apis.VirusTotal; vt != nil {
			p.VTMalicious = vt.Malicious
			p.VTTotal = vt.TotalEngines
		}
		if gsb := apis.SafeBrowsing; gsb != nil && gsb.IsThreat {
			p.SafeBrowsing = "threat"
		}
		out.API = p
	}

	if nlp := res.NLPAnalysis; nlp != nil {
		p := &NLPPanel{RiskScore: percent(0), Sentiment: "positive"}
		if pp := nlp.PhishingPatterns; pp != nil {
			p.UrgencyIndicators = pp.UrgencyIndicators
			p.RiskScore = percent(pp.PhishingRiskScore)
		}
		if s := nlp.Sentiment; s != nil && s.IsNegative {
			p.Sentiment = "negative"
		}
		out.NLP = p
	}

	if site := res.WebsiteContent; site != nil {
		p := &SitePanel{Title: site.Title, Forms: "absent", Text: "not available"}
		if p.Title == "" {
			p.Title = "not available"
		}
		if site.HasForms {
			p.Forms = "present"
		}
		if site.TextPreview != "" {
			p.Text = "extracted"
		}
		out.Site = p
	}
	return out
}

// BatchView lists batch items in submission order
type BatchView struct {
	Items []BatchItemView
}

type BatchItemView struct {
	URL        string
	RiskClass  string
	RiskLevel  string
	Badge      string
	Confidence string
	Error      string
}

func NewBatchView(items []domain.BatchItem) BatchView {
	out := BatchView{Items: make([]BatchItemView, 0, len(items))}
	for _, it := range items {
		it = it.Normalize()
		iv := BatchItemView{
			URL:       it.URL,
			RiskLevel: string(it.RiskLevel),
		}
		if it.Failed() {
			iv.RiskClass = riskClass(domain.RiskMedium)
			iv.Badge = "error"
			iv.Error = it.Error
		} else {
			iv.RiskClass = riskClass(it.RiskLevel)
			iv.Badge = it.Verdict
			iv.Confidence = percent(it.Confidence)
		}
		out.Items = append(out.Items, iv)
	}
	return out
}

// helper

func riskClass(l domain.RiskLevel) string {
	return "verdict-" + string(l)
}

func percent(f float64) string {
	switch {
	case f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	return fmt.Sprintf("%.1f", f*100)
}

func verdictWord(phishing bool) string {
	if phishing {
		return "phishing"
	}
	return "safe"
}

// Fragment is rendered HTML ready to embed
type Fragment = template.HTML
