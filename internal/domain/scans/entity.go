package scans

import (
	"time"
)

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Mode enum, which path a scan went through
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// Verdict is the final classification returned by the scan service
type Verdict struct {
	IsPhishing bool      `json:"is_phishing"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Message    string    `json:"message"`
}

// AIAnalysis value object
type AIAnalysis struct {
	IsPhishing bool      `json:"is_phishing"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

type VirusTotal struct {
	Malicious    int     `json:"malicious"`
	Suspicious   int     `json:"suspicious"`
	Harmless     int     `json:"harmless"`
	TotalEngines int     `json:"total_engines"`
	RiskScore    float64 `json:"risk_score"`
	Error        string  `json:"error,omitempty"`
}

type SafeBrowsing struct {
	IsThreat    bool     `json:"is_threat"`
	ThreatTypes []string `json:"threat_types,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type URLScan struct {
	Malicious bool    `json:"malicious"`
	Score     float64 `json:"score"`
	Error     string  `json:"error,omitempty"`
}

// APIResults is the external reputation aggregate
type APIResults struct {
	VirusTotal   *VirusTotal   `json:"virustotal,omitempty"`
	SafeBrowsing *SafeBrowsing `json:"google_safebrowsing,omitempty"`
	URLScan      *URLScan      `json:"urlscan,omitempty"`
	OverallRisk  float64       `json:"overall_risk"`
}

type PhishingPatterns struct {
	UrgencyIndicators int     `json:"urgency_indicators"`
	AuthorityClaims   int     `json:"authority_claims"`
	RewardPromises    int     `json:"reward_promises"`
	Threats           int     `json:"threats"`
	PersonalRequests  int     `json:"personal_requests"`
	PhishingRiskScore float64 `json:"phishing_risk_score"`
}

type Sentiment struct {
	Label      string `json:"label,omitempty"`
	IsNegative bool   `json:"is_negative"`
}

// NLPAnalysis holds text signals extracted from the page
type NLPAnalysis struct {
	PhishingPatterns *PhishingPatterns `json:"phishing_patterns,omitempty"`
	Sentiment        *Sentiment        `json:"sentiment,omitempty"`
}

// WebsiteContent holds site metadata
type WebsiteContent struct {
	Title       string `json:"title"`
	TextPreview string `json:"text_preview"`
	HasForms    bool   `json:"has_forms"`
}

// ScanResult is the payload of a single scan. Every section except the
// verdict may be absent.
type ScanResult struct {
	URL            string          `json:"url,omitempty"`
	Timestamp      string          `json:"timestamp,omitempty"`
	FinalVerdict   Verdict         `json:"final_verdict"`
	AIAnalysis     *AIAnalysis     `json:"ai_analysis,omitempty"`
	APIResults     *APIResults     `json:"api_results,omitempty"`
	NLPAnalysis    *NLPAnalysis    `json:"nlp_analysis,omitempty"`
	WebsiteContent *WebsiteContent `json:"website_content,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// BatchItem is one URL of a batch: either a verdict or an error
type BatchItem struct {
	URL          string    `json:"url"`
	Verdict      string    `json:"verdict,omitempty"`
	Confidence   float64   `json:"confidence"`
	RiskLevel    RiskLevel `json:"risk_level,omitempty"`
	IsPhishing   *bool     `json:"is_phishing,omitempty"`
	FinalVerdict *Verdict  `json:"final_verdict,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Failed reports whether the service could not scan this URL
func (b BatchItem) Failed() bool { return b.Error != "" }

// Normalize folds a full final_verdict into the flat fields, so renderers
// only look at one place.
func (b BatchItem) Normalize() BatchItem {
	if b.FinalVerdict == nil {
		return b
	}
	v := *b.FinalVerdict
	if b.RiskLevel == "" {
		b.RiskLevel = v.RiskLevel
	}
	if b.Confidence == 0 {
		b.Confidence = v.Confidence
	}
	if b.Verdict == "" {
		b.Verdict = v.Message
	}
	if b.IsPhishing == nil {
		p := v.IsPhishing
		b.IsPhishing = &p
	}
	return b
}

// BatchResult keeps the order of the submitted URLs
type BatchResult struct {
	Results []BatchItem `json:"results"`
	Error   string      `json:"error,omitempty"`
}

// HistoryEntry is an audit row for one completed scan
type HistoryEntry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	URL        string    `json:"url"`
	Mode       Mode      `json:"mode"`
	IsPhishing bool      `json:"is_phishing"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
