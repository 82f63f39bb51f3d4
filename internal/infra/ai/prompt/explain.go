package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/phishguard/internal/domain/scans"
)

const systemPrompt = `You explain phishing scan verdicts to non-technical users.
You receive the JSON verdict already produced by a scanning service.
Never change or second-guess the verdict, the confidence or the risk level.
Answer in plain text, at most three short sentences, no markdown.
Mention the strongest signals present in the JSON (AI verdict, reputation
engines, urgency language, forms on the page) and what the user should do.`

// GetSystemPrompt returns the fixed instruction for the explanation model
func GetSystemPrompt() string { return systemPrompt }

// GetUserPrompt embeds the verdict JSON. Raw page text is left out.
func GetUserPrompt(result *scans.ScanResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nil scan result")
	}
	view := *result
	if view.WebsiteContent != nil {
		site := *view.WebsiteContent
		site.TextPreview = ""
		view.WebsiteContent = &site
	}
	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Explain this verdict for %s:\n\n%s", result.URL, b), nil
}
