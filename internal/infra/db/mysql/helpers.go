package mysql

import (
	"encoding/json"
	"strings"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// jsonOrEmpty ensures details is valid JSON; invalid input is wrapped as {"raw": ...}
func jsonOrEmpty(details string) string {
	if strings.TrimSpace(details) == "" {
		return "{}"
	}
	var js any
	if json.Unmarshal([]byte(details), &js) != nil {
		b, _ := json.Marshal(map[string]string{"raw": details})
		return string(b)
	}
	return details
}
