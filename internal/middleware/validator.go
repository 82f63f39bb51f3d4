package middleware

import (
	"strings"
)

// Input sanitization and parameter clamping

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateSteps clamps the progress step count
func ValidateSteps(steps int) int {
	if steps <= 0 {
		return 4
	}
	if steps > 16 {
		return 16
	}
	return steps
}

// ValidateInterval clamps the progress interval in milliseconds
func ValidateInterval(ms int) int {
	if ms <= 0 {
		return 800
	}
	if ms < 100 {
		return 100
	}
	if ms > 10000 {
		return 10000
	}
	return ms
}

// FormBool reads an HTML checkbox value
func FormBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
