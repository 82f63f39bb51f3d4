package scans

import (
	"net/url"
	"strings"
)

// IsValidURL accepts absolute http(s) URLs with a host
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ValidateURL checks the single-scan field and returns the trimmed URL
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", warn(ErrEmptyURL)
	}
	if !IsValidURL(s) {
		return "", invalid(ErrInvalidURL)
	}
	return s, nil
}

// ParseBatch splits the batch textarea into valid URLs, dropping blank
// and malformed lines. Order is preserved.
func ParseBatch(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, warn(ErrEmptyBatch)
	}

	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !IsValidURL(line) {
			continue
		}
		urls = append(urls, line)
	}

	if len(urls) == 0 {
		return nil, invalid(ErrNoValidURLs)
	}
	if len(urls) > MaxBatchURLs {
		return nil, warn(ErrBatchTooLarge)
	}
	return urls, nil
}
