package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyExplanation is returned when the provider answers with no text.
var ErrEmptyExplanation = errors.New("ai returned an empty explanation")
