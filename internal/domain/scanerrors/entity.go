package scanerrors

import "time"

// ScanError represents a persisted failed scan attempt
type ScanError struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	URL         string    `json:"url,omitempty"`
	Mode        string    `json:"mode,omitempty"` // single | batch
	Kind        string    `json:"kind"`           // validation | request | internal
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
