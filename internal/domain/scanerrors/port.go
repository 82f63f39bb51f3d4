package scanerrors

import (
	"context"
)

// Repository defines persistence for scan errors
type Repository interface {
	Save(ctx context.Context, e *ScanError) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*ScanError, error)
}
