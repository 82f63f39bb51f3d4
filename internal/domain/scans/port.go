package scans

import "context"

// Scanner port (remote scanning service)
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (*ScanResult, error)
	BatchScan(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

// HistoryRepository port (audit log of completed scans)
type HistoryRepository interface {
	Save(ctx context.Context, e *HistoryEntry) error
	Latest(ctx context.Context, limit int) ([]*HistoryEntry, error)
}

// ShareStore port (publishes a result and returns a link to it)
type ShareStore interface {
	Share(ctx context.Context, key string, payload []byte) (string, error)
}
