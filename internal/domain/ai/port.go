package ai

import (
	"context"

	"github.com/bryanwahyu/phishguard/internal/domain/scans"
)

// Explainer turns an already computed result into a short plain-language note
type Explainer interface {
	Explain(ctx context.Context, result *scans.ScanResult) (string, error)
}
