package ai

import (
	"context"
	"strings"

	"github.com/bryanwahyu/phishguard/internal/domain/ai"
	"github.com/bryanwahyu/phishguard/internal/domain/scans"
)

// Service wraps an Explainer. A nil *Service explains nothing.
type Service struct {
	client ai.Explainer
}

func NewService(client ai.Explainer) *Service {
	return &Service{client: client}
}

// Enabled reports whether explanations can be produced
func (s *Service) Enabled() bool { return s != nil && s.client != nil }

func (s *Service) Explain(ctx context.Context, result *scans.ScanResult) (string, error) {
	if !s.Enabled() || result == nil {
		return "", nil
	}
	text, err := s.client.Explain(ctx, result)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ai.ErrEmptyExplanation
	}
	return text, nil
}
