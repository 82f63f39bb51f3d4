package session

import (
	"context"
	"log"
	"time"
)

// RunJanitor evicts idle sessions every interval until ctx is done
func (s *Store) RunJanitor(ctx context.Context, interval, maxAge time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.CleanupExpired(maxAge); n > 0 {
				log.Printf("session cleanup: removed=%d active=%d", n, s.Active())
			}
		}
	}
}
