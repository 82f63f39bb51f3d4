// Package progress drives the cosmetic loading animation.
//
// The ticker is not connected to the scan request in any way. It walks the
// steps on a fixed interval and says nothing about how far the remote
// service actually got.
package progress

import (
	"context"
	"time"
)

// DefaultInterval between step activations
const DefaultInterval = 800 * time.Millisecond

// Step is one label of the loading narrative
type Step struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// DefaultSteps returns the four loading steps; the first starts active
func DefaultSteps() []Step {
	return []Step{
		{Label: "Validating URL", Icon: "check", Active: true},
		{Label: "AI analysis", Icon: "robot"},
		{Label: "Database lookups", Icon: "globe"},
		{Label: "Analysing results", Icon: "chart-bar"},
	}
}

// Tick is emitted each time a step becomes active
type Tick struct {
	Index int `json:"step"`
	Total int `json:"total"`
}

// Ticker emits Total ticks, Interval apart, then closes its channel
type Ticker struct {
	Interval time.Duration
	Total    int
}

func NewTicker(total int, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{Interval: interval, Total: total}
}

// Run starts the ticker. The channel is closed after the last step or
// when ctx is done.
func (t *Ticker) Run(ctx context.Context) <-chan Tick {
	out := make(chan Tick)
	go func() {
		defer close(out)
		tk := time.NewTicker(t.Interval)
		defer tk.Stop()

		for i := 0; i < t.Total; i++ {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- Tick{Index: i, Total: t.Total}:
			}
		}
	}()
	return out
}
