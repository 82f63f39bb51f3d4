// Package stats holds the per-session scan tally shown on the page.
//
// The numbers are display state only. They start from a fixed placeholder
// snapshot, move with the session's own scans and are never persisted or
// reconciled with any server-side history.
package stats

// Statistics is the AppStatisticsView
type Statistics struct {
	TotalScans    int `json:"totalScans"`
	PhishingCount int `json:"phishingCount"`
	SafeCount     int `json:"safeCount"`
	TodayScans    int `json:"todayScans"`
}

// Placeholder returns the snapshot every session starts from
func Placeholder() Statistics {
	return Statistics{
		TotalScans:    1247,
		PhishingCount: 89,
		SafeCount:     1158,
		TodayScans:    23,
	}
}

// Record counts one completed single scan
func (s *Statistics) Record(isPhishing bool) {
	s.TotalScans++
	s.TodayScans++
	if isPhishing {
		s.PhishingCount++
	} else {
		s.SafeCount++
	}
}
