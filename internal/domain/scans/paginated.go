package scans

// HistoryPage is the response of a history listing
type HistoryPage struct {
	Data  []*HistoryEntry `json:"data"`
	Limit int             `json:"limit"`
	Count int             `json:"count"`
}
