package scans

// ScanRequest is sent to the scan service for one URL
type ScanRequest struct {
	URL      string `json:"url"`
	DeepScan bool   `json:"deepScan"`
	APICheck bool   `json:"apiCheck"`
}

// BatchRequest is sent to the scan service for several URLs
type BatchRequest struct {
	URLs []string `json:"urls"`
}
