package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
)

const (
	DefaultScanPath  = "/advanced-scan"
	DefaultBatchPath = "/batch-advanced-scan"

	maxBodyBytes = 4 << 20
)

// Client talks to the remote scanning service. One attempt per call,
// no retry and no backoff.
type Client struct {
	http      *http.Client
	baseURL   string
	scanPath  string
	batchPath string
	timeout   time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPaths overrides the endpoint paths; empty values keep the defaults
func WithPaths(scan, batch string) Option {
	return func(c *Client) {
		if scan != "" {
			c.scanPath = scan
		}
		if batch != "" {
			c.batchPath = batch
		}
	}
}

// WithTimeout bounds each request; zero means no timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		baseURL:   strings.TrimRight(baseURL, "/"),
		scanPath:  DefaultScanPath,
		batchPath: DefaultBatchPath,
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	return c
}

// Scan implementasi domain.Scanner
func (c *Client) Scan(ctx context.Context, req domain.ScanRequest) (*domain.ScanResult, error) {
	var res domain.ScanResult
	if err := c.post(ctx, c.scanPath, req, &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &domain.RequestError{Endpoint: c.scanPath, Message: res.Error}
	}
	if res.FinalVerdict.RiskLevel == "" {
		return nil, &domain.RequestError{Endpoint: c.scanPath, Message: "invalid response: missing final verdict"}
	}
	return &res, nil
}

// BatchScan implementasi domain.Scanner
func (c *Client) BatchScan(ctx context.Context, req domain.BatchRequest) (*domain.BatchResult, error) {
	var res domain.BatchResult
	if err := c.post(ctx, c.batchPath, req, &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &domain.RequestError{Endpoint: c.batchPath, Message: res.Error}
	}
	return &res, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return &domain.RequestError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RequestError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain supaya koneksi bisa dipakai ulang
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &domain.RequestError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &domain.RequestError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
