package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryanwahyu/phishguard/internal/domain/scanerrors"
	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = db.Close()
	}
}

func TestHistoryRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewHistoryRepository(setupTestDB(t))
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	entries := []*domain.HistoryEntry{
		{ID: "a", SessionID: "s1", URL: "https://one.example", Mode: domain.ModeSingle, IsPhishing: true, Confidence: 0.9, RiskLevel: domain.RiskHigh, Message: "phishing", CreatedAt: base},
		{ID: "b", SessionID: "s1", URL: "https://two.example", Mode: domain.ModeBatch, Confidence: 0.2, RiskLevel: domain.RiskLow, Message: "safe", CreatedAt: base.Add(time.Minute)},
		{ID: "c", SessionID: "s2", URL: "https://three.example", Mode: domain.ModeSingle, Confidence: 0.1, RiskLevel: domain.RiskLow, Message: "safe", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("save %s: %v", e.ID, err)
		}
	}

	got, err := repo.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("order = %s,%s, want c,b", got[0].ID, got[1].ID)
	}
	if got[1].Mode != domain.ModeBatch || got[1].RiskLevel != domain.RiskLow {
		t.Errorf("entry b = %+v", got[1])
	}

	all, err := repo.Latest(ctx, 0)
	if err != nil {
		t.Fatalf("latest default: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if !all[2].IsPhishing || all[2].Confidence != 0.9 {
		t.Errorf("entry a = %+v", all[2])
	}
}

func TestHistoryRepositoryUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewHistoryRepository(setupTestDB(t))

	e := &domain.HistoryEntry{ID: "x", SessionID: "s", URL: "https://x.example", Mode: domain.ModeSingle, RiskLevel: domain.RiskLow, Message: "safe"}
	if err := repo.Save(ctx, e); err != nil {
		t.Fatal(err)
	}
	e.IsPhishing = true
	e.RiskLevel = domain.RiskHigh
	if err := repo.Save(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Latest(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].IsPhishing || got[0].RiskLevel != domain.RiskHigh {
		t.Errorf("entry not updated: %+v", got[0])
	}
}

func TestScanErrorRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewScanErrorRepository(setupTestDB(t))

	tests := []struct {
		name        string
		in          *scanerrors.ScanError
		wantDetails map[string]any
	}{
		{
			name:        "valid details",
			in:          &scanerrors.ScanError{SessionID: "s1", URL: "https://a.example", Mode: "single", Kind: "request", Message: "server error: 500", DetailsJSON: `{"status_code":500}`},
			wantDetails: map[string]any{"status_code": float64(500)},
		},
		{
			name:        "empty details",
			in:          &scanerrors.ScanError{SessionID: "s1", Mode: "batch", Kind: "request", Message: "timeout"},
			wantDetails: map[string]any{},
		},
		{
			name:        "raw details",
			in:          &scanerrors.ScanError{SessionID: "s1", Mode: "single", Kind: "internal", Message: "boom", DetailsJSON: "not json"},
			wantDetails: map[string]any{"raw": "not json"},
		},
	}
	for _, tt := range tests {
		if err := repo.Save(ctx, tt.in); err != nil {
			t.Fatalf("%s: save: %v", tt.name, err)
		}
		if tt.in.ID == 0 {
			t.Errorf("%s: id not assigned", tt.name)
		}
	}

	got, err := repo.ListBySession(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(tests) {
		t.Fatalf("len = %d, want %d", len(got), len(tests))
	}
	byID := map[int64]*scanerrors.ScanError{}
	for _, e := range got {
		byID[e.ID] = e
	}
	for _, tt := range tests {
		e, ok := byID[tt.in.ID]
		if !ok {
			t.Fatalf("%s: missing row %d", tt.name, tt.in.ID)
		}
		var details map[string]any
		if err := json.Unmarshal([]byte(e.DetailsJSON), &details); err != nil {
			t.Fatalf("%s: details not json: %v", tt.name, err)
		}
		if len(details) != len(tt.wantDetails) {
			t.Errorf("%s: details = %v, want %v", tt.name, details, tt.wantDetails)
		}
		for k, v := range tt.wantDetails {
			if details[k] != v {
				t.Errorf("%s: details[%s] = %v, want %v", tt.name, k, details[k], v)
			}
		}
	}
	if byID[tests[1].in.ID].URL != "-" {
		t.Errorf("empty url stored as %q, want -", byID[tests[1].in.ID].URL)
	}

	other, err := repo.ListBySession(ctx, "s2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("other session rows = %d, want 0", len(other))
	}
}
