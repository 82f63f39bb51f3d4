package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/phishguard/internal/application"
	appai "github.com/bryanwahyu/phishguard/internal/application/ai"
	"github.com/bryanwahyu/phishguard/internal/domain/notify"
	"github.com/bryanwahyu/phishguard/internal/domain/scanerrors"
	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
	"github.com/bryanwahyu/phishguard/internal/domain/stats"
)

var (
	// ErrNothingToShare is returned when the session has no single-scan result yet
	ErrNothingToShare = errors.New("scan a URL before sharing the result")
	// ErrSharingDisabled is returned when no share store is configured
	ErrSharingDisabled = errors.New("sharing is not available yet")
)

// Session is the per-browser state the controller reads and updates.
// Statistics only move through RecordScan.
type Session interface {
	ID() string
	Stats() stats.Statistics
	RecordScan(isPhishing bool) stats.Statistics
	SetLastResult(r *domain.ScanResult)
	LastResult() *domain.ScanResult
}

// Service implements the scan UI use-cases.
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Scanner   domain.Scanner
	Histories domain.HistoryRepository // optional
	Errors    scanerrors.Repository    // optional
	Shares    domain.ShareStore        // optional
	Explainer *appai.Service           // optional
	Clock     application.Clock

	// ToastDuration overrides notify.DefaultDuration when set
	ToastDuration time.Duration
}

//
// ==== USE CASES ====
//

// ScanCommand is one submission of the single-URL form
type ScanCommand struct {
	URL      string
	DeepScan bool
	APICheck bool
}

// ScanOutcome is what the page needs after a successful single scan
type ScanOutcome struct {
	Result      *domain.ScanResult
	Explanation string
	Stats       stats.Statistics
}

// BatchOutcome is what the page needs after a successful batch scan
type BatchOutcome struct {
	URLs    []string
	Results []domain.BatchItem
}

// Scan validates, dispatches one request and records the verdict.
// Errors are *domain.ValidationError or *domain.RequestError; on error the
// session statistics are untouched.
func (s *Service) Scan(ctx context.Context, sess Session, cmd ScanCommand) (ScanOutcome, error) {
	target, err := domain.ValidateURL(cmd.URL)
	if err != nil {
		return ScanOutcome{Stats: sess.Stats()}, err
	}

	// single attempt, tanpa retry
	res, err := s.Scanner.Scan(ctx, domain.ScanRequest{
		URL:      target,
		DeepScan: cmd.DeepScan,
		APICheck: cmd.APICheck,
	})
	if err != nil {
		s.recordError(ctx, sess.ID(), target, domain.ModeSingle, err)
		return ScanOutcome{Stats: sess.Stats()}, err
	}
	if res.URL == "" {
		res.URL = target
	}

	st := sess.RecordScan(res.FinalVerdict.IsPhishing)
	sess.SetLastResult(res)

	s.recordHistory(ctx, &domain.HistoryEntry{
		SessionID:  sess.ID(),
		URL:        res.URL,
		Mode:       domain.ModeSingle,
		IsPhishing: res.FinalVerdict.IsPhishing,
		Confidence: res.FinalVerdict.Confidence,
		RiskLevel:  res.FinalVerdict.RiskLevel,
		Message:    res.FinalVerdict.Message,
	})

	out := ScanOutcome{Result: res, Stats: st}
	if s.Explainer.Enabled() {
		text, err := s.Explainer.Explain(ctx, res)
		if err != nil {
			log.Printf("explain failed: session=%s url=%s err=%v", sess.ID(), res.URL, err)
		} else {
			out.Explanation = text
		}
	}
	return out, nil
}

// BatchScan validates the textarea and sends all URLs in one request.
// Batch results do not move the session statistics.
func (s *Service) BatchScan(ctx context.Context, sess Session, raw string) (BatchOutcome, error) {
	urls, err := domain.ParseBatch(raw)
	if err != nil {
		return BatchOutcome{}, err
	}

	res, err := s.Scanner.BatchScan(ctx, domain.BatchRequest{URLs: urls})
	if err != nil {
		s.recordError(ctx, sess.ID(), "", domain.ModeBatch, err)
		return BatchOutcome{URLs: urls}, err
	}

	items := make([]domain.BatchItem, 0, len(res.Results))
	for _, it := range res.Results {
		it = it.Normalize()
		items = append(items, it)

		if it.Failed() {
			s.recordError(ctx, sess.ID(), it.URL, domain.ModeBatch,
				&domain.RequestError{Message: it.Error})
			continue
		}
		phishing := it.RiskLevel == domain.RiskHigh || it.RiskLevel == domain.RiskMedium
		if it.IsPhishing != nil {
			phishing = *it.IsPhishing
		}
		s.recordHistory(ctx, &domain.HistoryEntry{
			SessionID:  sess.ID(),
			URL:        it.URL,
			Mode:       domain.ModeBatch,
			IsPhishing: phishing,
			Confidence: it.Confidence,
			RiskLevel:  it.RiskLevel,
			Message:    it.Verdict,
		})
	}
	return BatchOutcome{URLs: urls, Results: items}, nil
}

// Share publishes the session's last single-scan result and returns a link
func (s *Service) Share(ctx context.Context, sess Session) (string, error) {
	if s.Shares == nil {
		return "", ErrSharingDisabled
	}
	last := sess.LastResult()
	if last == nil {
		return "", ErrNothingToShare
	}

	payload, err := json.Marshal(last)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	key := fmt.Sprintf("shared/%s/%s.json", s.now().Format("2006-01-02"), uuid.New().String())
	link, err := s.Shares.Share(ctx, key, payload)
	if err != nil {
		return "", fmt.Errorf("share result: %w", err)
	}
	return link, nil
}

// History ambil N scan terakhir
func (s *Service) History(ctx context.Context, limit int) (domain.HistoryPage, error) {
	if s.Histories == nil {
		return domain.HistoryPage{Data: []*domain.HistoryEntry{}, Limit: limit}, nil
	}
	list, err := s.Histories.Latest(ctx, limit)
	if err != nil {
		return domain.HistoryPage{}, err
	}
	if list == nil {
		list = []*domain.HistoryEntry{}
	}
	return domain.HistoryPage{Data: list, Limit: limit, Count: len(list)}, nil
}

// Notify builds a toast with the configured duration
func (s *Service) Notify(sev notify.Severity, msg string) notify.Notification {
	return notify.New(sev, msg).WithDuration(s.ToastDuration)
}

// NotificationFor maps a use-case error to exactly one toast. prefix
// labels request failures ("scan failed", "batch scan failed").
func (s *Service) NotificationFor(err error, prefix string) notify.Notification {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		if ve.Warning {
			return s.Notify(notify.Warning, ve.Error())
		}
		return s.Notify(notify.Error, ve.Error())
	case errors.Is(err, ErrSharingDisabled):
		return s.Notify(notify.Info, err.Error())
	case errors.Is(err, ErrNothingToShare):
		return s.Notify(notify.Warning, err.Error())
	default:
		return s.Notify(notify.Error, fmt.Sprintf("%s: %v", prefix, err))
	}
}

// helper

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}

func (s *Service) recordHistory(ctx context.Context, e *domain.HistoryEntry) {
	if s.Histories == nil {
		return
	}
	e.ID = uuid.New().String()
	e.CreatedAt = s.now()
	if err := s.Histories.Save(ctx, e); err != nil {
		log.Printf("history save failed: session=%s url=%s err=%v", e.SessionID, e.URL, err)
	}
}

func (s *Service) recordError(ctx context.Context, sessionID, url string, mode domain.Mode, cause error) {
	log.Printf("scan failed: session=%s mode=%s url=%s kind=%s err=%v",
		sessionID, mode, url, domain.Kind(cause), cause)
	if s.Errors == nil {
		return
	}

	var details string
	var re *domain.RequestError
	if errors.As(cause, &re) {
		b, _ := json.Marshal(map[string]any{
			"endpoint":    re.Endpoint,
			"status_code": re.StatusCode,
		})
		details = string(b)
	}
	e := &scanerrors.ScanError{
		SessionID:   sessionID,
		URL:         url,
		Mode:        string(mode),
		Kind:        domain.Kind(cause),
		Message:     cause.Error(),
		DetailsJSON: details,
		CreatedAt:   s.now(),
	}
	if err := s.Errors.Save(ctx, e); err != nil {
		log.Printf("scan error save failed: session=%s err=%v", sessionID, err)
	}
}
