package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	appscans "github.com/bryanwahyu/phishguard/internal/application/scans"
	"github.com/bryanwahyu/phishguard/internal/domain/stats"
	"github.com/bryanwahyu/phishguard/internal/infra/progress"
	"github.com/bryanwahyu/phishguard/internal/infra/scanner"
	"github.com/bryanwahyu/phishguard/internal/infra/session"
	"github.com/bryanwahyu/phishguard/internal/infra/view"
)

const toastMarker = `class="notification notification-`

// fakeBackend plays the remote scan service
type fakeBackend struct {
	calls  atomic.Int32
	status int
	body   string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	_, _ = io.WriteString(w, b.body)
}

type testEnv struct {
	srv     *httptest.Server
	client  *http.Client
	backend *fakeBackend
}

func newTestEnv(t *testing.T, status int, body string) *testEnv {
	t.Helper()

	backend := &fakeBackend{status: status, body: body}
	remote := httptest.NewServer(backend)
	t.Cleanup(remote.Close)

	svc := &appscans.Service{Scanner: scanner.NewClient(remote.URL)}
	h, err := NewRouter(svc, view.MustRenderer(), Options{
		Sessions:     session.NewStore(),
		StepInterval: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}, backend: backend}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func (e *testEnv) stats(t *testing.T) stats.Statistics {
	t.Helper()
	code, body := e.get(t, "/stats")
	if code != http.StatusOK {
		t.Fatalf("/stats status = %d", code)
	}
	var st stats.Statistics
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	return st
}

const phishingPayload = `{
  "url": "http://paypa1-login.example",
  "final_verdict": {"is_phishing": true, "confidence": 0.91, "risk_level": "high", "message": "Phishing detected"},
  "ai_analysis": {"is_phishing": true, "confidence": 0.88, "risk_level": "high"}
}`

func TestIndexRendersPlaceholderStats(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)

	code, body := env.get(t, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{"1,247", "1,158", `id="scanForm"`, `id="resultSection" hidden`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Count(body, toastMarker) != 0 {
		t.Error("index should not show notifications")
	}
}

func TestScanPhishingUpdatesStats(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)
	before := env.stats(t)

	code, body := env.post(t, "/scan", url.Values{
		"url":      {"http://paypa1-login.example"},
		"deepScan": {"1"},
		"apiCheck": {"1"},
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "verdict-high") || !strings.Contains(body, "Phishing detected") {
		t.Error("result card not rendered")
	}
	if !strings.Contains(body, `data-panel="ai"`) || strings.Contains(body, `data-panel="nlp"`) {
		t.Error("unexpected panel set")
	}
	if !strings.Contains(body, "1,248") {
		t.Error("page should show updated total")
	}

	after := env.stats(t)
	if after.TotalScans != before.TotalScans+1 || after.PhishingCount != before.PhishingCount+1 {
		t.Errorf("stats = %+v, before %+v", after, before)
	}
	if after.SafeCount != before.SafeCount {
		t.Errorf("safe count moved: %d -> %d", before.SafeCount, after.SafeCount)
	}
}

func TestScanServerErrorShowsOneToast(t *testing.T) {
	env := newTestEnv(t, http.StatusInternalServerError, `{"detail":"boom"}`)
	before := env.stats(t)

	code, body := env.post(t, "/scan", url.Values{"url": {"https://example.com"}})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if n := strings.Count(body, toastMarker); n != 1 {
		t.Fatalf("notifications = %d, want 1", n)
	}
	if !strings.Contains(body, "notification-error") || !strings.Contains(body, "scan failed: server error: 500") {
		t.Error("expected error toast with status")
	}
	if strings.Contains(body, "verdict-") {
		t.Error("no result card expected")
	}
	if after := env.stats(t); after != before {
		t.Errorf("stats changed: %+v -> %+v", before, after)
	}
}

func TestScanEmptyPayloadShowsOneToast(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "url only", body: `{"url": "https://example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, http.StatusOK, tt.body)
			before := env.stats(t)

			code, body := env.post(t, "/scan", url.Values{"url": {"https://example.com"}})
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if n := strings.Count(body, toastMarker); n != 1 {
				t.Fatalf("notifications = %d, want 1", n)
			}
			if !strings.Contains(body, "notification-error") {
				t.Error("expected error toast")
			}
			if strings.Contains(body, "verdict-") {
				t.Error("no result card expected")
			}
			if after := env.stats(t); after != before {
				t.Errorf("stats changed: %+v -> %+v", before, after)
			}
		})
	}
}

func TestScanRateLimitWithoutCookies(t *testing.T) {
	remote := httptest.NewServer(&fakeBackend{status: http.StatusOK, body: phishingPayload})
	t.Cleanup(remote.Close)

	svc := &appscans.Service{Scanner: scanner.NewClient(remote.URL)}
	h, err := NewRouter(svc, view.MustRenderer(), Options{
		Sessions:     session.NewStore(),
		RateCapacity: 2,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	// no cookie jar: every request arrives without a session cookie
	client := &http.Client{}
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := client.PostForm(srv.URL+"/scan", url.Values{"url": {"https://example.com"}})
		if err != nil {
			t.Fatalf("POST %d: %v", i, err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestScanValidationNeverCallsBackend(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		form     url.Values
		severity string
	}{
		{name: "empty url", path: "/scan", form: url.Values{"url": {"  "}}, severity: "notification-warning"},
		{name: "no scheme", path: "/scan", form: url.Values{"url": {"example.com"}}, severity: "notification-error"},
		{name: "ftp scheme", path: "/scan", form: url.Values{"url": {"ftp://example.com"}}, severity: "notification-error"},
		{name: "blank batch", path: "/batch-scan", form: url.Values{"urls": {"\n \n"}}, severity: "notification-warning"},
		{name: "no valid batch", path: "/batch-scan", form: url.Values{"urls": {"foo\nbar"}}, severity: "notification-error"},
		{name: "eleven urls", path: "/batch-scan", form: url.Values{"urls": {elevenURLs()}}, severity: "notification-warning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, http.StatusOK, phishingPayload)
			_, body := env.post(t, tt.path, tt.form)
			if n := strings.Count(body, toastMarker); n != 1 {
				t.Fatalf("notifications = %d, want 1", n)
			}
			if !strings.Contains(body, tt.severity) {
				t.Errorf("want %s toast", tt.severity)
			}
			if got := env.backend.calls.Load(); got != 0 {
				t.Errorf("backend called %d times", got)
			}
		})
	}
}

func elevenURLs() string {
	var b strings.Builder
	for i := 0; i < 11; i++ {
		b.WriteString("https://site")
		b.WriteByte(byte('a' + i))
		b.WriteString(".example\n")
	}
	return b.String()
}

func TestBatchScanRendersItems(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"results":[
	  {"url":"https://a.example","verdict":"safe","confidence":0.1,"risk_level":"low"},
	  {"url":"https://b.example","error":"timeout"}
	]}`)
	before := env.stats(t)

	code, body := env.post(t, "/batch-scan", url.Values{"urls": {"https://a.example\nnot a url\nhttps://b.example"}})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	results := body[strings.Index(body, `id="resultContent"`):]
	ia := strings.Index(results, "https://a.example")
	ib := strings.Index(results, "timeout")
	if ia < 0 || ib < 0 || ia > ib {
		t.Error("batch items missing or out of order")
	}
	if strings.Count(body, toastMarker) != 0 {
		t.Error("successful batch should not toast")
	}
	if after := env.stats(t); after != before {
		t.Errorf("batch moved stats: %+v -> %+v", before, after)
	}
}

func TestShareWithoutStorage(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)

	_, body := env.post(t, "/share", nil)
	if !strings.Contains(body, "notification-info") || !strings.Contains(body, "sharing is not available yet") {
		t.Error("expected info toast")
	}
}

func TestScanAgainClearsResult(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)
	env.post(t, "/scan", url.Values{"url": {"http://paypa1-login.example"}})

	_, body := env.post(t, "/scan-again", nil)
	if !strings.Contains(body, `id="resultSection" hidden`) {
		t.Error("result area should be hidden")
	}
	if !strings.Contains(body, "1,248") {
		t.Error("stats should survive scan-again")
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)

	code, body := env.get(t, "/history?limit=500")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var page struct {
		Data  []any `json:"data"`
		Limit int   `json:"limit"`
		Count int   `json:"count"`
	}
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("decode: %v (%s)", err, body)
	}
	if page.Limit != 100 || page.Count != 0 || page.Data == nil {
		t.Errorf("page = %+v", page)
	}
}

func TestStaticAndOps(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)

	for _, path := range []string{"/static/app.js", "/static/style.css", "/health", "/healthz", "/readyz", "/metrics"} {
		code, _ := env.get(t, path)
		if code != http.StatusOK {
			t.Errorf("%s status = %d", path, code)
		}
	}
}

func TestProgressStreamsSteps(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, phishingPayload)

	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/progress?steps=3&interval=100"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for i := 0; i < 3; i++ {
		var tick progress.Tick
		if err := conn.ReadJSON(&tick); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if tick.Index != i || tick.Total != 3 {
			t.Errorf("tick = %+v, want index %d", tick, i)
		}
	}
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal close, got %v", err)
	}
}

func TestProgressOutlivesServerReadTimeout(t *testing.T) {
	svc := &appscans.Service{Scanner: scanner.NewClient("http://127.0.0.1:1")}
	h, err := NewRouter(svc, view.MustRenderer(), Options{Sessions: session.NewStore()})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	srv := httptest.NewUnstartedServer(h)
	srv.Config.ReadTimeout = 200 * time.Millisecond
	srv.Start()
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/progress?steps=3&interval=150"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for i := 0; i < 3; i++ {
		var tick progress.Tick
		if err := conn.ReadJSON(&tick); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal close, got %v", err)
	}
}

func TestCheckOrigin(t *testing.T) {
	r := &Router{origins: []string{"https://ui.example"}}
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://app.local", true},
		{"https://ui.example", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://app.local/progress", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := r.checkOrigin(req); got != tt.want {
			t.Errorf("origin %q = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
