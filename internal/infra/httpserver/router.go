package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appscans "github.com/bryanwahyu/phishguard/internal/application/scans"
	"github.com/bryanwahyu/phishguard/internal/domain/notify"
	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
	"github.com/bryanwahyu/phishguard/internal/infra/progress"
	"github.com/bryanwahyu/phishguard/internal/infra/session"
	"github.com/bryanwahyu/phishguard/internal/infra/view"
	"github.com/bryanwahyu/phishguard/internal/middleware"
)

// errNoSession means the session middleware did not run
var errNoSession = errors.New("no session in request context")

// Options configures the HTTP surface
type Options struct {
	Sessions       *session.Store
	SessionTTL     time.Duration
	SecureCookies  bool
	AllowedOrigins []string
	RateCapacity   int
	RateRefill     int
	StepInterval   time.Duration
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	scansSvc     *appscans.Service
	views        *view.Renderer
	origins      []string
	stepInterval time.Duration
}

func NewRouter(scansSvc *appscans.Service, views *view.Renderer, opts Options) (http.Handler, error) {
	static, err := view.Static()
	if err != nil {
		return nil, err
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.StepInterval <= 0 {
		opts.StepInterval = progress.DefaultInterval
	}
	if opts.RateCapacity <= 0 {
		opts.RateCapacity = 30
	}
	if opts.RateRefill <= 0 {
		opts.RateRefill = 1
	}

	r := &Router{
		scansSvc:     scansSvc,
		views:        views,
		origins:      opts.AllowedOrigins,
		stepInterval: opts.StepInterval,
	}
	middleware.ActiveSessions = opts.Sessions.Active

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	// session harus sebelum logging supaya session= ikut ke log
	mux.Use(middleware.Sessions(opts.Sessions, opts.SessionTTL, opts.SecureCookies))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Checkers))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static)))

	mux.Get("/", r.wrap(r.handleIndex))
	mux.Post("/scan", r.wrap(r.handleScan))
	mux.Post("/batch-scan", r.wrap(r.handleBatchScan))
	mux.Post("/scan-again", r.wrap(r.handleScanAgain))
	mux.Post("/share", r.wrap(r.handleShare))
	mux.Get("/stats", r.wrap(r.handleStats))
	mux.Get("/history", r.wrap(r.handleHistory))
	mux.Get("/progress", r.handleProgress)

	return mux, nil
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				http.Error(w, ve.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("handler error: method=%s path=%s err=%v", req.Method, req.URL.Path, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.GetSession(req.Context())
	if sess == nil {
		return errNoSession
	}
	return r.render(w, r.page(sess, defaultForm()))
}

// POST /scan
// Form: url, deepScan, apiCheck
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.GetSession(req.Context())
	if sess == nil {
		return errNoSession
	}
	if err := req.ParseForm(); err != nil {
		return &domain.ValidationError{Err: err}
	}
	form := view.FormView{
		URL:      middleware.SanitizeString(req.PostForm.Get("url")),
		DeepScan: middleware.FormBool(req.PostForm.Get("deepScan")),
		APICheck: middleware.FormBool(req.PostForm.Get("apiCheck")),
	}

	middleware.IncrementScansInFlight()
	out, err := r.scansSvc.Scan(req.Context(), sess, appscans.ScanCommand{
		URL:      form.URL,
		DeepScan: form.DeepScan,
		APICheck: form.APICheck,
	})
	middleware.DecrementScansInFlight()

	p := r.page(sess, form)
	if err != nil {
		countFailure(err)
		p.Notifications = append(p.Notifications, r.scansSvc.NotificationFor(err, "scan failed"))
		return r.render(w, p)
	}
	middleware.IncrementScans()

	res := view.NewResultView(out.Result)
	res.Explanation = out.Explanation
	p.Result = &res
	return r.render(w, p)
}

// POST /batch-scan
// Form: urls (one per line)
func (r *Router) handleBatchScan(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.GetSession(req.Context())
	if sess == nil {
		return errNoSession
	}
	if err := req.ParseForm(); err != nil {
		return &domain.ValidationError{Err: err}
	}
	form := defaultForm()
	form.BatchURLs = middleware.SanitizeString(req.PostForm.Get("urls"))

	middleware.IncrementScansInFlight()
	out, err := r.scansSvc.BatchScan(req.Context(), sess, form.BatchURLs)
	middleware.DecrementScansInFlight()

	p := r.page(sess, form)
	if err != nil {
		countFailure(err)
		p.Notifications = append(p.Notifications, r.scansSvc.NotificationFor(err, "batch scan failed"))
		return r.render(w, p)
	}
	middleware.IncrementBatchScans()

	batch := view.NewBatchView(out.Results)
	p.Batch = &batch
	return r.render(w, p)
}

// POST /scan-again
// Clears the result area and the share target
func (r *Router) handleScanAgain(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.GetSession(req.Context())
	if sess == nil {
		return errNoSession
	}
	sess.ClearLastResult()
	return r.render(w, r.page(sess, defaultForm()))
}

// POST /share
func (r *Router) handleShare(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.GetSession(req.Context())
	if sess == nil {
		return errNoSession
	}

	p := r.page(sess, defaultForm())
	if last := sess.LastResult(); last != nil {
		res := view.NewResultView(last)
		p.Result = &res
		p.Form.URL = last.URL
	}

	link, err := r.scansSvc.Share(req.Context(), sess)
	if err != nil {
		p.Notifications = append(p.Notifications, r.scansSvc.NotificationFor(err, "share failed"))
		return r.render(w, p)
	}
	middleware.IncrementShares()
	p.Notifications = append(p.Notifications, r.scansSvc.Notify(notify.Success, "share link: "+link))
	return r.render(w, p)
}

// GET /stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	sess := middleware.GetSession(req.Context())
	if sess == nil {
		return errNoSession
	}
	return writeJSON(w, sess.Stats())
}

// GET /history?limit=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	page, err := r.scansSvc.History(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, page)
}

// helper

func defaultForm() view.FormView {
	return view.FormView{DeepScan: true, APICheck: true}
}

func (r *Router) page(sess *session.Session, form view.FormView) view.PageView {
	return view.PageView{
		Stats:        view.NewStatsView(sess.Stats()),
		Form:         form,
		Steps:        progress.DefaultSteps(),
		StepInterval: r.stepInterval.Milliseconds(),
	}
}

// render buffers the page so a template error never leaves half a document
func (r *Router) render(w http.ResponseWriter, p view.PageView) error {
	var buf bytes.Buffer
	if err := r.views.Page(&buf, p); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func countFailure(err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		middleware.IncrementScansRejected()
		return
	}
	middleware.IncrementScansFailed()
}
