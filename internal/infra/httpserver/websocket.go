package httpserver

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bryanwahyu/phishguard/internal/infra/progress"
	"github.com/bryanwahyu/phishguard/internal/middleware"
)

const writeWait = 5 * time.Second

func (r *Router) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      r.checkOrigin,
	}
}

// checkOrigin allows same-host pages and the configured CORS origins
func (r *Router) checkOrigin(req *http.Request) bool {
	origin := req.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && u.Host == req.Host {
		return true
	}
	for _, o := range r.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// GET /progress?steps=&interval=
// Streams one {"step","total"} message per activated loading step, then
// closes. It does not know anything about the scan in flight.
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	steps, _ := strconv.Atoi(q.Get("steps"))
	steps = middleware.ValidateSteps(steps)

	interval := r.stepInterval
	if raw := q.Get("interval"); raw != "" {
		ms, _ := strconv.Atoi(raw)
		interval = time.Duration(middleware.ValidateInterval(ms)) * time.Millisecond
	}

	conn, err := r.upgrader().Upgrade(w, req, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Printf("progress upgrade failed: err=%v", err)
		return
	}
	defer conn.Close()
	// the hijacked conn still carries the server ReadTimeout deadline
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	// client pergi -> stop ticker
	conn.SetReadLimit(512)
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	for tick := range progress.NewTicker(steps, interval).Run(ctx) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(tick); err != nil {
			return
		}
	}
	if ctx.Err() != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(writeWait))
}
