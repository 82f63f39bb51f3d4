package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/phishguard/internal/infra/session"
)

type contextKey string

const (
	SessionKey contextKey = "session"

	// SessionCookie holds the session id
	SessionCookie = "pg_session"
)

// Sessions resolves the session cookie, creating a session when it is
// missing or unknown. Static and ops routes are skipped.
func Sessions(store *session.Store, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipSession(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = strings.TrimSpace(c.Value)
			}

			sess, created := store.GetOrCreate(id)
			if created {
				c := &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID(),
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				}
				if ttl > 0 {
					c.MaxAge = int(ttl.Seconds())
				}
				http.SetCookie(w, c)
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}

// WithSession stores a session in ctx; used by tests and the CLI
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

func skipSession(path string) bool {
	switch path {
	case "/health", "/healthz", "/readyz", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}
