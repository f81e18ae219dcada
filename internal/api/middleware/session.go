package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie that carries the client session id.
	SessionCookieName = "session_id"
	// SessionHeader lets API clients supply the session id explicitly.
	SessionHeader = "X-Session-ID"

	sessionCookieMaxAge = 365 * 24 * time.Hour
	maxSessionIDLength  = 128
)

type sessionContextKey struct{}

// SessionMiddleware attaches a stable per-client session id to the request
// context. An id from the header wins over the cookie; when neither carries
// a usable id a new one is issued and returned as a cookie.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := validSessionID(r.Header.Get(SessionHeader))
		if sessionID == "" {
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				sessionID = validSessionID(cookie.Value)
			}
		}

		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		w.Header().Set(SessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
	})
}

// WithSessionID returns a copy of ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sessionID)
}

// SessionIDFromContext returns the session id stored by SessionMiddleware,
// or "" when there is none.
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionContextKey{}).(string)
	return sessionID
}

func validSessionID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxSessionIDLength {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}
