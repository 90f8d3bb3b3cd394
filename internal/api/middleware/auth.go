package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/infrastructure/session"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "tv_session"

const sessionKey ctxKey = iota + 1

// SessionResolver resolves a session token. *session.Store satisfies this
// interface.
type SessionResolver interface {
	Get(ctx context.Context, token string) (*session.Session, error)
}

// Auth resolves the session cookie and, when valid, attaches the session
// to the request context. Requests without a valid session pass through
// unauthenticated; handlers that require a user call GetSession and
// reject on absence, so browsing stays open while the library is gated.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				// Unknown or expired token: treat as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no valid session. It must be
// used after Auth in the chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()) == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession retrieves the authenticated session from context, or nil.
func GetSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID from context. The
// second return is false for anonymous requests.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	sess := GetSession(ctx)
	if sess == nil {
		return uuid.Nil, false
	}
	return sess.UserID, true
}
