package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/wordduel/internal/api/apierr"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/auth"
)

type contextKey struct{}

var sessionContextKey contextKey

// SessionCookie is the cookie name carrying a session token
const SessionCookie = "session"

// SessionValidator resolves a token into a live session
type SessionValidator interface {
	ValidateSession(token string) (*auth.Session, error)
}

// Auth rejects requests without a valid session and stores the session on
// the request context
func Auth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := sessions.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// ExtractToken reads the session token from the Authorization header,
// the session cookie, or the token query parameter, in that order.
// Browsers cannot set headers on websocket upgrades, hence the query form.
func ExtractToken(r *http.Request) string {
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

// WithSession returns a context carrying session
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetPlayer returns the authenticated player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	if session := GetSession(ctx); session != nil {
		return &session.Player
	}
	return nil
}

// MustGetPlayer returns the authenticated player or panics
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context: route is missing the auth middleware")
	}
	return player
}
