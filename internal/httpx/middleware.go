package httpx

import (
	"context"
	"net/http"

	"github.com/keyhaven/keyhaven/internal/identity"
)

const SessionCookie = "kh_session"

type ctxKey int

const identityKey ctxKey = 0

// SessionReader resolves a session token to the identity that owns it.
type SessionReader interface {
	Get(ctx context.Context, token string) (identity.Identity, error)
}

// IdentityFrom returns the authenticated caller placed by RequireAuth.
func IdentityFrom(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// RequireAuth resolves the session cookie and injects the caller's identity
// into the request context. Missing or stale sessions get 401.
func RequireAuth(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			id, err := sessions.Get(r.Context(), c.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// RequireRole guards a subtree behind a role; must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if id.Role != role {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
