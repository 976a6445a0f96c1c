package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyhaven/keyhaven/internal/identity"
)

type stubSessions struct {
	sessions map[string]identity.Identity
}

func (s *stubSessions) Get(_ context.Context, token string) (identity.Identity, error) {
	id, ok := s.sessions[token]
	if !ok {
		return identity.Identity{}, identity.ErrSessionNotFound
	}
	return id, nil
}

func TestRequireAuth_NoCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	h := RequireAuth(&stubSessions{})(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestRequireAuth_StaleSession(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	h := RequireAuth(&stubSessions{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InjectsIdentity(t *testing.T) {
	userID := uuid.New()
	sessions := &stubSessions{sessions: map[string]identity.Identity{
		"tok": {UserID: userID, Role: identity.RoleUser},
	}}

	var got identity.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		got = id
	})
	h := RequireAuth(sessions)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, got.UserID)
}

func TestRequireRole_Forbidden(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	h := RequireRole(identity.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req = req.WithContext(withIdentity(req.Context(), identity.Identity{
		UserID: uuid.New(), Role: identity.RoleUser,
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_AllowsAdmin(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	h := RequireRole(identity.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req = req.WithContext(withIdentity(req.Context(), identity.Identity{
		UserID: uuid.New(), Role: identity.RoleAdmin,
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
}
