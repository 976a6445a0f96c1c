package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/keyhaven/keyhaven/internal/checkout"
	"github.com/keyhaven/keyhaven/internal/identity"
	"github.com/keyhaven/keyhaven/internal/keypool"
)

type stubPurchaser struct {
	res    checkout.Result
	err    error
	userID uuid.UUID
}

func (s *stubPurchaser) Purchase(_ context.Context, userID uuid.UUID, _ string) (checkout.Result, error) {
	s.userID = userID
	return s.res, s.err
}

func checkoutRouter(p Purchaser, sessions SessionReader) http.Handler {
	r := NewRouter(zerolog.Nop())
	(&CheckoutHandler{Checkout: p, Sessions: sessions}).Register(r)
	return r
}

func authedPurchase(userID uuid.UUID) (*http.Request, SessionReader) {
	sessions := &stubSessions{sessions: map[string]identity.Identity{
		"tok": {UserID: userID, Role: identity.RoleUser},
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/purchase/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	return req, sessions
}

func TestPurchaseEndpoint_Unauthenticated(t *testing.T) {
	h := checkoutRouter(&stubPurchaser{}, &stubSessions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/purchase/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseEndpoint_Success(t *testing.T) {
	userID := uuid.New()
	p := &stubPurchaser{res: checkout.Result{
		Lines:      []checkout.PurchasedLine{{ProductID: uuid.New(), AmountCents: 800}},
		TotalCents: 800,
	}}
	req, sessions := authedPurchase(userID)

	rec := httptest.NewRecorder()
	checkoutRouter(p, sessions).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Purchase completed")
	assert.Equal(t, userID, p.userID)
}

func TestPurchaseEndpoint_OutOfStockNamesProduct(t *testing.T) {
	productID := uuid.New()
	p := &stubPurchaser{err: keypool.ErrOutOfStock{ProductID: productID}}
	req, sessions := authedPurchase(uuid.New())

	rec := httptest.NewRecorder()
	checkoutRouter(p, sessions).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), productID.String())
}

func TestPurchaseEndpoint_StorageError(t *testing.T) {
	p := &stubPurchaser{err: errors.New("boom")}
	req, sessions := authedPurchase(uuid.New())

	rec := httptest.NewRecorder()
	checkoutRouter(p, sessions).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// internals stay out of the response body
	assert.NotContains(t, rec.Body.String(), "boom")
}
