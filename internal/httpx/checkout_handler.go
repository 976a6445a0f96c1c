package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/internal/checkout"
	"github.com/keyhaven/keyhaven/internal/keypool"
)

// Purchaser is satisfied by checkout.Service.
type Purchaser interface {
	Purchase(ctx context.Context, userID uuid.UUID, traceID string) (checkout.Result, error)
}

type CheckoutHandler struct {
	Checkout Purchaser
	Sessions SessionReader
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Route("/api/purchase", func(r chi.Router) {
		r.Use(RequireAuth(h.Sessions))
		r.Post("/", h.purchase)
	})
}

func (h *CheckoutHandler) purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, err := h.Checkout.Purchase(ctx, id.UserID, middleware.GetReqID(r.Context()))
	if err != nil {
		var oos keypool.ErrOutOfStock
		if errors.As(err, &oos) {
			writeError(w, http.StatusConflict, oos.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeMessage(w, "Purchase completed")
}
