package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keyhaven/keyhaven/internal/identity"
	"github.com/keyhaven/keyhaven/internal/ledger"
)

type ProfileHandler struct {
	Users    *identity.Repo
	Ledger   *ledger.Repo
	Sessions SessionReader
}

func (h *ProfileHandler) Register(r *chi.Mux) {
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(RequireAuth(h.Sessions))
		r.Get("/", h.profile)
		r.Get("/purchased", h.purchased)
		r.Get("/transactions", h.transactions)
	})
}

func (h *ProfileHandler) profile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *ProfileHandler) purchased(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, totalPages, err := h.Ledger.Purchased(ctx, id.UserID,
		queryInt(r, "page", 1), queryInt(r, "limit", 5))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if items == nil {
		items = []ledger.PurchasedItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": items, "totalPages": totalPages})
}

func (h *ProfileHandler) transactions(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, totalPages, err := h.Ledger.Transactions(ctx, id.UserID,
		queryInt(r, "page", 1), queryInt(r, "limit", 5))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if items == nil {
		items = []ledger.TransactionItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": items, "totalPages": totalPages})
}
