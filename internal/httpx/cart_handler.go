package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/internal/cart"
)

type CartHandler struct {
	Cart     *cart.Repo
	Sessions SessionReader
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(RequireAuth(h.Sessions))
		r.Get("/", h.get)
		r.Post("/", h.add)
		r.Put("/{productID}", h.setQuantity)
		r.Delete("/{productID}", h.remove)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lines, err := h.Cart.Get(ctx, id.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	writeJSON(w, http.StatusOK, lines)
}

type addToCartReq struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := h.Cart.Add(ctx, id.UserID, req.ProductID, req.Quantity); {
	case errors.Is(err, cart.ErrBadQuantity):
		writeError(w, http.StatusBadRequest, "quantity must be positive")
	case errors.Is(err, cart.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, "product not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server error")
	default:
		writeMessage(w, "Product added to cart")
	}
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := h.Cart.SetQuantity(ctx, id.UserID, productID, req.Quantity); {
	case errors.Is(err, cart.ErrBadQuantity):
		writeError(w, http.StatusBadRequest, "quantity must be positive")
	case errors.Is(err, cart.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not in cart")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server error")
	default:
		writeMessage(w, "Cart quantity updated")
	}
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := h.Cart.Remove(ctx, id.UserID, productID); {
	case errors.Is(err, cart.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not in cart")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server error")
	default:
		writeMessage(w, "Product removed from cart")
	}
}
