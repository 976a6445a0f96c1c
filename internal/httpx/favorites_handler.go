package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/internal/catalog"
)

type FavoritesHandler struct {
	Favorites *catalog.Favorites
	Sessions  SessionReader
}

func (h *FavoritesHandler) Register(r *chi.Mux) {
	r.Route("/api/favorites", func(r chi.Router) {
		r.Use(RequireAuth(h.Sessions))
		r.Get("/", h.list)
		r.Post("/{productID}", h.add)
		r.Delete("/{productID}", h.remove)
	})
}

func (h *FavoritesHandler) list(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.Favorites.List(ctx, id.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *FavoritesHandler) add(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := h.Favorites.Add(ctx, id.UserID, productID); {
	case errors.Is(err, catalog.ErrAlreadyFavorite):
		writeError(w, http.StatusBadRequest, "product already in favorites")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server error")
	default:
		writeMessage(w, "Product added to favorites")
	}
}

func (h *FavoritesHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch err := h.Favorites.Remove(ctx, id.UserID, productID); {
	case errors.Is(err, catalog.ErrNotFavorite):
		writeError(w, http.StatusNotFound, "product not in favorites")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server error")
	default:
		writeMessage(w, "Product removed from favorites")
	}
}
