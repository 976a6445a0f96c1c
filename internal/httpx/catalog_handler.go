package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/keyhaven/keyhaven/internal/catalog"
	"github.com/keyhaven/keyhaven/internal/steam"
)

type CatalogHandler struct {
	Catalog *catalog.Repo
	Steam   *steam.Client
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/recommended", h.recommended)
		r.Get("/new", h.newest)
		r.Get("/discounts", h.discounted)
		r.Get("/{id}", h.byID)
	})
	r.Get("/api/categories", h.categories)
	r.Get("/api/sliders", h.sliders)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	params := catalog.ListParams{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		SortBy:   r.URL.Query().Get("sortBy"),
		Order:    r.URL.Query().Get("order"),
		Limit:    queryInt(r, "limit", 0),
	}
	products, err := h.Catalog.List(ctx, params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	h.enrich(ctx, products)
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) recommended(w http.ResponseWriter, r *http.Request) {
	h.flagged(w, r, h.Catalog.Recommended)
}

func (h *CatalogHandler) newest(w http.ResponseWriter, r *http.Request) {
	h.flagged(w, r, h.Catalog.New)
}

func (h *CatalogHandler) flagged(w http.ResponseWriter, r *http.Request,
	fetch func(context.Context, int) ([]catalog.Product, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := fetch(ctx, queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) discounted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.Catalog.Discounted(ctx, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) byID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := h.Catalog.ByID(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if p.SteamAppID != nil {
		if details, err := h.Steam.AppDetails(ctx, *p.SteamAppID); err == nil && details != nil {
			p.Steam = details
		}
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Catalog.Categories(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CatalogHandler) sliders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ss, err := h.Catalog.Sliders(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

// enrich fans out Steam lookups for products that reference an app.
// Lookup failures leave the product without steam details.
func (h *CatalogHandler) enrich(ctx context.Context, products []catalog.Product) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range products {
		if products[i].SteamAppID == nil {
			continue
		}
		g.Go(func() error {
			if details, err := h.Steam.AppDetails(ctx, *products[i].SteamAppID); err == nil && details != nil {
				products[i].Steam = details
			}
			return nil
		})
	}
	_ = g.Wait()
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
