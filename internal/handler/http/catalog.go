package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/printly/storefront/internal/cart"
	"github.com/printly/storefront/internal/catalog"
	"github.com/printly/storefront/pkg/httputil"
	"github.com/printly/storefront/pkg/pagination"
)

// CatalogAPI is the slice of the product client the handler needs.
type CatalogAPI interface {
	List(ctx context.Context, params pagination.Params) ([]cart.Product, error)
	Get(ctx context.Context, id string) (*cart.Product, error)
}

// CatalogHandler serves the product browsing endpoints.
type CatalogHandler struct {
	api    CatalogAPI
	logger *slog.Logger
}

func NewCatalogHandler(api CatalogAPI, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{api: api, logger: logger}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
}

// List serves one page of the catalog, optionally narrowed to products
// whose tags contain the tag query substring. Filtering happens after the
// page fetch, so a filtered page may come back short.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	products, err := h.api.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	fetched := len(products)
	products = catalog.FilterByTag(products, r.URL.Query().Get("tag"))

	result := pagination.NewResult(products, params)
	// More pages may exist even when the filter emptied this one.
	result.HasNext = fetched == params.PerPage
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.api.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
