package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/printly/storefront/internal/cart"
	"github.com/printly/storefront/pkg/httputil"
	"github.com/printly/storefront/pkg/validator"
)

// CartView is the JSON shape of the cart resource.
type CartView struct {
	Items []cart.Item `json:"items"`
	Total int64       `json:"total"`
	Size  int         `json:"size"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type updateItemRequest struct {
	Delta int64 `json:"delta" validate:"required"`
}

// CartHandler serves the cart endpoints. Products are fetched from the
// catalog on add, so the cart always snapshots real catalog entries.
type CartHandler struct {
	store   *cart.Store
	catalog CatalogAPI
	logger  *slog.Logger
}

func NewCartHandler(store *cart.Store, api CatalogAPI, logger *slog.Logger) *CartHandler {
	return &CartHandler{store: store, catalog: api, logger: logger}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{id}", h.UpdateItem)
	r.Delete("/cart/items/{id}", h.RemoveItem)
}

func (h *CartHandler) view() CartView {
	items := h.store.Items()
	return CartView{
		Items: items,
		Total: h.store.Total(),
		Size:  len(items),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view()})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.store.Add(*product); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view()})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.UpdateQuantity(chi.URLParam(r, "id"), req.Delta); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view()})
}

// RemoveItem is idempotent like the store operation beneath it: deleting an
// absent line still returns the current cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.store.Remove(chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view()})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view()})
}
