package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/printly/storefront/internal/checkout"
	"github.com/printly/storefront/internal/orders"
	"github.com/printly/storefront/pkg/httputil"
	"github.com/printly/storefront/pkg/pagination"
	"github.com/printly/storefront/pkg/validator"
)

type submitOrderRequest struct {
	BuyerEmail string `json:"buyer_email" validate:"required,email"`
}

// OrderSubmitter is the slice of the checkout submitter the handler needs.
type OrderSubmitter interface {
	Submit(ctx context.Context, buyerEmail string) (*orders.Order, error)
}

// OrderLister lists past orders from the order API.
type OrderLister interface {
	List(ctx context.Context, params pagination.Params) ([]orders.Order, error)
}

// OrderNotifier is notified after an order is accepted. Used to publish
// domain events without coupling the handler to the event transport.
type OrderNotifier interface {
	OrderSubmitted(ctx context.Context, order *orders.Order)
}

// OrdersHandler serves checkout and order history.
type OrdersHandler struct {
	submitter OrderSubmitter
	lister    OrderLister
	notifier  OrderNotifier
	logger    *slog.Logger
}

func NewOrdersHandler(submitter OrderSubmitter, lister OrderLister, notifier OrderNotifier, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		submitter: submitter,
		lister:    lister,
		notifier:  notifier,
		logger:    logger,
	}
}

func (h *OrdersHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Submit)
	r.Get("/orders", h.List)
}

func (h *OrdersHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.submitter.Submit(r.Context(), req.BuyerEmail)
	if err != nil {
		var subErr *checkout.SubmissionError
		if errors.As(err, &subErr) {
			h.logger.ErrorContext(r.Context(), "order submission failed",
				slog.String("error", subErr.Cause.Error()),
			)
			httputil.WriteJSON(w, http.StatusBadGateway, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "ORDER_SUBMISSION_FAILED",
					Message: "the order could not be submitted, your cart is unchanged",
				},
			})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if h.notifier != nil {
		h.notifier.OrderSubmitted(r.Context(), order)
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	list, err := h.lister.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(list, params))
}
