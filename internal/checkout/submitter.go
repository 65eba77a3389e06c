package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/printly/storefront/internal/cart"
	"github.com/printly/storefront/internal/orders"
	apperrors "github.com/printly/storefront/pkg/errors"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with nothing in
	// the cart.
	ErrEmptyCart = apperrors.InvalidInput("cart is empty")

	// ErrEmptyBuyerEmail is returned when no buyer email is supplied.
	// Format validation is the request layer's concern; this only guards
	// against an empty string.
	ErrEmptyBuyerEmail = apperrors.InvalidInput("buyer email is required")

	// ErrSubmissionInProgress is returned when a checkout starts while an
	// earlier one is still in flight.
	ErrSubmissionInProgress = &apperrors.AppError{
		Code:    "SUBMISSION_IN_PROGRESS",
		Message: "an order submission is already in progress",
		Status:  http.StatusConflict,
		Err:     apperrors.ErrConflict,
	}
)

// SubmissionError wraps an order API failure so callers can tell a rejected
// submission from local validation errors. The cart is left untouched when
// this is returned.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// OrderAPI is the slice of the order client the submitter needs.
type OrderAPI interface {
	Create(ctx context.Context, payload orders.Payload) (*orders.Order, error)
}

// Submitter turns the current cart into an order. At most one submission
// runs at a time; each call makes exactly one attempt against the order
// API. On success the cart is cleared, on failure it is preserved so the
// buyer can try again.
type Submitter struct {
	store    *cart.Store
	api      OrderAPI
	inFlight atomic.Bool
}

// NewSubmitter creates a Submitter over the given cart and order API.
func NewSubmitter(store *cart.Store, api OrderAPI) *Submitter {
	return &Submitter{store: store, api: api}
}

// InProgress reports whether a submission is currently in flight.
func (s *Submitter) InProgress() bool {
	return s.inFlight.Load()
}

// Submit creates a PENDING order for the cart's contents: one product ID
// per cart line, in insertion order.
func (s *Submitter) Submit(ctx context.Context, buyerEmail string) (*orders.Order, error) {
	if buyerEmail == "" {
		return nil, ErrEmptyBuyerEmail
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInProgress
	}
	defer s.inFlight.Store(false)

	items := s.store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	payload := orders.Payload{
		BuyerEmail: buyerEmail,
		Products:   productIDs(items),
		Status:     orders.StatusPending,
	}

	order, err := s.api.Create(ctx, payload)
	if err != nil {
		return nil, &SubmissionError{Cause: err}
	}
	if order == nil || order.ID == "" {
		return nil, &SubmissionError{Cause: fmt.Errorf("order api returned no order id")}
	}

	s.store.Clear()
	return order, nil
}

func productIDs(items []cart.Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Product.ID)
	}
	return ids
}
