package cart

import (
	"net/http"

	apperrors "github.com/printly/storefront/pkg/errors"
)

var (
	// ErrInvalidProduct is returned when a product without an ID is offered
	// to the cart.
	ErrInvalidProduct = apperrors.InvalidInput("product has no id")

	// ErrItemNotFound is returned when an operation references a product
	// that is not in the cart.
	ErrItemNotFound = &apperrors.AppError{
		Code:    "NOT_FOUND",
		Message: "item not in cart",
		Status:  http.StatusNotFound,
		Err:     apperrors.ErrNotFound,
	}
)
