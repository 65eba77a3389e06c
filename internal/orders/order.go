package orders

import "time"

// Order status values as used by the order API.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Payload is the order creation request sent to the order API: the buyer's
// email and the cart's product IDs in insertion order.
type Payload struct {
	BuyerEmail string   `json:"buyerEmail" validate:"required,email"`
	Products   []string `json:"products" validate:"required,min=1"`
	Status     string   `json:"status"`
}

// Order is an order record as returned by the order API.
type Order struct {
	ID         string     `json:"_id"`
	BuyerEmail string     `json:"buyerEmail"`
	Products   []string   `json:"products"`
	Status     string     `json:"status"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}
