package event

import (
	"context"
	"log/slog"

	"github.com/printly/storefront/internal/cart"
	"github.com/printly/storefront/internal/orders"
	"github.com/printly/storefront/pkg/kafka"
	"github.com/printly/storefront/pkg/logger"
)

const (
	TopicCartUpdated    = "storefront.cart.updated"
	TopicCartCleared    = "storefront.cart.cleared"
	TopicOrderSubmitted = "storefront.order.submitted"

	source = "storefront"
)

// CartEventData is the payload of cart update events.
type CartEventData struct {
	Op        string `json:"op"`
	ProductID string `json:"productId,omitempty"`
	Quantity  int64  `json:"quantity"`
	Total     int64  `json:"total"`
	Size      int    `json:"size"`
}

// OrderEventData is the payload of order submission events.
type OrderEventData struct {
	OrderID    string `json:"orderId"`
	BuyerEmail string `json:"buyerEmail"`
	Products   int    `json:"products"`
	Status     string `json:"status"`
}

// Producer publishes storefront domain events. It satisfies cart.Observer,
// so it can be wired straight into the cart store. Publishing is best
// effort: failures are logged and never surface to the operation that
// triggered the event.
type Producer struct {
	producer *kafka.Producer
	cartID   string
	logger   *slog.Logger
}

// NewProducer creates a domain event producer. cartID identifies the
// process-wide cart in event aggregates.
func NewProducer(producer *kafka.Producer, cartID string, logger *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		cartID:   cartID,
		logger:   logger,
	}
}

// Notify publishes a cart mutation event. Clears go to their own topic.
// Rejected operations are local diagnostics, not state changes, and are
// not published.
func (p *Producer) Notify(e cart.Event) {
	if e.Op == cart.OpReject {
		return
	}
	topic := TopicCartUpdated
	if e.Op == cart.OpClear {
		topic = TopicCartCleared
	}

	data := CartEventData{
		Op:        string(e.Op),
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		Total:     e.Total,
		Size:      e.Size,
	}

	evt, err := kafka.NewEvent("cart."+string(e.Op), p.cartID, "cart", source, data)
	if err != nil {
		p.logger.Error("build cart event", slog.String("error", err.Error()))
		return
	}

	if err := p.producer.Publish(context.Background(), topic, evt); err != nil {
		p.logger.Error("publish cart event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}

// OrderSubmitted publishes an order submission event.
func (p *Producer) OrderSubmitted(ctx context.Context, order *orders.Order) {
	data := OrderEventData{
		OrderID:    order.ID,
		BuyerEmail: order.BuyerEmail,
		Products:   len(order.Products),
		Status:     order.Status,
	}

	evt, err := kafka.NewEvent("order.submitted", order.ID, "order", source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "build order event", slog.String("error", err.Error()))
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.producer.Publish(ctx, TopicOrderSubmitted, evt); err != nil {
		p.logger.ErrorContext(ctx, "publish order event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
