package cart

import (
	"context"
	"log/slog"
)

// Op identifies a cart mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
	OpClear  Op = "clear"
	OpReject Op = "reject"
)

// Event describes one cart mutation after it has been applied, or a
// rejected operation (OpReject, with Reason set). Quantity is the line's
// quantity after the change (zero for removes and clears), Total the cart
// total and Size the number of distinct lines.
type Event struct {
	Op        Op
	ProductID string
	Quantity  int64
	Total     int64
	Size      int
	Reason    string
}

// Observer receives cart events. Implementations run inside the store's
// critical section and must be fast and non-blocking.
type Observer interface {
	Notify(Event)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Notify(Event) {}

// LogObserver writes cart events as structured log lines.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Notify(e Event) {
	if e.Op == OpReject {
		o.logger.LogAttrs(context.Background(), slog.LevelWarn, "cart operation rejected",
			slog.String("product_id", e.ProductID),
			slog.String("reason", e.Reason),
		)
		return
	}
	o.logger.LogAttrs(context.Background(), slog.LevelInfo, "cart updated",
		slog.String("op", string(e.Op)),
		slog.String("product_id", e.ProductID),
		slog.Int64("quantity", e.Quantity),
		slog.Int64("total", e.Total),
		slog.Int("size", e.Size),
	)
}

// MetricsObserver counts cart operations by outcome.
type MetricsObserver struct{}

func (MetricsObserver) Notify(e Event) {
	opsTotal.WithLabelValues(string(e.Op)).Inc()
}

// MultiObserver fans one event out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) Notify(e Event) {
	for _, o := range m {
		o.Notify(e)
	}
}
