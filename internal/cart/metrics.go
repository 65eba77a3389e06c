package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart operations by outcome, including rejected ones.",
	},
	[]string{"op"},
)
