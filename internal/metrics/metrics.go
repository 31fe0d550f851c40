package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sinargas",
		Name:      "orders_created_total",
		Help:      "Orders accepted after the stock check.",
	})

	StockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sinargas",
		Name:      "stock_rejections_total",
		Help:      "Order attempts rejected for insufficient stock.",
	})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sinargas",
		Name:      "payments_total",
		Help:      "Payment transactions by method and final status.",
	}, []string{"method", "status"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sinargas",
		Name:      "webhook_events_total",
		Help:      "Gateway webhook deliveries by handling result.",
	}, []string{"result"})
)
