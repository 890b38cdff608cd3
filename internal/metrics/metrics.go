package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_webhook_deliveries_total",
		Help: "Courier webhook deliveries by webhook kind and outcome.",
	},
		[]string{"kind", "outcome"},
	)

	UnmappedStatusTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_webhook_unmapped_status_total",
		Help: "Courier status codes or labels with no internal mapping.",
	},
		[]string{"kind"},
	)

	ReturnTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_return_transitions_total",
		Help: "Return status transitions by target status and source.",
	},
		[]string{"to", "source"},
	)

	RefundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_refunds_total",
		Help: "Refund attempts by outcome.",
	},
		[]string{"outcome"},
	)

	ReturnsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_returns_created_total",
		Help: "Total number of returns created, by source.",
	},
		[]string{"source"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OutboxPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_outbox_published_total",
		Help: "Outbox tasks handed to the producer, by result.",
	},
		[]string{"result"},
	)
)
