package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	OrdersCreated      prometheus.Counter
	OrdersRejectedDup  prometheus.Counter
	LiveConnections    prometheus.Gauge
	Broadcasts         prometheus.Counter
	BroadcastLatencyMs prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refeitorio_orders_created_total",
			Help: "Total number of orders accepted",
		}),
		OrdersRejectedDup: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refeitorio_orders_rejected_duplicate_total",
			Help: "Orders rejected because the collaborator already ordered that day",
		}),
		LiveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "refeitorio_live_connections",
			Help: "Websocket viewers currently registered across all restaurants",
		}),
		Broadcasts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "refeitorio_broadcasts_total",
			Help: "Snapshot broadcasts fanned out to restaurant viewers",
		}),
		BroadcastLatencyMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "refeitorio_broadcast_latency_ms",
			Help:    "Latency of a full fan-out to one restaurant's viewers in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
	}
}
