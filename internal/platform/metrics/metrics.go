package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	VendorCallSeconds *prometheus.HistogramVec
	Reauthentications prometheus.Counter
	ProfileCacheHits  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "travelgate_operations_total",
			Help: "Total adapter operations dispatched, by operation name",
		}, []string{"operation"}),
		OperationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "travelgate_operation_errors_total",
			Help: "Adapter operations that returned an error, by taxonomy code",
		}, []string{"operation", "code"}),
		VendorCallSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travelgate_vendor_call_seconds",
			Help:    "Latency of outbound Concur API calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"api"}),
		Reauthentications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "travelgate_reauthentications_total",
			Help: "Token refreshes triggered by expiry or a 401 response",
		}),
		ProfileCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "travelgate_profile_cache_hits_total",
			Help: "Travel profile reads served from the cache",
		}),
	}
}
