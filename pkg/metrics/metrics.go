package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentd", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentd", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// Requests counts content queries by collection, operation (list, get,
	// preview) and result ("ok" or the failure code sent to the client).
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentd", Name: "requests_total", Help: "Content queries by collection, operation and result."},
		[]string{"collection", "op", "result"},
	)
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "contentd", Name: "query_duration_seconds", Help: "Time spent reading and rendering content.", Buckets: prometheus.DefBuckets},
		[]string{"collection", "op"},
	)
	DocumentsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentd", Name: "documents_served_total", Help: "Documents returned to clients."},
		[]string{"collection"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Requests)
	reg.MustRegister(QueryDuration)
	reg.MustRegister(DocumentsServed)
}
