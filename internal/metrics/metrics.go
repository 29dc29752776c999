package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "client_registry"

var (
	// CacheLookups counts cache reads by result ("hit", "miss", "error").
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Client cache lookups by result.",
	}, []string{"result"})

	// BlobOperations counts blob store calls by backend, operation and outcome.
	BlobOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blob_operations_total",
		Help:      "Blob store operations by backend, operation and outcome.",
	}, []string{"backend", "op", "outcome"})
)

func ObserveBlob(backend, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	BlobOperations.WithLabelValues(backend, op, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
