package minimax

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Виды исходящих запросов к Minimax.
const (
	outcomeAuth    = "auth"
	outcomeList    = "list"
	outcomeDetails = "details"
)

// upstreamRequests — счётчик исходящих запросов к Minimax по виду и исходу.
var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "minimax_client_requests_total",
		Help: "Outbound Minimax API requests by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

func observeRequest(kind, outcome string) {
	upstreamRequests.WithLabelValues(kind, outcome).Inc()
}
