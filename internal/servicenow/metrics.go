package servicenow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_servicenow_requests_total",
		Help: "Total number of requests to the ServiceNow Table API",
	},
	[]string{"operation", "status"},
)

func observeRequest(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	requestsTotal.WithLabelValues(operation, status).Inc()
}
