package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RouteRecomputesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carpool",
		Name:      "route_recomputes_total",
		Help:      "Total route recomputations triggered",
	})
	RouteRecomputeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carpool",
		Name:      "route_recompute_failures_total",
		Help:      "Route recomputations abandoned because the provider failed",
	})
	DriverAssignmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carpool",
		Name:      "driver_assignments_total",
		Help:      "Total driver assignments",
	})
	WatchSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "carpool",
		Name:      "watch_sessions_active",
		Help:      "Open websocket watch sessions",
	})
)
