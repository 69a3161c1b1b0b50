package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DispatchTransitions counts engine operations by op and outcome
	// (ok, rejected, error).
	DispatchTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rescuehub_dispatch_transitions_total",
		Help: "Dispatch engine transitions by operation and outcome.",
	}, []string{"op", "outcome"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rescuehub_events_published_total",
		Help: "Realtime events published by event name.",
	}, []string{"event"})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rescuehub_events_dropped_total",
		Help: "Realtime deliveries dropped by backpressure or publish failure.",
	})

	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rescuehub_websocket_connections",
		Help: "Currently registered websocket connections.",
	})
)

// Handler exposes the prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
