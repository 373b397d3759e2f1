// Package metrics exposes the single online-player-count diagnostic named
// in the spec's metrics addition, via the ecosystem's standard Prometheus
// client rather than a hand-rolled counter endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OnlinePlayers is the current count of entities in the Play state.
var OnlinePlayers = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "ferrumgo",
	Name:      "online_players",
	Help:      "Number of connections currently in the Play state.",
})

func init() {
	prometheus.MustRegister(OnlinePlayers)
}

// Handler serves the registry in the standard exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
