// Package metrics records boundary activity of the precompile families in
// the default Prometheus registry.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eth2030/zkprecompiles/precompiles"
)

const (
	metricsNamespace = "zkprecompiles"
	subsystem        = "boundary"
)

var (
	BoundaryCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "calls_total",
			Help:      "Total number of precompile boundary calls",
		},
		[]string{"family", "entry", "status"}, // entry: verify, exec, gas
	)

	BoundaryGas = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "reported_gas",
			Help:      "Gas reported to the host per call",
			Buckets:   []float64{10, 400, 4000, 30000, 50000, 75000, 150000, 500000, 1e6},
		},
		[]string{"family"},
	)

	BoundaryPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "recovered_panics_total",
			Help:      "Total number of panics recovered at the boundary",
		},
		[]string{"family", "entry"},
	)
)

var enabled atomic.Bool

func init() { enabled.Store(true) }

// SetEnabled turns recording on or off process-wide.
func SetEnabled(on bool) { enabled.Store(on) }

// Enabled reports whether recording is on.
func Enabled() bool { return enabled.Load() }

// ObserveCall counts one boundary call by its reported status.
func ObserveCall(family, entry string, status precompiles.Code) {
	if !Enabled() {
		return
	}
	BoundaryCalls.WithLabelValues(family, entry, status.String()).Inc()
}

// ObserveGas records a successfully priced call.
func ObserveGas(family string, gas uint64) {
	if !Enabled() {
		return
	}
	BoundaryGas.WithLabelValues(family).Observe(float64(gas))
}

// ObservePanic counts a panic recovered at the boundary.
func ObservePanic(family, entry string) {
	if !Enabled() {
		return
	}
	BoundaryPanics.WithLabelValues(family, entry).Inc()
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler { return promhttp.Handler() }
