// Package metrics exposes engine and replication counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SeamusWaldron/nxncube"
)

// Metrics implements nxncube.Observer and carries the hub's gauges.
type Metrics struct {
	movesApplied   *prometheus.CounterVec
	layersTurned   prometheus.Histogram
	movesRejected  *prometheus.CounterVec
	movesFiltered  prometheus.Counter
	superseded     prometheus.Counter
	peers          prometheus.Gauge
	messages       *prometheus.CounterVec
	solvesFinished prometheus.Counter
}

var _ nxncube.Observer = (*Metrics)(nil)

// New registers the collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		movesApplied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nxncube_moves_applied_total",
			Help: "Moves applied to the logical cube by layer kind",
		}, []string{"kind"}),
		layersTurned: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nxncube_move_layers",
			Help:    "Number of layers turned per applied move",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
		movesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nxncube_moves_rejected_total",
			Help: "Moves rejected by reason",
		}, []string{"reason"}),
		movesFiltered: f.NewCounter(prometheus.CounterOpts{
			Name: "nxncube_moves_filtered_total",
			Help: "Moves dropped during inspection",
		}),
		superseded: f.NewCounter(prometheus.CounterOpts{
			Name: "nxncube_animations_superseded_total",
			Help: "Visual turns finished early by a newer move",
		}),
		peers: f.NewGauge(prometheus.GaugeOpts{
			Name: "nxncube_replication_peers",
			Help: "Connected replication peers",
		}),
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nxncube_replication_messages_total",
			Help: "Replication messages by type and direction",
		}, []string{"type", "direction"}),
		solvesFinished: f.NewCounter(prometheus.CounterOpts{
			Name: "nxncube_solves_finished_total",
			Help: "Solves that reached the solved state",
		}),
	}
}

// MoveApplied implements nxncube.Observer.
func (m *Metrics) MoveApplied(move nxncube.Move, layers int) {
	m.movesApplied.WithLabelValues(move.Kind.String()).Inc()
	m.layersTurned.Observe(float64(layers))
}

// MoveRejected implements nxncube.Observer.
func (m *Metrics) MoveRejected(token string, err error) {
	m.movesRejected.WithLabelValues(reason(err)).Inc()
}

// MoveFiltered implements nxncube.Observer.
func (m *Metrics) MoveFiltered(move nxncube.Move) {
	m.movesFiltered.Inc()
}

// AnimationSuperseded implements nxncube.Observer.
func (m *Metrics) AnimationSuperseded(move nxncube.Move) {
	m.superseded.Inc()
}

// PeerConnected records a new replication peer.
func (m *Metrics) PeerConnected() { m.peers.Inc() }

// PeerDisconnected records a replication peer leaving.
func (m *Metrics) PeerDisconnected() { m.peers.Dec() }

// MessageIn counts a received replication message.
func (m *Metrics) MessageIn(kind string) { m.messages.WithLabelValues(kind, "in").Inc() }

// MessageOut counts a sent replication message.
func (m *Metrics) MessageOut(kind string) { m.messages.WithLabelValues(kind, "out").Inc() }

// SolveFinished counts a completed solve.
func (m *Metrics) SolveFinished() { m.solvesFinished.Inc() }
