package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/nxncube"
)

func TestEngineObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	e, err := nxncube.NewEngine(4, nxncube.WithObserver(m))
	require.NoError(t, err)

	require.NoError(t, e.Submit("R"))
	require.NoError(t, e.Submit("Rw"))
	require.NoError(t, e.Submit("x"))
	assert.Error(t, e.Submit("Q"))
	assert.Error(t, e.Submit("5R"))
	e.SetInspection(true)
	require.NoError(t, e.Submit("U"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.movesApplied.WithLabelValues("single")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movesApplied.WithLabelValues("wide")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movesApplied.WithLabelValues("whole")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movesRejected.WithLabelValues("invalid_token")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movesRejected.WithLabelValues("layer_out_of_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movesFiltered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.superseded))
}

func TestReplicationGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.PeerConnected()
	m.PeerConnected()
	m.PeerDisconnected()
	m.MessageIn("move")
	m.MessageOut("move")
	m.MessageOut("move")
	m.SolveFinished()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.peers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues("move", "in")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.messages.WithLabelValues("move", "out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.solvesFinished))
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
