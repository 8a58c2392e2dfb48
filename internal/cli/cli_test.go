package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/config"
	"github.com/SeamusWaldron/nxncube/internal/logging"
	"github.com/SeamusWaldron/nxncube/internal/metrics"
	"github.com/SeamusWaldron/nxncube/internal/recorder"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func stateAfter(t *testing.T, n int, moves string) string {
	t.Helper()
	e, err := nxncube.NewEngine(n, nxncube.WithAnimationDuration(0))
	require.NoError(t, err)
	for _, m := range nxncube.MustParseMoves(moves) {
		require.NoError(t, e.SubmitMove(m))
	}
	return e.State()
}

func TestRenderNet(t *testing.T) {
	e, err := nxncube.NewEngine(3)
	require.NoError(t, err)

	out := renderNet(e.State(), 3)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 9)
	assert.Contains(t, out, "W")
	assert.Contains(t, out, "Y")
}

func TestRenderMoves(t *testing.T) {
	assert.Empty(t, renderMoves(nil, 5))
	assert.Contains(t, renderMoves([]string{"R", "U"}, 5), "R U")

	out := renderMoves([]string{"R", "U", "F", "D"}, 2)
	assert.True(t, strings.HasPrefix(out, "... "))
	assert.Contains(t, out, "F D")
	assert.NotContains(t, out, "U F")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5.0s", formatDuration(125*time.Second))
}

func TestNetCell(t *testing.T) {
	tests := []struct {
		name    string
		x, y, n int
		face    nxncube.CubeFace
		row     int
		col     int
		ok      bool
	}{
		{"U corner", 9, 0, 3, nxncube.CubeFaceU, 0, 0, true},
		{"U center", 13, 1, 3, nxncube.CubeFaceU, 1, 1, true},
		{"L", 0, 3, 3, nxncube.CubeFaceL, 0, 0, true},
		{"F", 12, 3, 3, nxncube.CubeFaceF, 0, 1, true},
		{"R", 20, 5, 3, nxncube.CubeFaceR, 2, 0, true},
		{"B", 35, 4, 3, nxncube.CubeFaceB, 1, 2, true},
		{"D", 11, 8, 3, nxncube.CubeFaceD, 2, 0, true},
		{"4x4 F", 14, 5, 4, nxncube.CubeFaceF, 1, 0, true},
		{"left of U", 2, 1, 3, 0, 0, 0, false},
		{"right of D", 20, 7, 3, 0, 0, 0, false},
		{"below net", 10, 9, 3, 0, 0, 0, false},
		{"negative", -1, 0, 3, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, row, col, ok := netCell(tt.x, tt.y, tt.n)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.face, face)
				assert.Equal(t, tt.row, row)
				assert.Equal(t, tt.col, col)
			}
		})
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	hub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	srv := httptest.NewServer(newRouter(hub, reg, true))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	code, _ = get("/ws")
	assert.Equal(t, http.StatusTeapot, code)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "nxncube_replication_peers")
}

func TestRouterWithoutMetrics(t *testing.T) {
	srv := httptest.NewServer(newRouter(http.NotFoundHandler(), prometheus.NewRegistry(), false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAndShowSolves(t *testing.T) {
	db := openTestDB(t)

	var buf bytes.Buffer
	require.NoError(t, listSolves(&buf, db, 10))
	assert.Contains(t, buf.String(), "No solves recorded yet")

	solveRepo := storage.NewSolveRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	scramble := nxncube.MustParseMoves("R U")
	state, err := nxncube.ScrambleState(3, scramble)
	require.NoError(t, err)
	id, err := solveRepo.Create(3, state, nxncube.FormatMoves(scramble))
	require.NoError(t, err)
	for i, m := range nxncube.MustParseMoves("U' R'") {
		_, err := moveRepo.Create(id, i, int64(i+1)*1000, m)
		require.NoError(t, err)
	}
	require.NoError(t, solveRepo.Complete(id, 2000))

	unfinished, err := solveRepo.Create(3, state, "")
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, listSolves(&buf, db, 10))
	out := buf.String()
	assert.Contains(t, out, id)
	assert.Contains(t, out, "2.00s")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, unfinished)
	assert.Contains(t, out, "(unfinished)")

	solve, err := findSolve(db, []string{id}, false)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, showSolve(&buf, db, solve))
	out = buf.String()
	assert.Contains(t, out, "Scramble: R U")
	assert.Contains(t, out, "Moves:    2")
	assert.Contains(t, out, "Turns:    2 (+0 rotations)")
	assert.Contains(t, out, "TPS:      1.00")
	assert.Contains(t, out, "U'")
	assert.Contains(t, out, "R'")

	_, err = findSolve(db, nil, false)
	assert.Error(t, err)
	_, err = findSolve(db, []string{"missing"}, false)
	assert.Error(t, err)
}

func TestPrintStats(t *testing.T) {
	db := openTestDB(t)

	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, db, 10, 3))
	assert.Contains(t, buf.String(), "No solves recorded yet")

	solveRepo := storage.NewSolveRepository(db)
	moveRepo := storage.NewMoveRepository(db)
	for i, duration := range []int64{4000, 2000} {
		id, err := solveRepo.Create(3, stateAfter(t, 3, ""), "")
		require.NoError(t, err)
		for j, m := range nxncube.MustParseMoves("R U R' U' R U R' U'") {
			_, err := moveRepo.Create(id, j, int64(j)*100, m)
			require.NoError(t, err)
		}
		require.NoError(t, solveRepo.Complete(id, duration), "solve %d", i)
	}

	buf.Reset()
	require.NoError(t, printStats(&buf, db, 10, 3))
	out := buf.String()
	assert.Contains(t, out, "Solves:      2 (2 completed)")
	assert.Contains(t, out, "Best:        2.00s")
	assert.Contains(t, out, "Worst:       4.00s")
	assert.Contains(t, out, "Repeated sequences:")
	assert.Contains(t, out, "4x  R U R' U'")
}

func newTestPlayModel(t *testing.T) *playModel {
	t.Helper()
	cfg := config.Default()
	e, err := nxncube.NewEngine(3, nxncube.WithAnimationDuration(0))
	require.NoError(t, err)
	session := recorder.NewSession(openTestDB(t), nil, e, nil)
	return newPlayModel(cfg, e, logging.Discard(), session)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayKeyboardMove(t *testing.T) {
	m := newTestPlayModel(t)

	m.Update(runeKey("i"))
	assert.NoError(t, m.err)
	assert.Equal(t, stateAfter(t, 3, "R"), m.engine.State())
	assert.Equal(t, []string{"R"}, m.history)

	// Unbound keys are ignored.
	m.Update(runeKey("1"))
	assert.NoError(t, m.err)
	assert.Equal(t, []string{"R"}, m.history)
}

func TestPlayScrambleStartsInspection(t *testing.T) {
	m := newTestPlayModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NoError(t, m.err)
	assert.Equal(t, recorder.StateInspecting, m.session.State())
	assert.False(t, m.engine.IsSolved())
	assert.True(t, strings.HasPrefix(m.status, "Scramble: "))
	assert.Contains(t, m.View(), "Inspection")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, recorder.StateRecording, m.session.State())

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, recorder.StateEnded, m.session.State())
	assert.True(t, m.engine.IsSolved())
}

func TestPlayMouseDrag(t *testing.T) {
	m := newTestPlayModel(t)

	// Top row of F, dragged one sticker to the right.
	m.Update(tea.MouseMsg{X: 12, Y: netTop + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.NotNil(t, m.drag)
	m.Update(tea.MouseMsg{X: 15, Y: netTop + 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Nil(t, m.drag)
	assert.NoError(t, m.err)
	assert.Equal(t, stateAfter(t, 3, "U'"), m.engine.State())

	// A click is not a move.
	m.Update(tea.MouseMsg{X: 12, Y: netTop + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 12, Y: netTop + 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.NoError(t, m.err)
	assert.Equal(t, []string{"U'"}, m.history)
}

func TestPlayResize(t *testing.T) {
	m := newTestPlayModel(t)
	m.Update(runeKey("i"))

	m.Update(runeKey("]"))
	assert.Equal(t, 4, m.engine.Size())
	assert.True(t, m.engine.IsSolved())
	assert.Empty(t, m.history)
	assert.Contains(t, m.View(), "4×4×4")
}

func newTestReplay(t *testing.T) *replayModel {
	t.Helper()
	db := openTestDB(t)
	solveRepo := storage.NewSolveRepository(db)
	moveRepo := storage.NewMoveRepository(db)
	cameraRepo := storage.NewCameraRepository(db)

	state, err := nxncube.ScrambleState(3, nxncube.MustParseMoves("R U"))
	require.NoError(t, err)
	id, err := solveRepo.Create(3, state, "R U")
	require.NoError(t, err)
	for i, m := range nxncube.MustParseMoves("U' R'") {
		_, err := moveRepo.Create(id, i, int64(i+1)*100, m)
		require.NoError(t, err)
	}
	_, err = cameraRepo.Create(id, 0, nxncube.DefaultCameraPosition)
	require.NoError(t, err)
	_, err = cameraRepo.Create(id, 180, nxncube.Vec3{X: -8, Y: 3, Z: 4})
	require.NoError(t, err)

	solve, err := solveRepo.Get(id)
	require.NoError(t, err)
	records, err := moveRepo.GetBySolve(id)
	require.NoError(t, err)
	cameras, err := cameraRepo.GetBySolve(id)
	require.NoError(t, err)

	e, err := nxncube.NewEngine(3, nxncube.WithAnimationDuration(0))
	require.NoError(t, err)
	m, err := newReplayModel(e, solve, records, cameras, 0)
	require.NoError(t, err)
	return m
}

func TestReplayFollowsTimestamps(t *testing.T) {
	m := newTestReplay(t)
	scrambled := m.engine.State()
	assert.Equal(t, 1.0, m.speed)

	m.advance(50 * time.Millisecond)
	assert.Equal(t, 0, m.index)
	pos, ok := m.camera()
	require.True(t, ok)
	assert.Equal(t, nxncube.DefaultCameraPosition, pos)

	m.advance(100 * time.Millisecond)
	assert.Equal(t, 1, m.index)
	assert.False(t, m.done())

	m.advance(100 * time.Millisecond)
	assert.Equal(t, 2, m.index)
	assert.True(t, m.done())
	assert.True(t, m.engine.IsSolved())
	assert.Contains(t, m.View(), "SOLVED")
	pos, _ = m.camera()
	assert.Equal(t, -8.0, pos.X)

	require.NoError(t, m.restart())
	assert.Equal(t, 0, m.index)
	assert.Equal(t, scrambled, m.engine.State())
}

func TestReplayKeys(t *testing.T) {
	m := newTestReplay(t)

	m.Update(runeKey("n"))
	assert.Equal(t, 0, m.index, "step only works while paused")

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.paused)
	m.Update(runeKey("n"))
	assert.Equal(t, 1, m.index)
	assert.Equal(t, 100*time.Millisecond, m.elapsed)

	m.Update(runeKey("+"))
	assert.Equal(t, 2.0, m.speed)
	m.Update(runeKey("-"))
	m.Update(runeKey("-"))
	assert.Equal(t, 0.5, m.speed)

	m.Update(runeKey("r"))
	assert.Equal(t, 0, m.index)
	assert.Equal(t, time.Duration(0), m.elapsed)
}

func TestReplayReportsRejectedMove(t *testing.T) {
	state, err := nxncube.ScrambleState(3, nxncube.MustParseMoves("R"))
	require.NoError(t, err)
	solve := &storage.Solve{SolveID: "bad-log", Size: 3, ScrambleState: state}
	records := []storage.MoveRecord{
		{SolveID: "bad-log", MoveIndex: 0, TsMs: 100, Token: "4R"},
		{SolveID: "bad-log", MoveIndex: 1, TsMs: 200, Token: "R'"},
	}

	e, err := nxncube.NewEngine(3, nxncube.WithAnimationDuration(0))
	require.NoError(t, err)
	m, err := newReplayModel(e, solve, records, nil, 1)
	require.NoError(t, err)

	m.advance(150 * time.Millisecond)
	require.Error(t, m.err)
	assert.ErrorIs(t, m.err, nxncube.ErrLayerOutOfRange)
	assert.Contains(t, m.err.Error(), "move 1 (4R)")
	assert.Contains(t, m.View(), "4R")
	assert.Equal(t, state, m.engine.State())

	m.advance(100 * time.Millisecond)
	assert.True(t, m.done())
	assert.True(t, m.engine.IsSolved())
	assert.ErrorIs(t, m.err, nxncube.ErrLayerOutOfRange, "first failure is kept")

	require.NoError(t, m.restart())
	assert.NoError(t, m.err)
}
