package cli

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/config"
	"github.com/SeamusWaldron/nxncube/internal/logging"
	"github.com/SeamusWaldron/nxncube/internal/recorder"
	"github.com/SeamusWaldron/nxncube/internal/replication"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

var (
	playSize           int
	playScrambleLength int
	playConnect        string
	playRecord         bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start an interactive TUI showing the puzzle as an unfolded net.

Keyboard shortcuts:
  i/k j/f h/g ...  - Face turns (see the key bindings in the config file)
  Mouse drag       - Turn the layer under the sticker in the drag direction
  ←/→ ↑/↓          - Orbit the camera; face keys follow the view
  SPACE            - Scramble and start inspection
  ENTER            - End inspection early
  BACKSPACE        - Abandon the solve and reset the puzzle
  [ ]              - Smaller / larger puzzle
  Esc/Ctrl+C       - Quit

With --record, solves are stored in the database. With --connect, every
accepted move is shared through a replication hub (see 'nxncube serve').`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVarP(&playSize, "size", "n", 0, "Puzzle size (default from config)")
	playCmd.Flags().IntVar(&playScrambleLength, "scramble-length", 0, "Scramble length (default from size)")
	playCmd.Flags().StringVar(&playConnect, "connect", "", "Replication hub URL, e.g. ws://localhost:8080/ws")
	playCmd.Flags().BoolVar(&playRecord, "record", false, "Record solves to the database")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playScrambleLength > 0 {
		cfg.Cube.ScrambleLength = playScrambleLength
	}
	log := newLogger(cfg, "play", true)
	defer log.Close()

	opts := append(cfg.EngineOptions(), nxncube.WithLogger(log.Slog()))
	e, err := nxncube.NewEngine(sizeOrDefault(cfg, playSize), opts...)
	if err != nil {
		return err
	}

	// Without --record the session still runs the inspection and timer,
	// against a throwaway database.
	path := ":memory:"
	var stateFile *recorder.StateFile
	if playRecord {
		path = cfg.Storage.Path
		stateFile, err = recorder.NewDefaultStateFile()
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		if stateFile.HasActiveSolve() {
			log.Warn("previous solve was not finished", "solve_id", stateFile.ActiveSolveID())
		}
		if configPath != "" {
			if err := stateFile.SetConfigPath(configPath); err != nil {
				log.Warn("failed to update state file", "error", err)
			}
		}
	}
	db, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	m := newPlayModel(cfg, e, log, recorder.NewSession(db, stateFile, e, log.Slog()))

	if playConnect != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		client, err := replication.Dial(ctx, playConnect, log.Slog())
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		m.client = client
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("play error: %w", err)
	}

	if res, ok := m.session.Result(); ok && playRecord {
		fmt.Fprintf(cmd.OutOrStdout(), "Last solve: %s in %s (%d moves)\n",
			res.SolveID, formatDuration(time.Duration(res.DurationMs)*time.Millisecond), res.Moves)
	}
	return nil
}

const (
	frameInterval = 16 * time.Millisecond
	orbitStep     = math.Pi / 8
	stickerWidth  = 3 // terminal cells per sticker in renderNet
	netTop        = 4 // screen row where the net starts in View
	historyLimit  = 24
)

// Messages
type frameMsg time.Time
type remoteMsg struct {
	msg replication.Message
	ok  bool
}

// Model
type playModel struct {
	cfg      *config.Config
	log      *logging.Logger
	engine   *nxncube.Engine
	camera   *nxncube.Camera
	keyboard *nxncube.Keyboard
	session  *recorder.Session
	client   *replication.Client
	rng      *rand.Rand

	// Mouse gesture
	drag      *nxncube.DragResolver
	dragStart [2]int

	// State
	started    time.Time
	lastFrame  time.Time
	history    []string
	peerCamera *nxncube.Vec3
	status     string
	err        error
	quitting   bool
}

func newPlayModel(cfg *config.Config, e *nxncube.Engine, log *logging.Logger, session *recorder.Session) *playModel {
	m := &playModel{
		cfg:     cfg,
		log:     log,
		engine:  e,
		camera:  nxncube.NewCamera(nxncube.DefaultCameraPosition, 800, 600),
		session: session,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		started: time.Now(),
		status:  "Press SPACE to scramble",
	}
	m.keyboard = nxncube.NewKeyboard(e, m.camera, cfg.KeyBindings())

	e.OnComplete(func(c nxncube.Completion) {
		m.history = append(m.history, c.Turn.Move.Notation())
	})
	e.OnReset(func(string) { m.history = nil })
	session.SetSolvedCallback(func(r recorder.Result) {
		m.status = fmt.Sprintf("Solved in %s, %d moves",
			formatDuration(time.Duration(r.DurationMs)*time.Millisecond), r.Moves)
	})
	return m
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func waitRemote(c *replication.Client) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.Messages()
		return remoteMsg{msg: msg, ok: ok}
	}
}

func (m *playModel) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTick()}
	if m.client != nil {
		cmds = append(cmds, waitRemote(m.client))
	}
	return tea.Batch(cmds...)
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch key := msg.String(); key {
		case "ctrl+c", "esc":
			m.quitting = true
			m.session.Abort()
			return m, tea.Quit

		case " ":
			m.startSolve()

		case "enter":
			m.session.BeginSolve()

		case "backspace":
			m.session.Abort()
			m.engine.Reset()
			m.status = "Reset"
			m.shareState()

		case "left":
			m.orbit(-orbitStep, 0)
		case "right":
			m.orbit(orbitStep, 0)
		case "up":
			m.orbit(0, orbitStep/2)
		case "down":
			m.orbit(0, -orbitStep/2)

		case "[":
			m.resize(m.engine.Size() - 1)
		case "]":
			m.resize(m.engine.Size() + 1)

		default:
			mv, ok, err := m.keyboard.Press(key)
			if !ok {
				break
			}
			if err != nil {
				m.err = err
				break
			}
			m.shareMove(mv)
		}

	case tea.MouseMsg:
		m.mouse(msg)

	case frameMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			m.engine.Tick(now.Sub(m.lastFrame))
		}
		m.lastFrame = now
		m.session.Tick()
		return m, frameTick()

	case remoteMsg:
		if !msg.ok {
			m.client = nil
			m.status = "Disconnected from hub"
			return m, nil
		}
		m.applyRemote(msg.msg)
		return m, waitRemote(m.client)
	}

	return m, nil
}

func (m *playModel) startSolve() {
	switch m.session.State() {
	case recorder.StateInspecting, recorder.StateRecording:
		return
	}
	scramble, err := nxncube.Scramble(m.engine.Size(), m.cfg.ScrambleLength(), m.rng)
	if err != nil {
		m.err = err
		return
	}
	if _, err := m.session.Start(scramble, m.cfg.Input.Inspection); err != nil {
		m.err = err
		return
	}
	m.status = "Scramble: " + nxncube.FormatMoves(scramble)
	m.shareState()
}

func (m *playModel) resize(n int) {
	if n < 2 {
		return
	}
	m.session.Abort()
	if err := m.engine.Resize(n); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("Size %d", n)
	m.shareState()
}

func (m *playModel) orbit(dAz, dEl float64) {
	m.camera.Orbit(dAz, dEl)
	m.session.Camera(m.camera.Position)
	if m.client != nil {
		if err := m.client.SendCamera(m.camera.Position, m.sinceStart()); err != nil {
			m.log.Warn("failed to share camera", "error", err)
		}
	}
}

func (m *playModel) mouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		face, row, col, ok := netCell(msg.X, msg.Y-netTop, m.engine.Size())
		if !ok {
			return
		}
		hit, err := m.engine.Cube().StickerHit(face, row, col)
		if err != nil {
			return
		}
		// Net coordinates are in stickers, so a drag across half a sticker
		// already counts.
		m.drag = nxncube.NewDragResolver(m.engine, nxncube.NetProjector(face), 0.5)
		m.drag.Begin(hit)
		m.dragStart = [2]int{msg.X, msg.Y}

	case tea.MouseActionRelease:
		if m.drag == nil {
			return
		}
		d := nxncube.Vec2{
			X: float64(msg.X-m.dragStart[0]) / stickerWidth,
			Y: float64(msg.Y - m.dragStart[1]),
		}
		mv, err := m.drag.End(d)
		m.drag = nil
		switch {
		case nxncube.IsGestureMiss(err):
		case err != nil:
			m.err = err
		default:
			m.shareMove(mv)
		}
	}
}

// netCell maps a terminal cell, relative to the net's top-left corner, to
// the sticker under it.
func netCell(x, y, n int) (nxncube.CubeFace, int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col := x / stickerWidth
	block, band := col/n, y/n
	row, col := y%n, col%n

	switch {
	case band == 0 && block == 1:
		return nxncube.CubeFaceU, row, col, true
	case band == 1 && block < 4:
		faces := [4]nxncube.CubeFace{nxncube.CubeFaceL, nxncube.CubeFaceF, nxncube.CubeFaceR, nxncube.CubeFaceB}
		return faces[block], row, col, true
	case band == 2 && block == 1:
		return nxncube.CubeFaceD, row, col, true
	}
	return 0, 0, 0, false
}

func (m *playModel) sinceStart() int64 {
	return time.Since(m.started).Milliseconds()
}

// shareMove sends a locally accepted move to the hub. Moves dropped by
// inspection are not shared.
func (m *playModel) shareMove(mv nxncube.Move) {
	if m.client == nil || (m.engine.Inspecting() && !mv.IsRotation()) {
		return
	}
	if err := m.client.SendMove(mv, m.sinceStart()); err != nil {
		m.log.Warn("failed to share move", "move", mv.Notation(), "error", err)
	}
}

func (m *playModel) shareState() {
	if m.client == nil {
		return
	}
	if err := m.client.SendState(m.engine); err != nil {
		m.log.Warn("failed to share state", "error", err)
	}
}

func (m *playModel) applyRemote(msg replication.Message) {
	if msg.Type == replication.TypeCamera {
		if pos, ok := msg.Position(); ok {
			m.peerCamera = &pos
		}
		return
	}
	if err := replication.Apply(m.engine, msg); err != nil {
		m.log.Warn("failed to apply remote message", "type", msg.Type, "token", msg.Token, "error", err)
	}
}

func (m *playModel) View() string {
	if m.quitting {
		return "Bye.\n"
	}

	var b strings.Builder

	// Header: exactly netTop lines.
	b.WriteString(titleStyle.Render(fmt.Sprintf("nxncube %d×%d×%d", m.engine.Size(), m.engine.Size(), m.engine.Size())))
	b.WriteString("\n")
	info := fmt.Sprintf("View %+.0f°", m.camera.Azimuth()*180/math.Pi)
	if m.client != nil {
		info += "  [online]"
	}
	if m.peerCamera != nil {
		info += fmt.Sprintf("  peer view %+.0f°", math.Atan2(m.peerCamera.X, m.peerCamera.Z)*180/math.Pi)
	}
	if t, angle, ok := m.engine.Animation(); ok {
		info += fmt.Sprintf("  turning %s %+.0f°", t.Move.Notation(), angle*180/math.Pi)
	}
	b.WriteString(statusStyle.Render(info))
	b.WriteString("\n")
	b.WriteString(m.timerLine())
	b.WriteString("\n\n")

	b.WriteString(renderNet(m.engine.State(), m.engine.Size()))
	b.WriteString("\n")

	if moves := renderMoves(m.history, historyLimit); moves != "" {
		b.WriteString(moves)
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("SPACE=scramble  ENTER=start  BKSP=reset  ←/→=orbit  [ ]=size  ESC=quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *playModel) timerLine() string {
	switch m.session.State() {
	case recorder.StateInspecting:
		return solvedStyle.Render(fmt.Sprintf("Inspection %ds", int(math.Ceil(m.session.InspectionRemaining().Seconds()))))
	case recorder.StateRecording:
		return solvedStyle.Render(formatDuration(time.Duration(m.session.ElapsedMs()) * time.Millisecond))
	case recorder.StateEnded:
		if _, ok := m.session.Result(); ok {
			return solvedStyle.Render("SOLVED " + formatDuration(time.Duration(m.session.ElapsedMs())*time.Millisecond))
		}
		return statusStyle.Render("Abandoned")
	}
	if m.engine.IsSolved() {
		return solvedStyle.Render("Solved")
	}
	return statusStyle.Render("Scrambled")
}
