package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

var (
	replaySpeed float64
	replayLast  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [solve-id]",
	Short: "Replay a recorded solve",
	Long: `Replay a recorded solve from the database at its original pace.

The puzzle starts from the stored scramble and every logged move is
submitted at its recorded time, so the replay shows exactly what the
solver saw, camera changes included.

Usage:
  nxncube replay --last              # Replay the most recent solve
  nxncube replay <solve-id> -s 2.0   # Replay at 2x speed`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent solve")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "replay", true)
	defer log.Close()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	solve, err := findSolve(db, args, replayLast)
	if err != nil {
		return err
	}
	records, err := storage.NewMoveRepository(db).GetBySolve(solve.SolveID)
	if err != nil {
		return err
	}
	cameras, err := storage.NewCameraRepository(db).GetBySolve(solve.SolveID)
	if err != nil {
		return err
	}

	opts := append(cfg.EngineOptions(), nxncube.WithLogger(log.Slog()))
	e, err := nxncube.NewEngine(solve.Size, opts...)
	if err != nil {
		return err
	}

	model, err := newReplayModel(e, solve, records, cameras, replaySpeed)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

// Replay model
type replayModel struct {
	engine  *nxncube.Engine
	solve   *storage.Solve
	records []storage.MoveRecord
	moves   []nxncube.Move
	cameras []storage.CameraRecord

	index     int
	speed     float64
	paused    bool
	elapsed   time.Duration // solve time reached so far
	lastFrame time.Time
	quitting  bool
	err       error // first move the engine rejected
}

func newReplayModel(e *nxncube.Engine, solve *storage.Solve, records []storage.MoveRecord, cameras []storage.CameraRecord, speed float64) (*replayModel, error) {
	moves, err := storage.ToMoves(records)
	if err != nil {
		return nil, err
	}
	if speed <= 0 {
		speed = 1
	}
	m := &replayModel{
		engine:  e,
		solve:   solve,
		records: records,
		moves:   moves,
		cameras: cameras,
		speed:   speed,
	}
	if err := m.restart(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *replayModel) restart() error {
	if err := m.engine.Load(m.solve.ScrambleState); err != nil {
		return fmt.Errorf("failed to load scramble: %w", err)
	}
	m.index = 0
	m.elapsed = 0
	m.err = nil
	return nil
}

// advance moves the replay clock by d of solve time and submits every move
// recorded up to the new time.
func (m *replayModel) advance(d time.Duration) {
	m.elapsed += d
	for m.index < len(m.moves) && m.records[m.index].TsMs <= m.elapsed.Milliseconds() {
		m.step()
	}
}

// step submits the next recorded move. A rejected move is reported and
// skipped.
func (m *replayModel) step() {
	if m.index >= len(m.moves) {
		return
	}
	if err := m.engine.SubmitMove(m.moves[m.index]); err != nil && m.err == nil {
		m.err = fmt.Errorf("move %d (%s): %w", m.index+1, m.records[m.index].Token, err)
	}
	if ts := time.Duration(m.records[m.index].TsMs) * time.Millisecond; ts > m.elapsed {
		m.elapsed = ts
	}
	m.index++
}

// camera returns the camera position in effect at the current time.
func (m *replayModel) camera() (nxncube.Vec3, bool) {
	var (
		pos   nxncube.Vec3
		found bool
	)
	for _, c := range m.cameras {
		if c.TsMs > m.elapsed.Milliseconds() {
			break
		}
		pos, found = c.Position, true
	}
	return pos, found
}

func (m *replayModel) done() bool {
	return m.index >= len(m.moves)
}

func (m *replayModel) Init() tea.Cmd {
	return frameTick()
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "p":
			m.paused = !m.paused

		case "n":
			if m.paused {
				m.step()
			}

		case "r":
			_ = m.restart()

		case "+", "=":
			m.speed = math.Min(m.speed*2, 16)

		case "-":
			m.speed = math.Max(m.speed/2, 0.25)
		}

	case frameMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			dt := now.Sub(m.lastFrame)
			m.engine.Tick(dt)
			if !m.paused {
				m.advance(time.Duration(float64(dt) * m.speed))
			}
		}
		m.lastFrame = now
		return m, frameTick()
	}

	return m, nil
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Solve Replay " + m.solve.SolveID))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Move %d/%d", m.index, len(m.moves))
	if m.paused {
		progress += " [PAUSED]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.2gx speed)\n", m.speed))
	b.WriteString(fmt.Sprintf("Time: %s", formatDuration(m.elapsed)))
	if pos, ok := m.camera(); ok {
		b.WriteString(fmt.Sprintf("  View %+.0f°", math.Atan2(pos.X, pos.Z)*180/math.Pi))
	}
	b.WriteString("\n\n")

	b.WriteString(renderNet(m.engine.State(), m.engine.Size()))
	b.WriteString("\n")

	tokens := make([]string, m.index)
	for i := range tokens {
		tokens[i] = m.records[i].Token
	}
	if moves := renderMoves(tokens, historyLimit); moves != "" {
		b.WriteString(moves)
		b.WriteString("\n")
	}

	if m.done() {
		if m.engine.IsSolved() {
			b.WriteString(solvedStyle.Render("SOLVED"))
		} else {
			b.WriteString(statusStyle.Render("End of recording"))
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "SPACE/p=pause  n=next (paused)  r=restart  +/-=speed  q=quit"
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}
