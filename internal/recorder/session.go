package recorder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateInspecting
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInspecting:
		return "inspecting"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Result summarizes a finished solve.
type Result struct {
	SolveID    string
	DurationMs int64
	Moves      int // non-rotation moves
}

// Session records one solve at a time from an engine's completion events.
//
// The engine drives the session: it must be used from the same goroutine
// that submits moves. Getters may be called from any goroutine.
// Persistence failures are logged and never stop the solve.
type Session struct {
	engine    *nxncube.Engine
	tracker   *nxncube.Tracker
	stateFile *StateFile
	log       *slog.Logger
	now       func() time.Time

	mu           sync.RWMutex
	state        SessionState
	solveID      string
	inspectUntil time.Time
	startTime    time.Time
	moveIndex    int
	camera       *nxncube.Vec3
	result       *Result

	solveRepo  *storage.SolveRepository
	moveRepo   *storage.MoveRepository
	cameraRepo *storage.CameraRepository

	onState  func(SessionState)
	onSolved func(Result)
}

// NewSession attaches a recording session to e. stateFile may be nil.
func NewSession(db *storage.DB, stateFile *StateFile, e *nxncube.Engine, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		engine:     e,
		stateFile:  stateFile,
		log:        log,
		now:        time.Now,
		state:      StateIdle,
		solveRepo:  storage.NewSolveRepository(db),
		moveRepo:   storage.NewMoveRepository(db),
		cameraRepo: storage.NewCameraRepository(db),
	}
	// Moves are recorded before the tracker sees the completion that
	// solves the cube.
	e.OnComplete(s.handleCompletion)
	s.tracker = nxncube.NewTracker(e)
	s.tracker.SetSolvedCallback(s.handleSolved)
	return s
}

// SetStateCallback sets the callback for state changes.
func (s *Session) SetStateCallback(cb func(SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = cb
}

// SetSolvedCallback sets the callback for a finished solve.
func (s *Session) SetSolvedCallback(cb func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSolved = cb
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SolveID returns the current solve ID.
func (s *Session) SolveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.solveID
}

// MoveCount returns the number of moves recorded so far.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// Result returns the last finished solve, if any.
func (s *Session) Result() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// ElapsedMs returns the solve time so far, or the final time once ended.
func (s *Session) ElapsedMs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateRecording:
		return s.now().Sub(s.startTime).Milliseconds()
	case StateEnded:
		if s.result != nil {
			return s.result.DurationMs
		}
	}
	return 0
}

// InspectionRemaining returns how much inspection time is left.
func (s *Session) InspectionRemaining() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateInspecting {
		return 0
	}
	if d := s.inspectUntil.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}

// Start loads the scramble into the engine, creates the solve record and
// enters inspection for the given duration. A zero inspection starts the
// solve at once.
func (s *Session) Start(scramble []nxncube.Move, inspection time.Duration) (string, error) {
	s.mu.RLock()
	busy := s.state == StateInspecting || s.state == StateRecording
	s.mu.RUnlock()
	if busy {
		return "", fmt.Errorf("solve already in progress")
	}

	size := s.engine.Size()
	state, err := nxncube.ScrambleState(size, scramble)
	if err != nil {
		return "", fmt.Errorf("failed to build scramble: %w", err)
	}

	solveID, err := s.solveRepo.Create(size, state, nxncube.FormatMoves(scramble))
	if err != nil {
		return "", fmt.Errorf("failed to create solve: %w", err)
	}

	// Load before taking the lock: it finishes any in-flight turn, which
	// calls back into the session.
	if err := s.engine.Load(state); err != nil {
		return "", fmt.Errorf("failed to load scramble: %w", err)
	}

	s.mu.Lock()
	s.solveID = solveID
	s.moveIndex = 0
	s.result = nil
	s.inspectUntil = s.now().Add(inspection)
	s.mu.Unlock()

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSolve(solveID, size); err != nil {
			s.log.Warn("failed to update state file", "error", err)
		}
	}

	s.log.Info("solve started", "solve_id", solveID, "size", size, "scramble", nxncube.FormatMoves(scramble))

	if inspection <= 0 {
		s.BeginSolve()
		return solveID, nil
	}
	s.engine.SetInspection(true)
	s.setState(StateInspecting)
	return solveID, nil
}

// Tick ends inspection once its time is up. Call it from the render loop.
func (s *Session) Tick() {
	s.mu.RLock()
	due := s.state == StateInspecting && !s.now().Before(s.inspectUntil)
	s.mu.RUnlock()
	if due {
		s.BeginSolve()
	}
}

// BeginSolve ends inspection early and starts the clock.
func (s *Session) BeginSolve() {
	s.mu.Lock()
	if s.state == StateRecording || s.solveID == "" || s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	s.startTime = s.now()
	cam := s.camera
	solveID := s.solveID
	s.mu.Unlock()

	s.engine.SetInspection(false)
	s.setState(StateRecording)

	if cam != nil {
		if _, err := s.cameraRepo.Create(solveID, 0, *cam); err != nil {
			s.log.Warn("failed to store camera", "solve_id", solveID, "error", err)
		}
	}
}

// Camera records a camera position. Positions seen during inspection are
// remembered and stored when the solve begins.
func (s *Session) Camera(pos nxncube.Vec3) {
	s.mu.Lock()
	s.camera = &pos
	recording := s.state == StateRecording
	solveID := s.solveID
	ts := s.now().Sub(s.startTime).Milliseconds()
	s.mu.Unlock()

	if !recording {
		return
	}
	if _, err := s.cameraRepo.Create(solveID, ts, pos); err != nil {
		s.log.Warn("failed to store camera", "solve_id", solveID, "error", err)
	}
}

// Abort ends the current solve without completing it.
func (s *Session) Abort() {
	s.mu.Lock()
	active := s.state == StateInspecting || s.state == StateRecording
	solveID := s.solveID
	s.mu.Unlock()
	if !active {
		return
	}

	s.engine.SetInspection(false)
	s.setState(StateEnded)
	s.clearActive()
	s.log.Info("solve aborted", "solve_id", solveID)
}

func (s *Session) handleCompletion(c nxncube.Completion) {
	s.mu.Lock()
	// Rotations during inspection change the orientation the solve starts
	// from, so they are stored at ts 0.
	var ts int64
	switch {
	case s.state == StateRecording:
		ts = s.now().Sub(s.startTime).Milliseconds()
	case s.state == StateInspecting && c.Turn.Move.IsRotation():
	default:
		s.mu.Unlock()
		return
	}
	index := s.moveIndex
	s.moveIndex++
	solveID := s.solveID
	s.mu.Unlock()

	if _, err := s.moveRepo.Create(solveID, index, ts, c.Turn.Move); err != nil {
		s.log.Warn("failed to store move", "solve_id", solveID, "move", c.Turn.Move.Notation(), "error", err)
	}
}

func (s *Session) handleSolved(moves int) {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}
	res := Result{
		SolveID:    s.solveID,
		DurationMs: s.now().Sub(s.startTime).Milliseconds(),
		Moves:      moves,
	}
	s.result = &res
	onSolved := s.onSolved
	s.mu.Unlock()

	if err := s.solveRepo.Complete(res.SolveID, res.DurationMs); err != nil {
		s.log.Warn("failed to complete solve", "solve_id", res.SolveID, "error", err)
	}
	s.setState(StateEnded)
	s.clearActive()
	s.log.Info("solve finished", "solve_id", res.SolveID, "duration_ms", res.DurationMs, "moves", res.Moves)

	if onSolved != nil {
		onSolved(res)
	}
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	cb := s.onState
	s.mu.Unlock()
	if cb != nil {
		cb(state)
	}
}

func (s *Session) clearActive() {
	if s.stateFile == nil {
		return
	}
	if err := s.stateFile.ClearActiveSolve(); err != nil {
		s.log.Warn("failed to update state file", "error", err)
	}
}
