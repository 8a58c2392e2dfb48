package nxncube

import (
	"errors"
	"log/slog"
	"time"
)

// Engine owns one puzzle: its logical Cube, the Animator for its visual
// turns, and the inspection filter. All moves, from any source, go through
// Submit or SubmitMove.
//
// Engine is not safe for concurrent use. Callers funnel every input through
// a single goroutine (a render loop, a tea.Program, a hub's run loop).
type Engine struct {
	cfg        *config
	log        *slog.Logger
	cube       *Cube
	anim       *Animator
	inspecting bool

	onComplete []func(Completion)
	onReset    []func(state string)
}

// NewEngine creates an engine for a solved n×n×n puzzle.
func NewEngine(n int, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := NewCube(n)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:  cfg,
		log:  cfg.logger,
		cube: c,
	}
	e.anim = NewAnimator(cfg.duration, cfg.easing, e.complete)
	return e, nil
}

// OnComplete registers a callback fired once per accepted move, when its
// visual turn ends (naturally or superseded).
func (e *Engine) OnComplete(cb func(Completion)) {
	e.onComplete = append(e.onComplete, cb)
}

// OnReset registers a callback fired with the new sticker state after any
// operation that replaces the puzzle wholesale: Resize, Load, Reset.
func (e *Engine) OnReset(cb func(state string)) {
	e.onReset = append(e.onReset, cb)
}

func (e *Engine) complete(c Completion) {
	if c.Superseded && e.cfg.observer != nil {
		e.cfg.observer.AnimationSuperseded(c.Turn.Move)
	}
	for _, cb := range e.onComplete {
		cb(c)
	}
}

func (e *Engine) reset() {
	state := e.cube.State()
	for _, cb := range e.onReset {
		cb(state)
	}
}

// Submit parses a move token and submits it.
func (e *Engine) Submit(token string) error {
	m, err := ParseMove(token)
	if err != nil {
		e.reject(token, err)
		return err
	}
	return e.SubmitMove(m)
}

// SubmitMove applies m to the logical cube at once and starts its visual
// turn, finishing any turn still in flight first. While inspecting, only
// whole-cube rotations are accepted; other moves are dropped without error.
// A rejected move leaves the cube and the in-flight turn untouched.
func (e *Engine) SubmitMove(m Move) error {
	if e.inspecting && !m.IsRotation() {
		e.log.Debug("move ignored during inspection", "move", m.Notation())
		if e.cfg.observer != nil {
			e.cfg.observer.MoveFiltered(m)
		}
		return nil
	}

	if _, err := ResolveLayers(m, e.cube.Size()); err != nil {
		e.reject(m.Notation(), err)
		return err
	}

	e.anim.Finish()
	turn, err := e.cube.ApplyMove(m)
	if err != nil {
		e.reject(m.Notation(), err)
		return err
	}
	if e.cfg.observer != nil {
		e.cfg.observer.MoveApplied(m, len(turn.Layers))
	}
	e.log.Debug("move applied", "move", m.Notation(), "layers", turn.Layers)
	e.anim.Start(turn)
	return nil
}

func (e *Engine) reject(token string, err error) {
	e.log.Debug("move rejected", "token", token, "error", err)
	if e.cfg.observer != nil {
		e.cfg.observer.MoveRejected(token, err)
	}
}

// Tick advances the in-flight visual turn. Call it from the render loop.
func (e *Engine) Tick(dt time.Duration) {
	e.anim.Tick(dt)
}

// Animating reports whether a visual turn is in flight.
func (e *Engine) Animating() bool {
	return e.anim.State() == StateAnimating
}

// Animation returns the in-flight turn and its current angle in radians.
func (e *Engine) Animation() (Turn, float64, bool) {
	return e.anim.Current()
}

// SetInspection turns the inspection filter on or off.
func (e *Engine) SetInspection(on bool) {
	e.inspecting = on
}

// Inspecting reports whether the inspection filter is active.
func (e *Engine) Inspecting() bool {
	return e.inspecting
}

// Size returns the puzzle size n.
func (e *Engine) Size() int {
	return e.cube.Size()
}

// Cube returns the logical cube. Callers must not mutate it directly.
func (e *Engine) Cube() *Cube {
	return e.cube
}

// State returns the sticker state string.
func (e *Engine) State() string {
	return e.cube.State()
}

// IsSolved reports whether the puzzle is solved.
func (e *Engine) IsSolved() bool {
	return e.cube.IsSolved()
}

// Resize rebuilds the puzzle as a solved n×n×n cube.
func (e *Engine) Resize(n int) error {
	c, err := NewCube(n)
	if err != nil {
		return err
	}
	e.anim.Finish()
	e.cube = c
	e.reset()
	return nil
}

// Reset restores the solved state at the current size.
func (e *Engine) Reset() {
	_ = e.Resize(e.cube.Size())
}

// Load replaces the stickers from a state string, keeping the size.
func (e *Engine) Load(state string) error {
	next, err := NewCube(e.cube.Size())
	if err != nil {
		return err
	}
	if err := next.SetState(state); err != nil {
		return err
	}
	e.anim.Finish()
	e.cube = next
	e.reset()
	return nil
}

// DragResolver returns a drag resolver bound to this engine.
func (e *Engine) DragResolver(p Projector) *DragResolver {
	return NewDragResolver(e, p, e.cfg.dragThreshold)
}

// IsGestureMiss reports whether err is one of the expected no-op gesture
// outcomes that callers should ignore silently.
func IsGestureMiss(err error) bool {
	return errors.Is(err, ErrNoActiveGesture) || errors.Is(err, ErrDragTooShort)
}
