package nxncube

// Tracker watches an Engine and reports when the puzzle becomes solved.
//
// The solved check runs on move completion, not per frame, and the callback
// fires once per unsolved-to-solved transition. Whole-cube rotations never
// cause a transition since they cannot change solvedness.
type Tracker struct {
	engine         *Engine
	wasSolved      bool
	moves          int
	solvedCallback func(moves int)
}

// NewTracker attaches a tracker to e.
func NewTracker(e *Engine) *Tracker {
	t := &Tracker{
		engine:    e,
		wasSolved: e.IsSolved(),
	}
	e.OnComplete(t.onComplete)
	e.OnReset(func(string) { t.Reset() })
	return t
}

// SetSolvedCallback sets a callback that fires when the puzzle becomes
// solved. It receives the number of non-rotation moves since the last reset.
func (t *Tracker) SetSolvedCallback(cb func(moves int)) {
	t.solvedCallback = cb
}

// Reset forgets the move count and re-reads the solved state, for example
// after a scramble was loaded.
func (t *Tracker) Reset() {
	t.moves = 0
	t.wasSolved = t.engine.IsSolved()
}

func (t *Tracker) onComplete(c Completion) {
	if !c.Turn.Move.IsRotation() {
		t.moves++
	}
	solved := t.engine.IsSolved()
	if solved && !t.wasSolved && t.solvedCallback != nil {
		t.solvedCallback(t.moves)
	}
	t.wasSolved = solved
}

// Moves returns the number of non-rotation moves completed since the last
// reset.
func (t *Tracker) Moves() int {
	return t.moves
}

// IsSolved reports whether the puzzle is solved.
func (t *Tracker) IsSolved() bool {
	return t.engine.IsSolved()
}
