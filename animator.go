package nxncube

import (
	"math"
	"time"
)

// AnimationState is the state of the Animator.
type AnimationState int

const (
	StateIdle AnimationState = iota
	StateAnimating
)

// String returns the string representation of the animation state.
func (s AnimationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// EaseOutCubic decelerates towards the end of the turn.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Linear applies no easing.
func Linear(t float64) float64 {
	return t
}

// Completion is emitted once for every turn the Animator accepted, when its
// visual rotation ends.
type Completion struct {
	Turn       Turn
	Superseded bool // Finished early because another move arrived
}

type animation struct {
	turn    Turn
	target  float64 // radians around the positive axis
	elapsed time.Duration
}

// Animator sequences the visual rotation of at most one turn at a time.
//
// The logical permutation is applied before a turn reaches the Animator; the
// Animator only tracks how far the visual rotation has progressed. It has no
// clock of its own: Tick advances it.
type Animator struct {
	duration time.Duration
	easing   Easing
	current  *animation
	emit     func(Completion)
}

// NewAnimator creates an idle animator. emit receives one Completion per
// started turn and may be nil.
func NewAnimator(duration time.Duration, easing Easing, emit func(Completion)) *Animator {
	if easing == nil {
		easing = EaseOutCubic
	}
	return &Animator{duration: duration, easing: easing, emit: emit}
}

// State returns the current animation state.
func (a *Animator) State() AnimationState {
	if a.current == nil {
		return StateIdle
	}
	return StateAnimating
}

// Start finishes any in-flight rotation at its end state, then begins
// animating t. A non-positive duration completes t immediately.
func (a *Animator) Start(t Turn) {
	a.finish(true)
	a.current = &animation{
		turn:   t,
		target: -float64(t.Move.Quarters()) * math.Pi / 2,
	}
	if a.duration <= 0 {
		a.finish(false)
	}
}

// Tick advances the in-flight rotation by dt and completes it once the
// duration has elapsed.
func (a *Animator) Tick(dt time.Duration) {
	if a.current == nil {
		return
	}
	a.current.elapsed += dt
	if a.current.elapsed >= a.duration {
		a.finish(false)
	}
}

// Finish jumps the in-flight rotation, if any, straight to its end state.
func (a *Animator) Finish() {
	a.finish(true)
}

func (a *Animator) finish(superseded bool) {
	cur := a.current
	if cur == nil {
		return
	}
	a.current = nil
	if a.emit != nil {
		a.emit(Completion{Turn: cur.turn, Superseded: superseded})
	}
}

// Progress returns eased progress of the in-flight rotation in [0, 1], or 0
// when idle.
func (a *Animator) Progress() float64 {
	if a.current == nil || a.duration <= 0 {
		return 0
	}
	t := float64(a.current.elapsed) / float64(a.duration)
	if t > 1 {
		t = 1
	}
	return a.easing(t)
}

// Current returns the in-flight turn and its current angle in radians around
// the positive end of the turn axis.
func (a *Animator) Current() (Turn, float64, bool) {
	if a.current == nil {
		return Turn{}, 0, false
	}
	return a.current.turn, a.current.target * a.Progress(), true
}
