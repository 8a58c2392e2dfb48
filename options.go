package nxncube

import (
	"io"
	"log/slog"
	"time"
)

// Observer receives engine events for instrumentation.
type Observer interface {
	MoveApplied(m Move, layers int)
	MoveRejected(token string, err error)
	MoveFiltered(m Move)
	AnimationSuperseded(m Move)
}

// Option configures Engine behavior.
type Option func(*config)

type config struct {
	duration      time.Duration
	easing        Easing
	dragThreshold float64
	logger        *slog.Logger
	observer      Observer
}

// DefaultAnimationDuration is the length of one visual turn.
const DefaultAnimationDuration = 150 * time.Millisecond

// DefaultDragThreshold is the shortest drag, in pixels, that counts as a move.
const DefaultDragThreshold = 3.0

func defaultConfig() *config {
	return &config{
		duration:      DefaultAnimationDuration,
		easing:        EaseOutCubic,
		dragThreshold: DefaultDragThreshold,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithAnimationDuration sets how long one visual turn takes.
// A duration of zero completes every turn on submission.
func WithAnimationDuration(d time.Duration) Option {
	return func(c *config) {
		c.duration = d
	}
}

// WithEasing sets the easing curve for visual turns.
func WithEasing(e Easing) Option {
	return func(c *config) {
		if e != nil {
			c.easing = e
		}
	}
}

// WithDragThreshold sets the minimum drag length in pixels for drag
// resolvers created from the engine.
func WithDragThreshold(px float64) Option {
	return func(c *config) {
		c.dragThreshold = px
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers an Observer for instrumentation.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}
