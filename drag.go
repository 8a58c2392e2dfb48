package nxncube

import (
	"fmt"
	"math"
)

// Projector maps world points to screen pixels.
type Projector interface {
	Project(p Vec3) Vec2
}

// Hit is the result of a pointer-down hit test against the puzzle.
type Hit struct {
	Cubie  Vec3 // centre offset of the hit cubie, as returned by Cube.Offset
	Point  Vec3 // exact point on the sticker surface
	Normal Vec3 // outward normal of the hit face
}

// ResolveDrag turns a drag that started on hit into a move on an n×n×n
// puzzle. drag is the screen-space vector from pointer-down to pointer-up.
func ResolveDrag(hit Hit, drag Vec2, p Projector, n int) (Move, error) {
	if n < 2 {
		return Move{}, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	normal, _ := nearestAxis(hit.Normal)

	// Pick the in-plane direction that looks most like the drag on screen.
	origin := p.Project(hit.Point)
	var (
		best     Vec3
		bestAxis Axis
		bestAng  = math.Inf(1)
	)
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		if a == normal {
			continue
		}
		for _, s := range []float64{1, -1} {
			cand := a.Unit().Scale(s)
			screen := p.Project(hit.Point.Add(cand)).Sub(origin)
			if ang := angleBetween(screen, drag); ang < bestAng {
				best, bestAxis, bestAng = cand, a, ang
			}
		}
	}

	axis := Axis(3 - int(normal) - int(bestAxis))

	// Positive determinant is a counter-clockwise turn seen from +axis.
	q := 1
	if Det3(axis.Unit(), hit.Point, best) > 0 {
		q = -1
	}

	h := float64(n-1) / 2
	index := int(math.Floor(hit.Cubie.Component(axis) + h + 0.5))
	if index < 0 || index >= n {
		return Move{}, fmt.Errorf("%w: hit layer %d on size %d", ErrLayerOutOfRange, index, n)
	}
	return layerMove(axis, index, n, q), nil
}

// DragResolver tracks one pointer gesture at a time and submits the
// resulting move to its engine.
type DragResolver struct {
	engine    *Engine
	proj      Projector
	threshold float64
	hit       *Hit
}

// NewDragResolver creates a resolver that submits to e. Drags shorter than
// threshold pixels are treated as clicks.
func NewDragResolver(e *Engine, p Projector, threshold float64) *DragResolver {
	return &DragResolver{engine: e, proj: p, threshold: threshold}
}

// Begin records a pointer-down hit on the puzzle.
func (r *DragResolver) Begin(h Hit) {
	r.hit = &h
}

// Active reports whether a gesture is in progress. When it is not, pointer
// drags belong to the camera.
func (r *DragResolver) Active() bool {
	return r.hit != nil
}

// Cancel drops the pending gesture.
func (r *DragResolver) Cancel() {
	r.hit = nil
}

// End finishes the gesture with the given screen-space drag and submits the
// resolved move. It returns ErrNoActiveGesture without a prior Begin and
// ErrDragTooShort for clicks; both are ordinary outcomes (see IsGestureMiss).
func (r *DragResolver) End(drag Vec2) (Move, error) {
	hit := r.hit
	r.hit = nil
	if hit == nil {
		return Move{}, ErrNoActiveGesture
	}
	if drag.Len() < r.threshold {
		return Move{}, ErrDragTooShort
	}

	m, err := ResolveDrag(*hit, drag, r.proj, r.engine.Size())
	if err != nil {
		return Move{}, err
	}
	if err := r.engine.SubmitMove(m); err != nil {
		return Move{}, err
	}
	return m, nil
}
