package nxncube

import (
	"errors"
	"math"
	"testing"
	"time"
)

func frontRightCamera() *Camera {
	return NewCamera(DefaultCameraPosition, 800, 600)
}

func resolve(t *testing.T, hit Hit, drag Vec2, p Projector, n int) Move {
	t.Helper()
	m, err := ResolveDrag(hit, drag, p, n)
	if err != nil {
		t.Fatalf("ResolveDrag(%v): %v", drag, err)
	}
	return m
}

func TestResolveDragRightFaceUp(t *testing.T) {
	cam := frontRightCamera()
	hit := Hit{
		Cubie:  Vec3{X: 1, Y: 0, Z: 1},
		Point:  Vec3{X: 1.5, Y: 0, Z: 1},
		Normal: Vec3{X: 1},
	}

	for i := 0; i < 10; i++ {
		if got := resolve(t, hit, Vec2{X: 0, Y: -30}, cam, 3).Notation(); got != "F'" {
			t.Fatalf("attempt %d: drag up = %s, want F'", i, got)
		}
	}

	if got := resolve(t, hit, Vec2{X: 0, Y: 30}, cam, 3).Notation(); got != "F" {
		t.Errorf("drag down = %s, want F", got)
	}
}

func TestResolveDragRightFaceSideways(t *testing.T) {
	cam := frontRightCamera()
	hit := Hit{
		Cubie:  Vec3{X: 1, Y: 1, Z: 0},
		Point:  Vec3{X: 1.5, Y: 1, Z: 0},
		Normal: Vec3{X: 0.98, Y: 0.1, Z: 0.05},
	}
	if got := resolve(t, hit, Vec2{X: -30, Y: 0}, cam, 3).Notation(); got != "U" {
		t.Errorf("drag left = %s, want U", got)
	}
}

func TestResolveDragMiddleLayer(t *testing.T) {
	cam := frontRightCamera()
	hit := Hit{
		Cubie:  Vec3{X: 1, Y: 0, Z: 0},
		Point:  Vec3{X: 1.5, Y: 0, Z: 0},
		Normal: Vec3{X: 1},
	}
	m := resolve(t, hit, Vec2{X: 0, Y: -30}, cam, 3)
	if m.Kind != LayerSlice || m.Axis != AxisZ {
		t.Errorf("middle drag = %s, want a slice about z", m)
	}
}

func TestResolveDragEvenSize(t *testing.T) {
	cam := frontRightCamera()
	// Second layer from the front on a 4×4×4.
	hit := Hit{
		Cubie:  Vec3{X: 1.5, Y: 0.5, Z: 0.5},
		Point:  Vec3{X: 2, Y: 0.5, Z: 0.5},
		Normal: Vec3{X: 1},
	}
	if got := resolve(t, hit, Vec2{X: 0, Y: -30}, cam, 4).Notation(); got != "2F'" {
		t.Errorf("drag up = %s, want 2F'", got)
	}
}

func TestDragResolverGestures(t *testing.T) {
	e, done := newEngine(t, 3, WithAnimationDuration(0))
	r := e.DragResolver(frontRightCamera())

	_, err := r.End(Vec2{Y: -30})
	if !errors.Is(err, ErrNoActiveGesture) || !IsGestureMiss(err) {
		t.Errorf("End without Begin error = %v, want ErrNoActiveGesture", err)
	}

	hit := Hit{Cubie: Vec3{X: 1, Z: 1}, Point: Vec3{X: 1.5, Z: 1}, Normal: Vec3{X: 1}}
	r.Begin(hit)
	if !r.Active() {
		t.Error("gesture should be active after Begin")
	}
	_, err = r.End(Vec2{X: 1, Y: -2})
	if !errors.Is(err, ErrDragTooShort) || !IsGestureMiss(err) {
		t.Errorf("short drag error = %v, want ErrDragTooShort", err)
	}
	if r.Active() {
		t.Error("a click ends the gesture")
	}
	if e.State() != solved3 {
		t.Error("a click must not turn the cube")
	}

	r.Begin(hit)
	m, err := r.End(Vec2{Y: -30})
	if err != nil {
		t.Fatal(err)
	}
	if m.Notation() != "F'" {
		t.Errorf("drag = %s, want F'", m)
	}
	if len(*done) != 1 {
		t.Fatalf("got %d completions, want 1", len(*done))
	}

	want := newCube(t, 3)
	apply(t, want, "F'")
	if e.State() != want.State() {
		t.Error("drag did not apply F'")
	}

	r.Begin(hit)
	r.Cancel()
	if _, err = r.End(Vec2{Y: -30}); !errors.Is(err, ErrNoActiveGesture) {
		t.Errorf("End after Cancel error = %v, want ErrNoActiveGesture", err)
	}
}

func TestDragThresholdOption(t *testing.T) {
	e, _ := newEngine(t, 3, WithDragThreshold(50), WithAnimationDuration(time.Millisecond))
	r := e.DragResolver(frontRightCamera())
	r.Begin(Hit{Cubie: Vec3{X: 1, Z: 1}, Point: Vec3{X: 1.5, Z: 1}, Normal: Vec3{X: 1}})
	if _, err := r.End(Vec2{Y: -30}); !errors.Is(err, ErrDragTooShort) {
		t.Errorf("error = %v, want ErrDragTooShort", err)
	}
}

func TestCameraProjection(t *testing.T) {
	cam := NewCamera(Vec3{Z: 10}, 800, 600)
	centre := cam.Project(Vec3{})
	if !near(centre.X, 400) || !near(centre.Y, 300) {
		t.Errorf("origin projects to %v, want (400, 300)", centre)
	}

	if right := cam.Project(Vec3{X: 1}); right.X <= centre.X {
		t.Errorf("+x projects to %v, should be right of centre", right)
	}
	if up := cam.Project(Vec3{Y: 1}); up.Y >= centre.Y {
		t.Errorf("+y projects to %v, screen y points down", up)
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera(Vec3{Z: 10}, 800, 600)
	if !near(cam.Azimuth(), 0) {
		t.Errorf("azimuth = %v, want 0", cam.Azimuth())
	}

	cam.Orbit(math.Pi/2, 0)
	if !near(cam.Azimuth(), math.Pi/2) {
		t.Errorf("azimuth = %v, want π/2", cam.Azimuth())
	}
	if !near(cam.Position.X, 10) || !near(cam.Position.Len(), 10) {
		t.Errorf("position = %v, want (10, 0, 0)", cam.Position)
	}

	cam.Orbit(0, math.Pi)
	if y := cam.Position.Y; y >= 10 || y <= 9.9 {
		t.Errorf("elevation should clamp just below the pole, y = %v", y)
	}
}

func TestDet3Handedness(t *testing.T) {
	if d := Det3(Vec3{X: 1}, Vec3{Y: 1}, Vec3{Z: 1}); !near(d, 1) {
		t.Errorf("det(x, y, z) = %v, want 1", d)
	}
	if d := Det3(Vec3{Y: 1}, Vec3{X: 1}, Vec3{Z: 1}); !near(d, -1) {
		t.Errorf("det(y, x, z) = %v, want -1", d)
	}
}

func TestNetDrags(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		face     CubeFace
		row, col int
		drag     Vec2
		want     string
	}{
		{"front top row right", 3, CubeFaceF, 0, 1, Vec2{X: 1}, "U'"},
		{"front top row left", 3, CubeFaceF, 0, 1, Vec2{X: -1}, "U"},
		{"right top row right", 3, CubeFaceR, 0, 1, Vec2{X: 1}, "U'"},
		{"up front row right", 3, CubeFaceU, 2, 1, Vec2{X: 1}, "F"},
		{"front right column down", 3, CubeFaceF, 1, 2, Vec2{Y: 1}, "R'"},
		{"front right column up", 3, CubeFaceF, 1, 2, Vec2{Y: -1}, "R"},
		{"inner row on 4x4", 4, CubeFaceF, 1, 0, Vec2{X: 1}, "2U'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCube(t, tt.size)
			hit, err := c.StickerHit(tt.face, tt.row, tt.col)
			if err != nil {
				t.Fatal(err)
			}
			if got := resolve(t, hit, tt.drag, NetProjector(tt.face), tt.size).Notation(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStickerHitOutOfRange(t *testing.T) {
	c := newCube(t, 3)

	if _, err := c.StickerHit(CubeFaceF, 3, 0); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("row 3 error = %v, want ErrLayerOutOfRange", err)
	}
	if _, err := c.StickerHit(CubeFace(9), 0, 0); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("face 9 error = %v, want ErrLayerOutOfRange", err)
	}

	hit, err := c.StickerHit(CubeFaceU, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := Hit{
		Cubie:  Vec3{X: -1, Y: 1, Z: -1},
		Point:  Vec3{X: -1, Y: 1.5, Z: -1},
		Normal: Vec3{Y: 1},
	}
	if hit != want {
		t.Errorf("StickerHit(U, 0, 0) = %+v, want %+v", hit, want)
	}
}
