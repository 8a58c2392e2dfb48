package nxncube

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestRemap(t *testing.T) {
	const (
		deg0   = 0.0
		deg90  = math.Pi / 2
		deg180 = math.Pi
		degM90 = -math.Pi / 2
	)
	tests := []struct {
		azimuth float64
		token   string
		want    string
	}{
		{deg0, "R", "R"},
		{deg0, "F'", "F'"},
		{deg90, "R", "B"},
		{deg90, "R'", "B'"},
		{deg90, "F", "R"},
		{deg90, "L", "F"},
		{deg90, "2R", "2B"},
		{deg90, "Rw", "Bw"},
		{deg90, "M", "S"},
		{deg90, "x", "z'"},
		{deg90, "z", "x"},
		{deg90, "U", "U"},
		{deg90, "Dw'", "Dw'"},
		{deg180, "R", "L"},
		{deg180, "F2", "B2"},
		{deg180, "x", "x'"},
		{deg180, "S", "S'"},
		{degM90, "R", "F"},
		{degM90, "F", "L"},
		{degM90, "B'", "R'"},
		{80 * math.Pi / 180, "R", "B"},
		{-170 * math.Pi / 180, "R", "L"},
		{3 * math.Pi / 2, "R", "F"},
		{44 * math.Pi / 180, "R", "R"},
	}
	for _, tt := range tests {
		got := Remap(MustParseMove(tt.token), tt.azimuth)
		if got.Notation() != tt.want || !got.Valid() {
			t.Errorf("%s at %.0f° = %s, want %s", tt.token, tt.azimuth*180/math.Pi, got, tt.want)
		}
	}
}

func TestRemapPreservesPhysicalTurn(t *testing.T) {
	// The visually-right face from each side of the puzzle, applied to a
	// cube rotated the same way, matches R on the unrotated cube.
	views := []struct {
		azimuth  float64
		rotation string
	}{
		{0, ""},
		{math.Pi / 2, "y"},
		{math.Pi, "y2"},
		{-math.Pi / 2, "y'"},
	}
	for _, v := range views {
		for _, tok := range []string{"R", "F'", "Lw", "M2", "x"} {
			remapped := newCube(t, 3)
			applyMoves(t, remapped, []Move{Remap(MustParseMove(tok), v.azimuth)})

			viaRotation := newCube(t, 3)
			if v.rotation != "" {
				rot := MustParseMove(v.rotation)
				applyMoves(t, viaRotation, []Move{rot, MustParseMove(tok), rot.Inverse()})
			} else {
				apply(t, viaRotation, tok)
			}
			if viaRotation.State() != remapped.State() {
				t.Errorf("%s at %.2f rad does not match the rotated cube", tok, v.azimuth)
			}
		}
	}
}

type fixedAzimuth float64

func (f fixedAzimuth) Azimuth() float64 { return float64(f) }

func TestKeyboardPress(t *testing.T) {
	e, done := newEngine(t, 3, WithAnimationDuration(0))
	cam := NewCamera(Vec3{X: 8}, 800, 600)
	kb := NewKeyboard(e, cam, nil)

	m, ok, err := kb.Press("i")
	if err != nil || !ok {
		t.Fatalf("Press(i) = %v, %v", ok, err)
	}
	if m.Notation() != "B" {
		t.Errorf("i from the right side = %s, want B", m)
	}
	if len(*done) != 1 {
		t.Fatalf("got %d completions, want 1", len(*done))
	}

	_, ok, err = kb.Press("?")
	if err != nil || ok {
		t.Errorf("unbound key: ok=%v err=%v", ok, err)
	}
	if len(*done) != 1 {
		t.Errorf("unbound key turned the cube")
	}

	kb = NewKeyboard(e, fixedAzimuth(0), map[string]string{"z": "Q", "y": " R"})
	for _, key := range []string{"z", "y"} {
		if _, ok, err = kb.Press(key); !ok || !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Press(%s) = %v, %v; want ErrInvalidToken", key, ok, err)
		}
	}
	if keys := kb.Keys(); !slices.Equal(keys, []string{"y", "z"}) {
		t.Errorf("Keys() = %v, want [y z]", keys)
	}
}

func TestDefaultKeyBindingsParse(t *testing.T) {
	for key, tok := range DefaultKeyBindings {
		if _, err := ParseMove(tok); err != nil {
			t.Errorf("key %q: %v", key, err)
		}
	}
}
