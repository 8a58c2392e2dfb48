package nxncube

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"
)

func TestTrackerSolvedCallback(t *testing.T) {
	e, _ := newEngine(t, 3, WithAnimationDuration(0))
	tr := NewTracker(e)

	var solvedAt []int
	tr.SetSolvedCallback(func(moves int) { solvedAt = append(solvedAt, moves) })

	submit(t, e, "R")
	if len(solvedAt) != 0 {
		t.Errorf("callback fired after R: %v", solvedAt)
	}
	submit(t, e, "R'")
	if !slices.Equal(solvedAt, []int{2}) {
		t.Errorf("solvedAt = %v, want [2]", solvedAt)
	}

	// Rotations keep a solved cube solved, so no new transition.
	submit(t, e, "x")
	if !slices.Equal(solvedAt, []int{2}) {
		t.Errorf("rotation fired the callback: %v", solvedAt)
	}
	if tr.Moves() != 2 {
		t.Errorf("Moves() = %d, want 2", tr.Moves())
	}

	submit(t, e, "U2", "U2")
	if !slices.Equal(solvedAt, []int{2, 4}) {
		t.Errorf("solvedAt = %v, want [2 4]", solvedAt)
	}
}

func TestTrackerResetOnLoad(t *testing.T) {
	e, _ := newEngine(t, 3, WithAnimationDuration(0))
	tr := NewTracker(e)
	var calls int
	tr.SetSolvedCallback(func(int) { calls++ })

	submit(t, e, "F")
	if tr.Moves() != 1 {
		t.Errorf("Moves() = %d, want 1", tr.Moves())
	}

	c := newCube(t, 3)
	apply(t, c, "R")
	if err := e.Load(c.State()); err != nil {
		t.Fatal(err)
	}
	if tr.Moves() != 0 || tr.IsSolved() {
		t.Errorf("after load: moves=%d solved=%v", tr.Moves(), tr.IsSolved())
	}

	submit(t, e, "R'")
	if calls != 1 || tr.Moves() != 1 {
		t.Errorf("after R': calls=%d moves=%d, want 1 and 1", calls, tr.Moves())
	}
}

func TestTrackerFiresOnSupersededCompletion(t *testing.T) {
	e, _ := newEngine(t, 3, WithAnimationDuration(time.Second))
	tr := NewTracker(e)
	var calls int
	tr.SetSolvedCallback(func(int) { calls++ })

	submit(t, e, "R", "R'")
	if calls != 0 {
		t.Error("callback fired while R' is still animating")
	}
	e.Tick(time.Second)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestScramble(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 7} {
		moves, err := Scramble(n, 40, rand.New(rand.NewSource(int64(n))))
		if err != nil {
			t.Fatal(err)
		}
		if len(moves) != 40 {
			t.Fatalf("size %d: got %d moves, want 40", n, len(moves))
		}

		for i, m := range moves {
			if !m.Valid() {
				t.Errorf("size %d: invalid move %s", n, m)
			}
			if m.Kind == LayerSlice {
				t.Errorf("size %d: scramble uses slice move %s", n, m)
			}
			if _, err := ResolveLayers(m, n); err != nil {
				t.Errorf("size %d: %s: %v", n, m, err)
			}
			if i > 0 && moves[i-1].Axis == m.Axis {
				t.Errorf("size %d: moves %d and %d share an axis", n, i-1, i)
			}
		}

		again, err := Scramble(n, 40, rand.New(rand.NewSource(int64(n))))
		if err != nil {
			t.Fatal(err)
		}
		if FormatMoves(moves) != FormatMoves(again) {
			t.Errorf("size %d: same seed gave different scrambles", n)
		}
	}

	if _, err := Scramble(1, 10, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Scramble(1) error = %v, want ErrInvalidSize", err)
	}
}

func TestScrambleState(t *testing.T) {
	moves, err := ParseMoves("R U")
	if err != nil {
		t.Fatal(err)
	}
	state, err := ScrambleState(3, moves)
	if err != nil {
		t.Fatal(err)
	}

	want := newCube(t, 3)
	apply(t, want, "R", "U")
	if state != want.State() {
		t.Errorf("ScrambleState = %s, want %s", state, want.State())
	}

	if _, err := ScrambleState(3, []Move{MustParseMove("4R")}); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("out of range scramble error = %v, want ErrLayerOutOfRange", err)
	}
}
