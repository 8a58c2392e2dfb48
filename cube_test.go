package nxncube

import (
	"errors"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"testing"
)

const solved3 = "WWWWWWWWWGGGGGGGGGRRRRRRRRRYYYYYYYYYOOOOOOOOOBBBBBBBBB"

func newCube(t *testing.T, n int) *Cube {
	t.Helper()
	c, err := NewCube(n)
	if err != nil {
		t.Fatalf("NewCube(%d): %v", n, err)
	}
	return c
}

func apply(t *testing.T, c *Cube, tokens ...string) {
	t.Helper()
	for _, tok := range tokens {
		if _, err := c.ApplyMove(MustParseMove(tok)); err != nil {
			t.Fatalf("%s: %v", tok, err)
		}
	}
}

func applyMoves(t *testing.T, c *Cube, moves []Move) {
	t.Helper()
	for _, m := range moves {
		if _, err := c.ApplyMove(m); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}
}

func TestNewCubeIsSolved(t *testing.T) {
	for n := 2; n <= 7; n++ {
		c := newCube(t, n)
		if !c.IsSolved() {
			t.Errorf("new size %d cube should be solved", n)
		}
		if got := len(c.State()); got != 6*n*n {
			t.Errorf("size %d state length = %d, want %d", n, got, 6*n*n)
		}
	}
	if got := newCube(t, 3).State(); got != solved3 {
		t.Errorf("solved 3x3 state = %s", got)
	}
}

func TestNewCubeRejectsSmallSizes(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := NewCube(n); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewCube(%d) error = %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := newCube(t, 3)
	apply(t, c, "R")
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
}

func TestRStickers(t *testing.T) {
	c := newCube(t, 3)
	apply(t, c, "R")
	s := c.State()

	tests := []struct {
		name       string
		start, end int
		want       string
	}{
		{"U", 0, 9, "WWGWWGWWG"},
		{"F", 9, 18, "GGYGGYGGY"},
		{"R", 18, 27, "RRRRRRRRR"},
		{"L", 36, 45, "OOOOOOOOO"},
	}
	for _, tt := range tests {
		if got := s[tt.start:tt.end]; got != tt.want {
			t.Errorf("%s face after R = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestUStickers(t *testing.T) {
	c := newCube(t, 3)
	apply(t, c, "U")
	s := c.State()

	if got := s[9:12]; got != "RRR" {
		t.Errorf("F top row = %s, want RRR", got)
	}
	if got := s[18:21]; got != "BBB" {
		t.Errorf("R top row = %s, want BBB", got)
	}
	if got := s[0:9]; got != "WWWWWWWWW" {
		t.Errorf("U face = %s", got)
	}
	if got := s[27:36]; got != "YYYYYYYYY" {
		t.Errorf("D face = %s", got)
	}
}

func TestOrderFour(t *testing.T) {
	tokens := []string{"R", "L", "U", "D", "F", "B", "2R", "3U'", "Rw", "3Lw", "M", "E", "S", "x", "y", "z"}
	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			c := newCube(t, 5)
			fresh := newCube(t, 5)
			apply(t, c, tok, tok, tok)
			if c.Equal(fresh) {
				t.Error("three quarters should not be identity")
			}
			apply(t, c, tok)
			if !c.Equal(fresh) {
				t.Error("four quarters should be identity")
				t.Log(c.String())
			}
		})
	}
}

func TestDoubleEqualsTwoQuarters(t *testing.T) {
	for _, face := range []string{"R", "L", "U", "D", "F", "B", "M", "E", "S", "x", "y", "z", "Rw", "2F"} {
		doubled := newCube(t, 4)
		twice := newCube(t, 4)
		apply(t, doubled, face+"2")
		apply(t, twice, face, face)
		if !doubled.Equal(twice) {
			t.Errorf("%s2 should equal %s %s", face, face, face)
		}
	}
}

func TestInverseLaw(t *testing.T) {
	tokens := []string{"R", "L'", "U2", "D", "F'", "B", "2R", "3Bw'", "Uw2", "x", "y'", "z2", "M", "E'", "S2"}
	for _, tok := range tokens {
		c := newCube(t, 5)
		m := MustParseMove(tok)
		applyMoves(t, c, []Move{m, m.Inverse()})
		if !c.Equal(newCube(t, 5)) || !c.IsSolved() {
			t.Errorf("%s followed by its inverse should be identity", tok)
		}
	}
}

func TestInvertMovesRestores(t *testing.T) {
	c := newCube(t, 3)
	moves, err := ParseMoves("R U R' U' F2 Lw' M x D")
	if err != nil {
		t.Fatal(err)
	}
	applyMoves(t, c, append(moves, InvertMoves(moves)...))
	if !c.Equal(newCube(t, 3)) {
		t.Error("sequence plus its inverse should restore the cube")
	}
}

func TestPermutationClosure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 2; n <= 6; n++ {
		c := newCube(t, n)
		moves, err := Scramble(n, 60, rng)
		if err != nil {
			t.Fatal(err)
		}
		applyMoves(t, c, moves)

		slots := c.Slots()
		slices.Sort(slots)
		for i, id := range slots {
			if i != id {
				t.Fatalf("size %d: grid is not a bijection at %d", n, i)
			}
		}
	}
}

func TestWideContainment(t *testing.T) {
	const n = 6
	for _, face := range []string{"R", "L", "U", "D", "F", "B"} {
		for depth := 2; depth <= n; depth++ {
			wide := MustParseMove(strconv.Itoa(depth) + face + "w")
			got, err := ResolveLayers(wide, n)
			if err != nil {
				t.Fatal(err)
			}

			var want []int
			for d := 1; d <= depth; d++ {
				single := MustParseMove(face)
				single.Depth = d
				layers, err := ResolveLayers(single, n)
				if err != nil {
					t.Fatal(err)
				}
				want = append(want, layers...)
			}
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("%d%sw layers = %v, want %v", depth, face, got, want)
			}
		}
	}
}

func TestWideMoveEquivalence(t *testing.T) {
	wide := newCube(t, 4)
	split := newCube(t, 4)

	turn, err := wide.ApplyMove(MustParseMove("Rw"))
	if err != nil {
		t.Fatal(err)
	}
	r, err := split.ApplyMove(MustParseMove("R"))
	if err != nil {
		t.Fatal(err)
	}
	r2, err := split.ApplyMove(MustParseMove("2R"))
	if err != nil {
		t.Fatal(err)
	}

	if !wide.Equal(split) || wide.State() != split.State() {
		t.Error("Rw should equal R then 2R")
	}

	got := turn.Cubies()
	want := append(r.Cubies(), r2.Cubies()...)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("Rw cubies = %v, want %v", got, want)
	}
	if len(got) != 32 {
		t.Errorf("Rw moves %d cubies, want 32", len(got))
	}
}

func TestTurnGroupsMatchLayers(t *testing.T) {
	c := newCube(t, 3)
	turn, err := c.ApplyMove(MustParseMove("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(turn.Layers, []int{0, 1, 2}) {
		t.Errorf("x layers = %v", turn.Layers)
	}
	if len(turn.Groups) != 3 {
		t.Fatalf("x groups = %d, want 3", len(turn.Groups))
	}
	for i, g := range turn.Groups {
		if len(g) != 9 {
			t.Errorf("group %d has %d cubies, want 9", i, len(g))
		}
	}
}

func TestApplyMoveOutOfRangeLeavesCube(t *testing.T) {
	c := newCube(t, 3)
	apply(t, c, "R")
	before := c.Clone()

	if _, err := c.ApplyMove(MustParseMove("4R")); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("4R error = %v, want ErrLayerOutOfRange", err)
	}
	if !c.Equal(before) {
		t.Error("rejected move changed the cube")
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	c := newCube(t, 3)
	if err := c.SetState(solved3); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		applyMoves(t, c, SexyMove)
		if i < 5 && c.IsSolved() {
			t.Errorf("solved after only %d repetitions", i+1)
		}
	}
	if !c.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(c.String())
	}
}

func TestTPermTwiceIsIdentity(t *testing.T) {
	c := newCube(t, 3)
	applyMoves(t, c, TPerm)
	applyMoves(t, c, TPerm)
	if !c.IsSolved() {
		t.Error("T-perm twice should return to solved")
		t.Log(c.String())
	}
}

func TestRotationKeepsSolved(t *testing.T) {
	c := newCube(t, 4)
	apply(t, c, "x", "y'", "z2")
	if !c.IsSolved() {
		t.Error("rotations should keep the cube solved")
	}
	if c.State() == newCube(t, 4).State() {
		t.Error("rotations should change the sticker layout")
	}
}

func TestStateRoundTrip(t *testing.T) {
	src := newCube(t, 4)
	apply(t, src, "R", "Uw", "2F'", "B2", "3Dw")
	state := src.State()

	dst := newCube(t, 4)
	if err := dst.SetState(state); err != nil {
		t.Fatal(err)
	}
	if dst.State() != state {
		t.Errorf("loaded state = %s, want %s", dst.State(), state)
	}
	if dst.IsSolved() {
		t.Error("loaded cube should not be solved")
	}

	// Moves on the loaded cube track moves on the source.
	apply(t, src, "L'")
	apply(t, dst, "L'")
	if src.State() != dst.State() {
		t.Error("loaded cube diverged from its source")
	}
}

func TestSetStateRejectsBadInput(t *testing.T) {
	c := newCube(t, 3)
	for _, state := range []string{"WWW", solved3[:53] + "X"} {
		if err := c.SetState(state); !errors.Is(err, ErrInvalidState) {
			t.Errorf("SetState(%q) error = %v, want ErrInvalidState", state, err)
		}
	}
	if c.State() != solved3 {
		t.Error("rejected state changed the cube")
	}
}

func TestSolvedRequiresDistinctFaceColors(t *testing.T) {
	c := newCube(t, 2)
	// Every face uniform, but two faces share a color.
	state := "WWWW" + "GGGG" + "RRRR" + "YYYY" + "OOOO" + "GGGG"
	if err := c.SetState(state); err != nil {
		t.Fatal(err)
	}
	if c.IsSolved() {
		t.Error("cube with a repeated face color should not be solved")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := newCube(t, 3)
	clone := c.Clone()
	apply(t, clone, "F")
	if !c.IsSolved() || clone.IsSolved() {
		t.Error("moves on a clone should not reach the original")
	}
}

func TestCubeString(t *testing.T) {
	s := newCube(t, 2).String()
	for _, want := range []string{"W W", "O O G G R R B B"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
