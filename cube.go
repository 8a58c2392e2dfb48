package nxncube

import (
	"fmt"
	"strings"
)

// Color represents a sticker color.
type Color byte

const (
	None   Color = iota // No sticker (interior cubie side)
	White               // Up face when solved
	Green               // Front face when solved
	Red                 // Right face when solved
	Yellow              // Down face when solved
	Orange              // Left face when solved
	Blue                // Back face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// ColorFromLetter returns the color for a palette letter (W, G, R, Y, O, B).
func ColorFromLetter(b byte) (Color, bool) {
	switch b {
	case 'W':
		return White, true
	case 'G':
		return Green, true
	case 'R':
		return Red, true
	case 'Y':
		return Yellow, true
	case 'O':
		return Orange, true
	case 'B':
		return Blue, true
	default:
		return None, false
	}
}

// CubeFace is an outward face of the cube, in sticker-state order.
type CubeFace int

const (
	CubeFaceU CubeFace = iota // Up (White)
	CubeFaceF                 // Front (Green)
	CubeFaceR                 // Right (Red)
	CubeFaceD                 // Down (Yellow)
	CubeFaceL                 // Left (Orange)
	CubeFaceB                 // Back (Blue)
)

func (f CubeFace) String() string {
	switch f {
	case CubeFaceU:
		return "U"
	case CubeFaceF:
		return "F"
	case CubeFaceR:
		return "R"
	case CubeFaceD:
		return "D"
	case CubeFaceL:
		return "L"
	case CubeFaceB:
		return "B"
	default:
		return "?"
	}
}

// faceToSolvedColor returns the color of a face when solved.
func faceToSolvedColor(f CubeFace) Color {
	return Color(f) + White
}

// dir is an axis-aligned unit vector with integer components.
type dir [3]int

// The six outward directions, indexed by dirIndex.
var dirs = [6]dir{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

func dirIndex(d dir) int {
	for i, v := range dirs {
		if v == d {
			return i
		}
	}
	return -1
}

// faceFrame places a face's stickers: row 0 runs along -down, column 0 along
// -right, as seen from outside the face.
type faceFrame struct {
	normal, right, down dir
}

var faceFrames = [6]faceFrame{
	CubeFaceU: {normal: dir{0, 1, 0}, right: dir{1, 0, 0}, down: dir{0, 0, 1}},
	CubeFaceF: {normal: dir{0, 0, 1}, right: dir{1, 0, 0}, down: dir{0, -1, 0}},
	CubeFaceR: {normal: dir{1, 0, 0}, right: dir{0, 0, -1}, down: dir{0, -1, 0}},
	CubeFaceD: {normal: dir{0, -1, 0}, right: dir{1, 0, 0}, down: dir{0, 0, -1}},
	CubeFaceL: {normal: dir{-1, 0, 0}, right: dir{0, 0, 1}, down: dir{0, -1, 0}},
	CubeFaceB: {normal: dir{0, 0, -1}, right: dir{-1, 0, 0}, down: dir{0, -1, 0}},
}

// mat3 is an integer rotation matrix taking a cubie's home frame to world.
type mat3 [3][3]int

var identity = mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (m mat3) mul(o mat3) mat3 {
	var r mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

func (m mat3) apply(d dir) dir {
	var r dir
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*d[0] + m[i][1]*d[1] + m[i][2]*d[2]
	}
	return r
}

// applyInverse applies the transpose, which is the inverse of a rotation.
func (m mat3) applyInverse(d dir) dir {
	var r dir
	for i := 0; i < 3; i++ {
		r[i] = m[0][i]*d[0] + m[1][i]*d[1] + m[2][i]*d[2]
	}
	return r
}

// clockwise returns the quarter turn clockwise as seen from the positive end
// of axis a. With (u, v) the next two axes in cyclic order, it maps
// u to -v and v to u.
func clockwise(a Axis) mat3 {
	u, v := (int(a)+1)%3, (int(a)+2)%3
	var m mat3
	m[a][a] = 1
	m[u][v] = 1
	m[v][u] = -1
	return m
}

// Cube is the logical state of an n×n×n puzzle: a bijection from grid
// position to cubie identity, each cubie's orientation, and its stickers.
//
// Grid positions are indexed as i + n*j + n*n*k for coordinates (i, j, k)
// along x, y and z. Cubie identities are their home position index.
type Cube struct {
	n        int
	slots    []int      // position -> cubie id
	orient   []mat3     // cubie id -> home-to-world rotation
	stickers [][6]Color // cubie id -> color by home direction

	dirty  bool
	solved bool
}

// NewCube creates a solved n×n×n cube with standard orientation:
// White on top, Green in front.
func NewCube(n int) (*Cube, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	total := n * n * n
	c := &Cube{
		n:        n,
		slots:    make([]int, total),
		orient:   make([]mat3, total),
		stickers: make([][6]Color, total),
	}
	for id := range c.slots {
		c.slots[id] = id
		c.orient[id] = identity
	}
	for f := CubeFaceU; f <= CubeFaceB; f++ {
		color := faceToSolvedColor(f)
		c.eachSticker(f, func(id, d int) {
			c.stickers[id][d] = color
		})
	}
	c.solved = true
	return c, nil
}

// Size returns n.
func (c *Cube) Size() int {
	return c.n
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := &Cube{
		n:        c.n,
		slots:    append([]int(nil), c.slots...),
		orient:   append([]mat3(nil), c.orient...),
		stickers: append([][6]Color(nil), c.stickers...),
		dirty:    c.dirty,
		solved:   c.solved,
	}
	return clone
}

// Equal reports whether both cubes have the same grid mapping and cubie
// orientations.
func (c *Cube) Equal(o *Cube) bool {
	if c.n != o.n {
		return false
	}
	for i := range c.slots {
		if c.slots[i] != o.slots[i] {
			return false
		}
	}
	for i := range c.orient {
		if c.orient[i] != o.orient[i] {
			return false
		}
	}
	return true
}

func (c *Cube) index(i, j, k int) int {
	return i + c.n*j + c.n*c.n*k
}

func (c *Cube) coords(pos int) [3]int {
	return [3]int{pos % c.n, (pos / c.n) % c.n, pos / (c.n * c.n)}
}

// CubieAt returns the identity of the cubie at grid coordinate (i, j, k).
func (c *Cube) CubieAt(i, j, k int) int {
	return c.slots[c.index(i, j, k)]
}

// Slots returns a copy of the position -> cubie mapping.
func (c *Cube) Slots() []int {
	return append([]int(nil), c.slots...)
}

// Offset returns the centre of grid coordinate (i, j, k), with the whole
// puzzle centred on the origin and cubies one unit wide.
func (c *Cube) Offset(i, j, k int) Vec3 {
	h := float64(c.n-1) / 2
	return Vec3{float64(i) - h, float64(j) - h, float64(k) - h}
}

// Layer returns the cubie identities at index along axis, in grid order.
func (c *Cube) Layer(axis Axis, index int) []int {
	u, v := (int(axis)+1)%3, (int(axis)+2)%3
	out := make([]int, 0, c.n*c.n)
	var p [3]int
	p[axis] = index
	for a := 0; a < c.n; a++ {
		for b := 0; b < c.n; b++ {
			p[u], p[v] = a, b
			out = append(out, c.slots[c.index(p[0], p[1], p[2])])
		}
	}
	return out
}

// RotateLayer turns the layer at index along axis by quarters clockwise
// quarter turns, as seen from the positive end of the axis. Negative values
// turn counter-clockwise. Only cubies in that layer move.
func (c *Cube) RotateLayer(axis Axis, index, quarters int) {
	q := ((quarters % 4) + 4) % 4
	if q == 0 {
		return
	}
	u, v := (int(axis)+1)%3, (int(axis)+2)%3
	turn := clockwise(axis)
	layer := make([]int, c.n*c.n)

	for ; q > 0; q-- {
		var p [3]int
		p[axis] = index
		// A clockwise quarter takes (u, v) to (v, n-1-u).
		for a := 0; a < c.n; a++ {
			for b := 0; b < c.n; b++ {
				p[u], p[v] = a, b
				id := c.slots[c.index(p[0], p[1], p[2])]
				layer[b*c.n+(c.n-1-a)] = id
				c.orient[id] = turn.mul(c.orient[id])
			}
		}
		for a := 0; a < c.n; a++ {
			for b := 0; b < c.n; b++ {
				p[u], p[v] = a, b
				c.slots[c.index(p[0], p[1], p[2])] = layer[a*c.n+b]
			}
		}
	}
	c.dirty = true
}

// Turn is the outcome of applying one move: the layers it turned and the
// cubies in each, which is the grouping a renderer animates.
type Turn struct {
	Move   Move
	Layers []int   // resolved layer indices along Move.Axis
	Groups [][]int // cubie identities per layer, parallel to Layers
}

// Cubies returns every cubie identity in the turn.
func (t Turn) Cubies() []int {
	var out []int
	for _, g := range t.Groups {
		out = append(out, g...)
	}
	return out
}

// ApplyMove resolves the move's layers and turns each of them.
// On error the cube is left untouched.
func (c *Cube) ApplyMove(m Move) (Turn, error) {
	layers, err := ResolveLayers(m, c.n)
	if err != nil {
		return Turn{}, err
	}
	t := Turn{Move: m, Layers: layers, Groups: make([][]int, len(layers))}
	q := m.Quarters()
	for i, index := range layers {
		t.Groups[i] = c.Layer(m.Axis, index)
		c.RotateLayer(m.Axis, index, q)
	}
	return t, nil
}

// eachSticker calls fn with the cubie id and home direction index of every
// sticker currently on face f, in state-string order.
func (c *Cube) eachSticker(f CubeFace, fn func(id, d int)) {
	frame := faceFrames[f]
	for row := 0; row < c.n; row++ {
		for col := 0; col < c.n; col++ {
			p := c.stickerCoords(f, row, col)
			id := c.slots[c.index(p[0], p[1], p[2])]
			fn(id, dirIndex(c.orient[id].applyInverse(frame.normal)))
		}
	}
}

// stickerCoords returns the grid coordinate behind sticker row, col of f.
func (c *Cube) stickerCoords(f CubeFace, row, col int) [3]int {
	frame := faceFrames[f]
	var p [3]int
	for a := 0; a < 3; a++ {
		switch {
		case frame.normal[a] > 0:
			p[a] = c.n - 1
		case frame.normal[a] < 0:
			p[a] = 0
		case frame.right[a] > 0:
			p[a] = col
		case frame.right[a] < 0:
			p[a] = c.n - 1 - col
		case frame.down[a] > 0:
			p[a] = row
		default:
			p[a] = c.n - 1 - row
		}
	}
	return p
}

// State serializes the stickers as 6·n² color letters, faces in the order
// U F R D L B.
func (c *Cube) State() string {
	var b strings.Builder
	b.Grow(6 * c.n * c.n)
	for f := CubeFaceU; f <= CubeFaceB; f++ {
		c.eachSticker(f, func(id, d int) {
			b.WriteString(c.stickers[id][d].String())
		})
	}
	return b.String()
}

// SetState replaces every sticker from a state string produced by State.
// The grid mapping is kept; colors are reassigned through it.
func (c *Cube) SetState(s string) error {
	want := 6 * c.n * c.n
	if len(s) != want {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidState, len(s), want)
	}
	colors := make([]Color, len(s))
	for i := 0; i < len(s); i++ {
		col, ok := ColorFromLetter(s[i])
		if !ok {
			return fmt.Errorf("%w: unknown color %q at %d", ErrInvalidState, s[i], i)
		}
		colors[i] = col
	}

	for id := range c.stickers {
		c.stickers[id] = [6]Color{}
	}
	i := 0
	for f := CubeFaceU; f <= CubeFaceB; f++ {
		c.eachSticker(f, func(id, d int) {
			c.stickers[id][d] = colors[i]
			i++
		})
	}
	c.dirty = true
	return nil
}

// IsSolved reports whether every face shows a single color, each color on
// one face only. The result is cached until the grid changes.
func (c *Cube) IsSolved() bool {
	if !c.dirty {
		return c.solved
	}
	c.solved = c.checkSolved()
	c.dirty = false
	return c.solved
}

func (c *Cube) checkSolved() bool {
	colorFace := make(map[Color]CubeFace, 6)
	for f := CubeFaceU; f <= CubeFaceB; f++ {
		faceColor := None
		ok := true
		c.eachSticker(f, func(id, d int) {
			col := c.stickers[id][d]
			if faceColor == None {
				faceColor = col
			}
			if col != faceColor {
				ok = false
			}
			if prev, seen := colorFace[col]; seen && prev != f {
				ok = false
			}
			colorFace[col] = f
		})
		if !ok {
			return false
		}
	}
	return true
}

// String returns a text representation of the cube as an unfolded net.
func (c *Cube) String() string {
	state := c.State()
	nn := c.n * c.n
	face := func(f CubeFace, row int) string {
		start := int(f)*nn + row*c.n
		return strings.Join(strings.Split(state[start:start+c.n], ""), " ")
	}
	pad := strings.Repeat(" ", 2*c.n)

	var b strings.Builder
	for row := 0; row < c.n; row++ {
		b.WriteString(pad + face(CubeFaceU, row) + "\n")
	}
	for row := 0; row < c.n; row++ {
		parts := []string{face(CubeFaceL, row), face(CubeFaceF, row), face(CubeFaceR, row), face(CubeFaceB, row)}
		b.WriteString(strings.Join(parts, " ") + "\n")
	}
	for row := 0; row < c.n; row++ {
		b.WriteString(pad + face(CubeFaceD, row) + "\n")
	}
	return b.String()
}
