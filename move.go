package nxncube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LayerKind selects which layers along the move axis a move affects.
type LayerKind int

const (
	LayerSingle LayerKind = iota // One layer at a given depth from a face
	LayerWide                    // All layers from a face down to a given depth
	LayerSlice                   // Every layer except the two outer ones (M, E, S)
	LayerWhole                   // Every layer (x, y, z)
)

func (k LayerKind) String() string {
	switch k {
	case LayerSingle:
		return "single"
	case LayerWide:
		return "wide"
	case LayerSlice:
		return "slice"
	case LayerWhole:
		return "whole"
	default:
		return "unknown"
	}
}

// Move describes one parsed move token.
//
// Sign is relative to the face letter: +1 is the unprimed turn, -1 the primed
// one. Depth and Negative are only meaningful for single and wide moves.
type Move struct {
	Axis     Axis
	Kind     LayerKind
	Negative bool // Face sits on the axis-negative side (L, D, B)
	Depth    int  // 1-based depth of the innermost affected layer
	Sign     int  // +1 or -1
	Double   bool // Half turn
}

// tokenPattern is the move grammar. A bare depth of 1 is implicit and never
// written; lowercase outer-face letters are shorthand for wide moves.
var tokenPattern = regexp.MustCompile(`^([2-9]|[1-9][0-9]+)?([RLUDFBMESxyz]|[rludfb])(w)?(2)?(')?$`)

// ParseMove parses a move token such as R, R', 2R, Rw2, 3Fw', M' or x.
// The token must not carry surrounding whitespace. Depth is not checked
// against the puzzle size here; ResolveLayers does that.
func ParseMove(s string) (Move, error) {
	groups := tokenPattern.FindStringSubmatch(s)
	if groups == nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}
	layer, letter, wide := groups[1], groups[2], groups[3] != ""

	face := Face(letter)
	if upper := strings.ToUpper(letter); upper != letter && !Face(letter).Valid() {
		if wide {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
		}
		face = Face(upper)
		wide = true
	}

	info := faceTable[face]
	m := Move{
		Axis:   info.axis,
		Kind:   info.kind,
		Sign:   1,
		Double: groups[4] != "",
	}
	if groups[5] != "" {
		m.Sign = -1
	}

	switch info.kind {
	case LayerSlice, LayerWhole:
		if wide {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
		}
		return m, nil
	}

	m.Negative = info.flip
	m.Depth = 1
	if wide {
		m.Kind = LayerWide
		m.Depth = 2
	}
	if layer != "" {
		depth, err := strconv.Atoi(layer)
		if err != nil {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
		}
		m.Depth = depth
	}
	return m, nil
}

// MustParseMove is like ParseMove but panics on error.
// It is intended for package-level move tables.
func MustParseMove(s string) Move {
	m, err := ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Face returns the notation letter for the move.
func (m Move) Face() Face {
	switch m.Kind {
	case LayerSlice:
		return sliceFaces[m.Axis]
	case LayerWhole:
		return rotationFaces[m.Axis]
	default:
		return outerFace(m.Axis, m.Negative)
	}
}

// IsRotation reports whether the move reorients the whole puzzle.
func (m Move) IsRotation() bool {
	return m.Kind == LayerWhole
}

// Quarters returns the number of clockwise quarter turns as seen from the
// positive end of the move axis. Negative values are counter-clockwise.
func (m Move) Quarters() int {
	q := m.Sign * flipFactor(m.Face().Flip())
	if m.Double {
		q *= 2
	}
	return q
}

// Notation returns the canonical token for the move.
// The depth is omitted when it is the default, and modifiers are written in
// the order w, 2, '.
func (m Move) Notation() string {
	var b strings.Builder
	switch m.Kind {
	case LayerSingle:
		if m.Depth != 1 {
			b.WriteString(strconv.Itoa(m.Depth))
		}
		b.WriteString(string(m.Face()))
	case LayerWide:
		if m.Depth != 2 {
			b.WriteString(strconv.Itoa(m.Depth))
		}
		b.WriteString(string(m.Face()))
		b.WriteByte('w')
	default:
		b.WriteString(string(m.Face()))
	}
	if m.Double {
		b.WriteByte('2')
	}
	if m.Sign < 0 {
		b.WriteByte('\'')
	}
	return b.String()
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	m.Sign = -m.Sign
	return m
}

// Valid reports whether the descriptor is in canonical form.
func (m Move) Valid() bool {
	if m.Axis < AxisX || m.Axis > AxisZ || (m.Sign != 1 && m.Sign != -1) {
		return false
	}
	switch m.Kind {
	case LayerSingle:
		return m.Depth >= 1
	case LayerWide:
		return m.Depth >= 2
	case LayerSlice, LayerWhole:
		return m.Depth == 0 && !m.Negative
	default:
		return false
	}
}

// withQuarters returns a copy of m turned so that its axis-relative sense
// matches the sign of q.
func (m Move) withQuarters(q int) Move {
	sign := flipFactor(m.Face().Flip())
	if q < 0 {
		sign = -sign
	}
	m.Sign = sign
	return m
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'". The first invalid token fails the whole sequence.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for i, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// MustParseMoves is like ParseMoves but panics on error.
func MustParseMoves(s string) []Move {
	moves, err := ParseMoves(s)
	if err != nil {
		panic(err)
	}
	return moves
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// InvertMoves returns the sequence that undoes moves.
func InvertMoves(moves []Move) []Move {
	inv := make([]Move, len(moves))
	for i, m := range moves {
		inv[len(moves)-1-i] = m.Inverse()
	}
	return inv
}
