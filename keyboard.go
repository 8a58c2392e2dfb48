package nxncube

import (
	"math"
	"sort"
)

// remapEntry is where a visual axis lands for one camera bucket, and whether
// its positive end now points the other way.
type remapEntry struct {
	axis Axis
	sign int
}

// remapTable is indexed by azimuth bucket (0°, 90°, 180°, -90°), then by the
// visual x and z axes.
var remapTable = [4][2]remapEntry{
	{{AxisX, 1}, {AxisZ, 1}},
	{{AxisZ, -1}, {AxisX, 1}},
	{{AxisX, -1}, {AxisZ, -1}},
	{{AxisZ, 1}, {AxisX, -1}},
}

// azimuthBucket quantizes an azimuth in radians to 0..3 for 0°, 90°, 180°
// and -90°.
func azimuthBucket(azimuth float64) int {
	b := int(math.Round(azimuth / (math.Pi / 2)))
	return ((b % 4) + 4) % 4
}

// Remap rewrites a move expressed relative to the viewer ("the face on the
// right") into the puzzle's fixed frame for a camera at the given azimuth.
// Moves around y are returned unchanged.
func Remap(m Move, azimuth float64) Move {
	var slot int
	switch m.Axis {
	case AxisX:
		slot = 0
	case AxisZ:
		slot = 1
	default:
		return m
	}

	e := remapTable[azimuthBucket(azimuth)][slot]
	q := m.Quarters() * e.sign
	if e.sign < 0 && (m.Kind == LayerSingle || m.Kind == LayerWide) {
		m.Negative = !m.Negative
	}
	m.Axis = e.axis
	return m.withQuarters(q)
}

// AzimuthSource reports the current camera azimuth in radians.
type AzimuthSource interface {
	Azimuth() float64
}

// DefaultKeyBindings maps keys to view-relative move tokens.
var DefaultKeyBindings = map[string]string{
	"i": "R", "k": "R'",
	"d": "L", "e": "L'",
	"j": "U", "f": "U'",
	"s": "D", "l": "D'",
	"h": "F", "g": "F'",
	"w": "B", "o": "B'",
	"u": "r", "m": "r'",
	"v": "l", "r": "l'",
	"5": "M", "x": "M'",
	"t": "x", "b": "x'",
	";": "y", "a": "y'",
	"p": "z", "q": "z'",
}

// Keyboard turns key presses into remapped moves and submits them.
type Keyboard struct {
	engine   *Engine
	view     AzimuthSource
	bindings map[string]string
}

// NewKeyboard creates a keyboard bound to e. A nil bindings map uses
// DefaultKeyBindings.
func NewKeyboard(e *Engine, view AzimuthSource, bindings map[string]string) *Keyboard {
	if bindings == nil {
		bindings = DefaultKeyBindings
	}
	return &Keyboard{engine: e, view: view, bindings: bindings}
}

// Press submits the move bound to key. ok is false for unbound keys.
func (k *Keyboard) Press(key string) (m Move, ok bool, err error) {
	token, ok := k.bindings[key]
	if !ok {
		return Move{}, false, nil
	}
	m, err = ParseMove(token)
	if err != nil {
		return Move{}, true, err
	}
	if k.view != nil {
		m = Remap(m, k.view.Azimuth())
	}
	return m, true, k.engine.SubmitMove(m)
}

// Keys returns the bound keys in sorted order.
func (k *Keyboard) Keys() []string {
	keys := make([]string, 0, len(k.bindings))
	for key := range k.bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
