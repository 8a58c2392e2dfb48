package nxncube

// Axis identifies one of the three cube axes.
type Axis int

const (
	AxisX Axis = iota // Left to right
	AxisY             // Down to up
	AxisZ             // Back to front
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Unit returns the unit vector pointing along the positive end of the axis.
func (a Axis) Unit() Vec3 {
	switch a {
	case AxisX:
		return Vec3{X: 1}
	case AxisY:
		return Vec3{Y: 1}
	default:
		return Vec3{Z: 1}
	}
}

// Face is a move letter in standard notation.
type Face string

const (
	FaceR Face = "R" // Right
	FaceL Face = "L" // Left
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back

	FaceM Face = "M" // Slice between L and R
	FaceE Face = "E" // Slice between U and D
	FaceS Face = "S" // Slice between F and B

	FaceX Face = "x" // Whole cube around x
	FaceY Face = "y" // Whole cube around y
	FaceZ Face = "z" // Whole cube around z
)

// faceInfo is the single source of truth for face sidedness. The flip flag
// marks faces whose unprimed turn runs against their axis' positive sense;
// for outer faces it also marks the axis-negative side used for indexing.
type faceInfo struct {
	axis Axis
	kind LayerKind
	flip bool
}

var faceTable = map[Face]faceInfo{
	FaceR: {axis: AxisX, kind: LayerSingle, flip: false},
	FaceL: {axis: AxisX, kind: LayerSingle, flip: true},
	FaceU: {axis: AxisY, kind: LayerSingle, flip: false},
	FaceD: {axis: AxisY, kind: LayerSingle, flip: true},
	FaceF: {axis: AxisZ, kind: LayerSingle, flip: false},
	FaceB: {axis: AxisZ, kind: LayerSingle, flip: true},
	FaceM: {axis: AxisX, kind: LayerSlice, flip: true},
	FaceE: {axis: AxisY, kind: LayerSlice, flip: false},
	FaceS: {axis: AxisZ, kind: LayerSlice, flip: false},
	FaceX: {axis: AxisX, kind: LayerWhole, flip: false},
	FaceY: {axis: AxisY, kind: LayerWhole, flip: false},
	FaceZ: {axis: AxisZ, kind: LayerWhole, flip: false},
}

// outerFaces is indexed by axis, then by negative side.
var outerFaces = [3][2]Face{
	AxisX: {FaceR, FaceL},
	AxisY: {FaceU, FaceD},
	AxisZ: {FaceF, FaceB},
}

var sliceFaces = [3]Face{AxisX: FaceM, AxisY: FaceE, AxisZ: FaceS}

var rotationFaces = [3]Face{AxisX: FaceX, AxisY: FaceY, AxisZ: FaceZ}

// Axis returns the axis the face turns around.
func (f Face) Axis() Axis {
	return faceTable[f].axis
}

// Flip reports whether an unprimed turn of this face runs against the
// positive sense of its axis.
func (f Face) Flip() bool {
	return faceTable[f].flip
}

// Valid reports whether f is a known face letter.
func (f Face) Valid() bool {
	_, ok := faceTable[f]
	return ok
}

// outerFace returns the outer face on the given side of an axis.
func outerFace(a Axis, negative bool) Face {
	if negative {
		return outerFaces[a][1]
	}
	return outerFaces[a][0]
}

// flipFactor converts between face-relative and axis-relative turn senses.
func flipFactor(flip bool) int {
	if flip {
		return -1
	}
	return 1
}
