package nxncube

import "math"

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Component returns the coordinate of v along a.
func (v Vec3) Component(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Array returns v as a plain 3-tuple, the form exchanged with collaborators.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Vec3FromArray builds a Vec3 from a plain 3-tuple.
func Vec3FromArray(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// Det3 returns the determinant of the 3×3 matrix with rows a, b and c.
// Its sign is the handedness of the triple.
func Det3(a, b, c Vec3) float64 {
	return a.Dot(b.Cross(c))
}

// nearestAxis rounds v to the closest axis-aligned unit vector and returns
// that axis with the sign of its component.
func nearestAxis(v Vec3) (Axis, int) {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	axis, comp := AxisX, v.X
	if ay > ax && ay >= az {
		axis, comp = AxisY, v.Y
	} else if az > ax && az > ay {
		axis, comp = AxisZ, v.Z
	}
	if comp < 0 {
		return axis, -1
	}
	return axis, 1
}

// Vec2 is a point or direction in screen space (pixels, y down).
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// angleBetween returns the unsigned angle between a and b in radians.
func angleBetween(a, b Vec2) float64 {
	d := math.Atan2(b.Y, b.X) - math.Atan2(a.Y, a.X)
	d = math.Mod(math.Abs(d), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
