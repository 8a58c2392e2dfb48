package nxncube

import "math"

// Camera is an orbit camera that always looks at the origin with +y up.
// It provides the projection and azimuth services the drag resolver and the
// keyboard remapper consume.
type Camera struct {
	Position Vec3
	Width    float64 // viewport width in pixels
	Height   float64 // viewport height in pixels
	Focal    float64 // focal length in pixels
}

// NewCamera places a camera at pos with a w×h viewport and a 60° vertical
// field of view.
func NewCamera(pos Vec3, w, h float64) *Camera {
	return &Camera{
		Position: pos,
		Width:    w,
		Height:   h,
		Focal:    h / 2 / math.Tan(math.Pi/6),
	}
}

// DefaultCameraPosition views the front, right and top faces.
var DefaultCameraPosition = Vec3{X: 4, Y: 3, Z: 8}

func (c *Camera) basis() (forward, right, up Vec3) {
	forward = c.Position.Scale(-1).Normalize()
	right = forward.Cross(Vec3{Y: 1}).Normalize()
	if right.Len() == 0 {
		right = Vec3{X: 1}
	}
	up = right.Cross(forward)
	return forward, right, up
}

// Project maps a world point to screen pixels, origin top-left and y down.
func (c *Camera) Project(p Vec3) Vec2 {
	forward, right, up := c.basis()
	rel := p.Sub(c.Position)
	depth := rel.Dot(forward)
	if depth < 1e-6 {
		depth = 1e-6
	}
	return Vec2{
		X: c.Width/2 + c.Focal*rel.Dot(right)/depth,
		Y: c.Height/2 - c.Focal*rel.Dot(up)/depth,
	}
}

// Azimuth returns the camera's angle around the vertical axis in radians.
// Zero looks at the front face; positive values move towards the right face.
func (c *Camera) Azimuth() float64 {
	return math.Atan2(c.Position.X, c.Position.Z)
}

// Orbit moves the camera around the origin by the given azimuth and
// elevation deltas in radians, keeping its distance. Elevation stays short
// of the poles.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	r := c.Position.Len()
	if r == 0 {
		return
	}
	az := c.Azimuth() + dAzimuth
	el := math.Asin(c.Position.Y/r) + dElevation
	limit := math.Pi/2 - 0.01
	el = math.Max(-limit, math.Min(limit, el))

	c.Position = Vec3{
		X: r * math.Cos(el) * math.Sin(az),
		Y: r * math.Sin(el),
		Z: r * math.Cos(el) * math.Cos(az),
	}
}
