package nxncube

import "fmt"

// NetProjector projects onto face f as it is drawn in the unfolded net of
// Cube.String: screen x runs along the face's columns and screen y down its
// rows. Drags on a flat net resolve through it exactly like drags on a
// perspective view.
func NetProjector(f CubeFace) Projector {
	return netProjector{frame: faceFrames[f]}
}

type netProjector struct {
	frame faceFrame
}

func (p netProjector) Project(v Vec3) Vec2 {
	right, down := p.frame.right, p.frame.down
	return Vec2{
		X: v.X*float64(right[0]) + v.Y*float64(right[1]) + v.Z*float64(right[2]),
		Y: v.X*float64(down[0]) + v.Y*float64(down[1]) + v.Z*float64(down[2]),
	}
}

// StickerHit returns the hit for the sticker at row, col of face f, in the
// order State lists them.
func (c *Cube) StickerHit(f CubeFace, row, col int) (Hit, error) {
	if f < CubeFaceU || f > CubeFaceB || row < 0 || row >= c.n || col < 0 || col >= c.n {
		return Hit{}, fmt.Errorf("%w: sticker %s[%d,%d] on size %d", ErrLayerOutOfRange, f, row, col, c.n)
	}
	frame := faceFrames[f]
	p := c.stickerCoords(f, row, col)

	normal := Vec3{float64(frame.normal[0]), float64(frame.normal[1]), float64(frame.normal[2])}
	cubie := c.Offset(p[0], p[1], p[2])
	return Hit{
		Cubie:  cubie,
		Point:  cubie.Add(normal.Scale(0.5)),
		Normal: normal,
	}, nil
}
