package viz

import (
	"math"

	"github.com/san-kum/lorentz/internal/vec"
)

// Camera projects points of a unit-sized scene onto the canvas.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 5, RotX: -1.1, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Rotate applies the camera rotation about x, then y, then z.
func (c *Camera) Rotate(p vec.Vector3) vec.Vector3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts scene coordinates to pixel coordinates on a sw x sh
// screen. ok is false for points behind the camera or off screen.
func (c *Camera) Project(p vec.Vector3, sw, sh int) (x, y int, ok bool) {
	rot := c.Rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	unit := float64(min(sw, sh)) / 3
	x = int(rot.X*scale*unit) + sw/2
	y = int(-rot.Y*scale*unit) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

// DrawPath projects consecutive points and joins them on the canvas.
func (c *Camera) DrawPath(cv *Canvas, points []vec.Vector3) {
	sw, sh := cv.PixelSize()
	px, py, prev := 0, 0, false
	for _, p := range points {
		x, y, ok := c.Project(p, sw, sh)
		switch {
		case ok && prev:
			cv.DrawLine(px, py, x, y)
		case ok:
			cv.Set(x, y)
		}
		px, py, prev = x, y, ok
	}
}

// DrawAxes draws the three coordinate axes of length l from the origin.
func (c *Camera) DrawAxes(cv *Canvas, origin vec.Vector3, l float64) {
	for _, axis := range []vec.Vector3{vec.New(l, 0, 0), vec.New(0, l, 0), vec.New(0, 0, l)} {
		c.DrawPath(cv, []vec.Vector3{origin, origin.Add(axis)})
	}
}
