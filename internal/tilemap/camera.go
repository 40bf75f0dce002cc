package tilemap

import "github.com/vovakirdan/ascii-tilemap/internal/core"

// Camera is a viewport over a world larger than a layer. It keeps a focus
// point in the middle of the view.
type Camera struct {
	Left, Top     int
	Width, Height int
}

// NewCamera centers a width x height view on focus.
func NewCamera(focus core.Point, width, height int) Camera {
	c := Camera{Width: width, Height: height}
	c.Follow(focus)
	return c
}

// Follow recenters the view on focus.
func (c *Camera) Follow(focus core.Point) {
	c.Left = focus.X - c.Width/2
	c.Top = focus.Y - c.Height/2
}

// Bounds returns the visible world rectangle.
func (c Camera) Bounds() core.Rect {
	return core.NewRect(c.Left, c.Top, c.Width, c.Height)
}

// Visible reports whether world position p is in view.
func (c Camera) Visible(p core.Point) bool {
	return c.Bounds().ContainsPoint(p)
}

// ToScreen maps a world position to a layer position. ok is false when the
// position is out of view.
func (c Camera) ToScreen(p core.Point) (core.Point, bool) {
	s := core.Point{X: p.X - c.Left, Y: p.Y - c.Top}
	return s, c.Visible(p)
}

// ToWorld maps a layer position back to the world.
func (c Camera) ToWorld(p core.Point) core.Point {
	return core.Point{X: p.X + c.Left, Y: p.Y + c.Top}
}
