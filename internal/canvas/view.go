package canvas

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Zoom limits and the factor applied per zoom step.
const (
	MinZoom  = 0.01
	MaxZoom  = 100
	ZoomStep = 1.25
)

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return 1
	}
	return min(max(z, MinZoom), MaxZoom)
}

// Zoom returns the screen pixels per image pixel.
func (c *Canvas) Zoom() float64 { return c.zoom }

// Offset returns the screen position of the image origin.
func (c *Canvas) Offset() f64.Vec2 { return c.offset }

// Viewport returns the size of the on-screen image area.
func (c *Canvas) Viewport() image.Point { return c.viewport }

// SetViewport resizes the on-screen image area.
func (c *Canvas) SetViewport(w, h int) { c.viewport = image.Pt(max(w, 0), max(h, 0)) }

// SetZoom changes the zoom, keeping the image point under the viewport
// centre fixed.
func (c *Canvas) SetZoom(z float64) {
	z = clampZoom(z)
	centre := f64.Vec2{float64(c.viewport.X) / 2, float64(c.viewport.Y) / 2}
	ix := (centre[0] - c.offset[0]) / c.zoom
	iy := (centre[1] - c.offset[1]) / c.zoom
	c.zoom = z
	c.offset = f64.Vec2{centre[0] - ix*z, centre[1] - iy*z}
	c.cache.SetResolution(z)
}

// ZoomIn zooms in by one step.
func (c *Canvas) ZoomIn() { c.SetZoom(c.zoom * ZoomStep) }

// ZoomOut zooms out by one step.
func (c *Canvas) ZoomOut() { c.SetZoom(c.zoom / ZoomStep) }

// Scroll applies wheel notches; positive zooms in.
func (c *Canvas) Scroll(notches int) {
	for ; notches > 0; notches-- {
		c.ZoomIn()
	}
	for ; notches < 0; notches++ {
		c.ZoomOut()
	}
}

// Pan moves the image by (dx, dy) screen pixels.
func (c *Canvas) Pan(dx, dy float64) {
	c.offset[0] += dx
	c.offset[1] += dy
}

// FitToViewport picks the largest zoom showing the whole image and centres it.
func (c *Canvas) FitToViewport() {
	b := c.img.Bounds()
	if c.viewport.X <= 0 || c.viewport.Y <= 0 {
		return
	}
	c.zoom = clampZoom(min(float64(c.viewport.X)/float64(b.Dx()), float64(c.viewport.Y)/float64(b.Dy())))
	c.cache.SetResolution(c.zoom)
	c.Center()
}

// Center places the image in the middle of the viewport at the current zoom.
func (c *Canvas) Center() {
	b := c.img.Bounds()
	c.offset = f64.Vec2{
		(float64(c.viewport.X) - float64(b.Dx())*c.zoom) / 2,
		(float64(c.viewport.Y) - float64(b.Dy())*c.zoom) / 2,
	}
}

// ScreenToImageF maps a screen point to fractional image coordinates.
func (c *Canvas) ScreenToImageF(p image.Point) f64.Vec2 {
	return f64.Vec2{
		(float64(p.X) - c.offset[0]) / c.zoom,
		(float64(p.Y) - c.offset[1]) / c.zoom,
	}
}

// ScreenToImage maps a screen point to the image pixel under it.
func (c *Canvas) ScreenToImage(p image.Point) image.Point {
	v := c.ScreenToImageF(p)
	return image.Pt(int(math.Floor(v[0])), int(math.Floor(v[1])))
}

// ImageToScreen maps image coordinates to screen coordinates.
func (c *Canvas) ImageToScreen(v f64.Vec2) f64.Vec2 {
	return f64.Vec2{v[0]*c.zoom + c.offset[0], v[1]*c.zoom + c.offset[1]}
}

// PreviewRects returns the brush outline around the cursor in screen space,
// or nil when the active tool does not paint.
func (c *Canvas) PreviewRects() []image.Rectangle {
	if k := c.active.Kind(); k != ToolDraw && k != ToolErase {
		return nil
	}
	if err := c.cache.Refresh(); err != nil {
		return nil
	}
	cell := c.ImageToScreen(f64.Vec2{
		float64(c.ScreenToImage(c.cursor).X),
		float64(c.ScreenToImage(c.cursor).Y),
	})
	at := image.Pt(int(math.Floor(cell[0])), int(math.Floor(cell[1])))
	rects := c.cache.PreviewRects()
	out := make([]image.Rectangle, len(rects))
	for i, r := range rects {
		out[i] = r.Add(at)
	}
	return out
}
