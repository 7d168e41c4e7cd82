package tools

import (
	"image"
	"math"
	"slices"

	"golang.org/x/image/math/f64"

	"github.com/example/shineypaint/internal/pixpath"
)

// DefaultTolerance is how close, in image pixels, a click must land to an
// existing vertex to select it.
const DefaultTolerance = 0.5

// AreaDelimiter edits a polygon outline with fractional vertices.
type AreaDelimiter struct {
	points    []f64.Vec2
	selected  int
	LoopBack  bool
	Tolerance float64
}

// NewAreaDelimiter returns an empty outline with nothing selected.
func NewAreaDelimiter() *AreaDelimiter {
	return &AreaDelimiter{selected: -1, Tolerance: DefaultTolerance}
}

// Kind implements Tool.
func (*AreaDelimiter) Kind() Kind { return KindAreaDelimiter }

// Points returns a copy of the vertices in order.
func (d *AreaDelimiter) Points() []f64.Vec2 { return slices.Clone(d.points) }

// Len returns the number of vertices.
func (d *AreaDelimiter) Len() int { return len(d.points) }

// Selected returns the selected vertex index, or -1.
func (d *AreaDelimiter) Selected() int { return d.selected }

// HandleClick selects the nearest vertex within Tolerance of p, or appends
// p as a new vertex and selects it.
func (d *AreaDelimiter) HandleClick(p f64.Vec2) {
	best, bestDist := -1, math.Inf(1)
	for i, q := range d.points {
		if dist := math.Hypot(q[0]-p[0], q[1]-p[1]); dist <= d.Tolerance && dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		d.selected = best
		return
	}
	d.points = append(d.points, p)
	d.selected = len(d.points) - 1
}

// HandleDrag moves the selected vertex to p while the button is held.
func (d *AreaDelimiter) HandleDrag(p f64.Vec2, held bool) {
	if !held || d.selected < 0 {
		return
	}
	d.points[d.selected] = p
}

// EraseSelected removes the selected vertex and selects the one before it,
// wrapping to the last vertex.
func (d *AreaDelimiter) EraseSelected() {
	if d.selected < 0 {
		return
	}
	d.points = slices.Delete(d.points, d.selected, d.selected+1)
	d.selected--
	if d.selected < 0 {
		d.selected = len(d.points) - 1
	}
}

// DuplicateSelected inserts a copy of the selected vertex, offset by one
// pixel on both axes, right after it and selects the copy.
func (d *AreaDelimiter) DuplicateSelected() {
	if d.selected < 0 {
		return
	}
	p := d.points[d.selected]
	d.points = slices.Insert(d.points, d.selected+1, f64.Vec2{p[0] + 1, p[1] + 1})
	d.selected++
}

// Clear removes every vertex.
func (d *AreaDelimiter) Clear() {
	d.points = nil
	d.selected = -1
}

// PixelPath returns the pixels along the outline edges, closing it back to
// the first vertex when LoopBack is set.
func (d *AreaDelimiter) PixelPath() []image.Point {
	pts := make([]image.Point, len(d.points))
	for i, p := range d.points {
		pts[i] = image.Pt(int(math.Floor(p[0])), int(math.Floor(p[1])))
	}
	return pixpath.Polyline(pts, d.LoopBack)
}
