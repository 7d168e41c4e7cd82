// Package brush rasterizes circular brush stamps.
//
// A Cache owns one stamp at a time, keyed by radius and falloff identity.
// Mutators only mark the cache stale; Refresh rebuilds it, and the readers
// never do work of their own. A Cache is not safe for concurrent use.
package brush

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/surface"
)

// ErrNoAlphaFunc is returned by Refresh before any falloff was installed.
var ErrNoAlphaFunc = errors.New("brush: no falloff function installed")

// MaxRadius is the largest public radius a Cache will rasterize.
const MaxRadius = 512

// DrawPoint is one covered pixel of a stamp, relative to its centre.
type DrawPoint struct {
	Pos   image.Point
	Alpha uint8
}

type stampKey struct {
	radius int
	fnID   string
}

type previewKey struct {
	radius int
	zoom   float64
}

// Cache generates and holds the current brush stamp.
type Cache struct {
	radius int // public radius minus one
	fnID   string
	fn     AlphaFunc
	zoom   float64

	built   bool
	key     stampKey
	stamp   *surface.Surface
	points  []DrawPoint
	pkey    previewKey
	pbuilt  bool
	preview []image.Rectangle
}

// NewCache returns a cache for a radius 1 brush at zoom 1 with no falloff.
func NewCache() *Cache {
	return &Cache{zoom: 1}
}

// SetRadius sets the public radius, clamped to 1..MaxRadius. Radius 1
// covers only the centre pixel.
func (c *Cache) SetRadius(r int) {
	c.radius = min(max(r, 1), MaxRadius) - 1
}

// Radius returns the public radius.
func (c *Cache) Radius() int { return c.radius + 1 }

// Span returns the side length of the stamp in pixels.
func (c *Cache) Span() int { return 2*c.radius + 1 }

// Center returns the stamp pixel that lands on the brush position.
func (c *Cache) Center() image.Point { return image.Pt(c.radius, c.radius) }

// SetAlphaFunc installs fn under id. Stamps are rebuilt only when the id or
// the radius differ from the cached ones.
func (c *Cache) SetAlphaFunc(id string, fn AlphaFunc) {
	c.fnID = id
	c.fn = fn
	if fn == nil {
		c.fnID = ""
	}
}

// SetProfile installs one of the built-in curves.
func (c *Cache) SetProfile(p Profile) {
	c.SetAlphaFunc(p.ID(), p.Func())
}

// SetResolution sets the display zoom used for preview rectangles.
func (c *Cache) SetResolution(zoom float64) {
	if zoom > 0 && !math.IsInf(zoom, 0) {
		c.zoom = zoom
	}
}

// Stale reports whether Refresh has work to do.
func (c *Cache) Stale() bool {
	return !c.built || c.key != c.stampKey() || !c.pbuilt || c.pkey != c.previewKey()
}

// Refresh rebuilds the stamp and preview rectangles if their inputs changed.
func (c *Cache) Refresh() error {
	if c.fn == nil {
		return ErrNoAlphaFunc
	}
	if k := c.stampKey(); !c.built || c.key != k {
		c.stamp, c.points = rasterize(c.radius, c.fn)
		c.key = k
		c.built = true
		logging.Logger().Debug("brush stamp rebuilt", "radius", c.Radius(), "falloff", c.fnID, "points", len(c.points))
	}
	if k := c.previewKey(); !c.pbuilt || c.pkey != k {
		c.preview = outline(c.radius, c.zoom)
		c.pkey = k
		c.pbuilt = true
	}
	return nil
}

// Stamp returns the last built stamp: white pixels whose alpha is the
// coverage. It is nil before the first successful Refresh.
func (c *Cache) Stamp() *surface.Surface { return c.stamp }

// Points returns the covered pixels of the last built stamp. Pixels with
// zero coverage are omitted.
func (c *Cache) Points() []DrawPoint { return c.points }

// PreviewRects returns the brush outline in screen pixels relative to the
// top-left corner of the centre pixel's on-screen cell.
func (c *Cache) PreviewRects() []image.Rectangle { return c.preview }

func (c *Cache) stampKey() stampKey { return stampKey{radius: c.radius, fnID: c.fnID} }

func (c *Cache) previewKey() previewKey { return previewKey{radius: c.radius, zoom: c.zoom} }

// rowExtents runs the integer midpoint circle over one octant and records,
// for each row offset 0..r, how far the disk reaches horizontally.
func rowExtents(r int) []int {
	hw := make([]int, r+1)
	x, y := r, 0
	t1 := r / 16
	for x >= y {
		hw[y] = max(hw[y], x)
		hw[x] = max(hw[x], y)
		y++
		t1 += y
		if t2 := t1 - x; t2 >= 0 {
			t1 = t2
			x--
		}
	}
	return hw
}

func rasterize(r int, fn AlphaFunc) (*surface.Surface, []DrawPoint) {
	n := 2*r + 1
	stamp := surface.New(n, n)
	hw := rowExtents(r)
	var pts []DrawPoint
	for dy := -r; dy <= r; dy++ {
		ext := hw[abs(dy)]
		for dx := -ext; dx <= ext; dx++ {
			// Requiring the column extent as well keeps the mask symmetric
			// under transposition.
			if abs(dy) > hw[abs(dx)] {
				continue
			}
			a := fn(math.Hypot(float64(dx), float64(dy)), float64(r))
			if a == 0 {
				continue
			}
			stamp.SetUnsafe(r+dx, r+dy, color.NRGBA{R: 255, G: 255, B: 255, A: a})
			pts = append(pts, DrawPoint{Pos: image.Pt(dx, dy), Alpha: a})
		}
	}
	return stamp, pts
}

// outline sweeps the circle boundary at the zoomed radius and mirrors each
// octant point into the other seven. Each swept pixel covers the screen
// span its image cell covers at zoom, so fractional zooms keep the true size.
func outline(r int, zoom float64) []image.Rectangle {
	scale := math.Max(1, zoom)
	cell := func(v int) (int, int) {
		return int(math.Floor(float64(v) * scale)), int(math.Ceil(float64(v+1) * scale))
	}
	eff := int(math.Round(float64(r) * math.Min(1, zoom)))
	if r > 0 && eff < 1 {
		eff = 1
	}
	seen := make(map[image.Point]struct{})
	var rects []image.Rectangle
	add := func(px, py int) {
		p := image.Pt(px, py)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		x0, x1 := cell(px)
		y0, y1 := cell(py)
		rects = append(rects, image.Rect(x0, y0, x1, y1))
	}
	x, y := eff, 0
	t1 := eff / 16
	for x >= y {
		add(x, y)
		add(y, x)
		add(-y, x)
		add(-x, y)
		add(-x, -y)
		add(-y, -x)
		add(y, -x)
		add(x, -y)
		y++
		t1 += y
		if t2 := t1 - x; t2 >= 0 {
			t1 = t2
			x--
		}
	}
	return rects
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
