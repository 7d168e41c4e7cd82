package layers

import (
	"image"
	"image/color"

	"github.com/example/shineypaint/internal/surface"
)

// MarkDirty adds r, clipped to the image, to the region awaiting a flush.
func (m *Image) MarkDirty(r image.Rectangle) {
	m.dirty = m.dirty.Union(r.Intersect(m.bounds))
}

// Dirty returns the region awaiting a flush.
func (m *Image) Dirty() image.Rectangle { return m.dirty }

// FlushDirty recomposites the dirty region into the display buffer, clears
// it and returns the rectangle that changed.
func (m *Image) FlushDirty() image.Rectangle {
	r := m.dirty
	if r.Empty() {
		m.dirty = image.Rectangle{}
		return image.Rectangle{}
	}
	m.display.Paste(m.CompositeRegion(r), r.Min)
	m.dirty = image.Rectangle{}
	return r
}

// CompositeRegion blends the visible layers over transparent black, bottom
// to top, each at its own opacity. The result covers r clipped to the image.
func (m *Image) CompositeRegion(r image.Rectangle) *surface.Surface {
	r = r.Intersect(m.bounds)
	out := surface.New(r.Dx(), r.Dy())
	out.SetBlendMode(surface.BlendBlend)
	for _, l := range m.layers {
		if !l.Visible {
			continue
		}
		l.Surface.Blit(r, out, image.Point{})
	}
	return out
}

// Display returns the composited buffer as of the last flush.
func (m *Image) Display() *image.NRGBA { return m.display.NRGBA() }

// Flatten composites the whole image into a new buffer.
func (m *Image) Flatten() *image.NRGBA {
	return m.CompositeRegion(m.bounds).NRGBA()
}

// PixelColor returns the composited colour at p.
func (m *Image) PixelColor(p image.Point) (color.NRGBA, bool) {
	if !p.In(m.bounds) {
		return color.NRGBA{}, false
	}
	c, _ := m.CompositeRegion(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}).At(0, 0)
	return c, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
