package tools

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/surface"
)

// PencilType chooses between the blit and per-point pencil paths.
type PencilType int

const (
	// PencilHard blits a pre-coloured stamp.
	PencilHard PencilType = iota
	// PencilSoft composites every covered point with its own coverage.
	PencilSoft
)

func (t PencilType) String() string {
	if t == PencilSoft {
		return "soft"
	}
	return "hard"
}

// ParsePencilType accepts "hard" and "soft".
func ParsePencilType(s string) (PencilType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return PencilHard, nil
	case "soft":
		return PencilSoft, nil
	}
	return 0, fmt.Errorf("unknown pencil type %q (want hard or soft)", s)
}

// Pencil paints brush stamps in a colour.
type Pencil struct {
	cache *brush.Cache
	Type  PencilType

	tint      *surface.Surface
	tintColor color.NRGBA
	tintFrom  *surface.Surface
}

// NewPencil returns a pencil drawing with the stamps of cache.
func NewPencil(cache *brush.Cache, t PencilType) *Pencil {
	return &Pencil{cache: cache, Type: t}
}

// Kind implements Tool.
func (*Pencil) Kind() Kind { return KindDraw }

// SetResolution forwards the display zoom to the shared cache.
func (p *Pencil) SetResolution(zoom float64) { p.cache.SetResolution(zoom) }

// Apply stamps col at every centre and returns the union of the touched
// footprints, clipped to dst. An empty result means nothing was drawn.
func (p *Pencil) Apply(centers []image.Point, col color.NRGBA, dst *surface.Surface) image.Rectangle {
	if dst == nil || len(centers) == 0 {
		return image.Rectangle{}
	}
	if err := p.cache.Refresh(); err != nil {
		logging.Logger().Warn("pencil stamp unavailable", "err", err)
		return image.Rectangle{}
	}
	origin := p.cache.Center()
	if p.Type == PencilHard {
		mode := dst.BlendMode()
		dst.SetBlendMode(surface.BlendBlend)
		defer dst.SetBlendMode(mode)
	}
	var touched image.Rectangle
	for _, c := range centers {
		if p.Type == PencilHard {
			stamp := p.tinted(col)
			touched = touched.Union(stamp.Blit(stamp.Bounds(), dst, c.Sub(origin)))
			continue
		}
		for _, pt := range p.cache.Points() {
			q := c.Add(pt.Pos)
			cur, ok := dst.At(q.X, q.Y)
			if !ok {
				continue
			}
			dst.SetUnsafe(q.X, q.Y, surface.Over(cur, surface.WithAlpha(col, pt.Alpha)))
		}
		touched = touched.Union(footprint(p.cache, c).Intersect(dst.Bounds()))
	}
	return touched
}

// tinted returns the cached stamp recoloured to col, rebuilding it only
// when the colour or the stamp changed.
func (p *Pencil) tinted(col color.NRGBA) *surface.Surface {
	stamp := p.cache.Stamp()
	if p.tint != nil && p.tintFrom == stamp && p.tintColor == col {
		return p.tint
	}
	t := surface.New(stamp.Width(), stamp.Height())
	for y := 0; y < stamp.Height(); y++ {
		for x := 0; x < stamp.Width(); x++ {
			s, _ := stamp.At(x, y)
			if s.A == 0 {
				continue
			}
			t.SetUnsafe(x, y, surface.WithAlpha(col, s.A))
		}
	}
	p.tint, p.tintFrom, p.tintColor = t, stamp, col
	return t
}

// Eraser clears the pixels under the brush disk.
type Eraser struct {
	cache *brush.Cache
}

// NewEraser returns an eraser sharing cache with the pencil.
func NewEraser(cache *brush.Cache) *Eraser {
	return &Eraser{cache: cache}
}

// Kind implements Tool.
func (*Eraser) Kind() Kind { return KindErase }

// SetResolution forwards the display zoom to the shared cache.
func (e *Eraser) SetResolution(zoom float64) { e.cache.SetResolution(zoom) }

// Apply makes every pixel the stamp covers fully transparent. Coverage is
// treated as a binary mask: any non-zero stamp alpha erases completely and
// zero alpha leaves the pixel alone.
func (e *Eraser) Apply(centers []image.Point, dst *surface.Surface) image.Rectangle {
	if dst == nil || len(centers) == 0 {
		return image.Rectangle{}
	}
	if err := e.cache.Refresh(); err != nil {
		logging.Logger().Warn("eraser stamp unavailable", "err", err)
		return image.Rectangle{}
	}
	var touched image.Rectangle
	for _, c := range centers {
		for _, pt := range e.cache.Points() {
			q := c.Add(pt.Pos)
			if !q.In(dst.Bounds()) {
				continue
			}
			dst.SetUnsafe(q.X, q.Y, color.NRGBA{})
		}
		touched = touched.Union(footprint(e.cache, c).Intersect(dst.Bounds()))
	}
	return touched
}

func footprint(c *brush.Cache, center image.Point) image.Rectangle {
	r := c.Radius() - 1
	return image.Rect(center.X-r, center.Y-r, center.X+r+1, center.Y+r+1)
}
