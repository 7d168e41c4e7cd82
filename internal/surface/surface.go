// Package surface provides the straight-alpha pixel buffers the editor draws on.
//
// A Surface is not safe for concurrent use.
package surface

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Surface is a width×height RGBA buffer with a row pitch that may exceed
// width*4. Each surface carries an alpha modulation factor, applied when it
// is the source of a Blit, and a blend mode, applied when it is the
// destination of a Blit or Fill.
type Surface struct {
	img      *image.NRGBA
	alphaMod uint8
	blend    BlendMode
}

// New allocates a transparent surface with a tightly packed pitch.
func New(w, h int) *Surface {
	return NewWithPitch(w, h, w*4)
}

// NewWithPitch allocates a transparent surface whose rows are pitch bytes
// apart. A pitch smaller than w*4 is raised to w*4.
func NewWithPitch(w, h, pitch int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if pitch < w*4 {
		pitch = w * 4
	}
	return &Surface{
		img: &image.NRGBA{
			Pix:    make([]uint8, pitch*h),
			Stride: pitch,
			Rect:   image.Rect(0, 0, w, h),
		},
		alphaMod: 255,
		blend:    BlendNone,
	}
}

// FromImage copies src into a new surface anchored at the origin.
func FromImage(src image.Image) *Surface {
	b := src.Bounds()
	s := New(b.Dx(), b.Dy())
	if n, ok := src.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			start := n.PixOffset(b.Min.X, y)
			copy(s.img.Pix[s.offset(0, y-b.Min.Y):], n.Pix[start:start+b.Dx()*4])
		}
		return s
	}
	xdraw.Draw(s.img, s.img.Rect, src, b.Min, xdraw.Src)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Pitch returns the distance in bytes between the starts of two rows.
func (s *Surface) Pitch() int { return s.img.Stride }

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// NRGBA exposes the backing image. Writes through it bypass the layered
// image's dirty tracking.
func (s *Surface) NRGBA() *image.NRGBA { return s.img }

// AlphaMod returns the alpha modulation applied when s is blitted.
func (s *Surface) AlphaMod() uint8 { return s.alphaMod }

// SetAlphaMod sets the alpha modulation applied when s is blitted.
func (s *Surface) SetAlphaMod(a uint8) { s.alphaMod = a }

// BlendMode returns the mode used when s is the source of a Blit or Fill.
func (s *Surface) BlendMode() BlendMode { return s.blend }

// SetBlendMode sets how pixels written into s by Blit or Fill combine.
func (s *Surface) SetBlendMode(m BlendMode) { s.blend = m }

// At returns the pixel at (x, y). The second result is false when the point
// lies outside the surface.
func (s *Surface) At(x, y int) (color.NRGBA, bool) {
	if !image.Pt(x, y).In(s.img.Rect) {
		return color.NRGBA{}, false
	}
	i := s.offset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}, true
}

// SetUnsafe writes c at (x, y) without a bounds check. Callers must have
// clipped the coordinate already.
func (s *Surface) SetUnsafe(x, y int, c color.NRGBA) {
	i := s.offset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Set writes c at (x, y) and reports whether the point was inside.
func (s *Surface) Set(x, y int, c color.NRGBA) bool {
	if !image.Pt(x, y).In(s.img.Rect) {
		return false
	}
	s.SetUnsafe(x, y, c)
	return true
}

// Fill paints r with c using the surface's own blend mode and returns the
// rectangle actually touched.
func (s *Surface) Fill(r image.Rectangle, c color.NRGBA) image.Rectangle {
	r = r.Intersect(s.img.Rect)
	if r.Empty() {
		return image.Rectangle{}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if s.blend == BlendBlend {
				cur, _ := s.At(x, y)
				s.SetUnsafe(x, y, Over(cur, c))
				continue
			}
			s.SetUnsafe(x, y, c)
		}
	}
	return r
}

// Clear makes r fully transparent.
func (s *Surface) Clear(r image.Rectangle) {
	r = r.Intersect(s.img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.img.Pix[s.offset(r.Min.X, y):s.offset(r.Max.X, y)]
		clear(row)
	}
}

// Blit copies sr of s onto dst with sr.Min landing at dp. Source pixels are
// scaled by the alpha modulation of s and combined using the blend mode of
// dst. Both rectangles are clipped, and the destination rectangle actually
// written is returned.
func (s *Surface) Blit(sr image.Rectangle, dst *Surface, dp image.Point) image.Rectangle {
	sr = sr.Intersect(s.img.Rect)
	dr := sr.Add(dp.Sub(sr.Min)).Intersect(dst.img.Rect)
	if dr.Empty() {
		return image.Rectangle{}
	}
	sp := sr.Min.Add(dr.Min.Sub(dp))
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			c, _ := s.At(sp.X+x, sp.Y+y)
			if s.alphaMod != 255 {
				c = WithAlpha(c, s.alphaMod)
			}
			if dst.blend == BlendBlend {
				cur, _ := dst.At(dr.Min.X+x, dr.Min.Y+y)
				c = Over(cur, c)
			}
			dst.SetUnsafe(dr.Min.X+x, dr.Min.Y+y, c)
		}
	}
	return dr
}

// Extract copies r, clipped to the surface, into a new tightly packed
// surface that keeps the alpha modulation and blend mode.
func (s *Surface) Extract(r image.Rectangle) *Surface {
	r = r.Intersect(s.img.Rect)
	out := New(r.Dx(), r.Dy())
	out.alphaMod = s.alphaMod
	out.blend = s.blend
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(out.img.Pix[out.offset(0, y-r.Min.Y):], s.img.Pix[s.offset(r.Min.X, y):s.offset(r.Max.X, y)])
	}
	return out
}

// Paste overwrites the pixels of s at `at` with the whole of src, ignoring
// blend mode and alpha modulation.
func (s *Surface) Paste(src *Surface, at image.Point) image.Rectangle {
	dr := src.img.Rect.Add(at).Intersect(s.img.Rect)
	if dr.Empty() {
		return image.Rectangle{}
	}
	sp := dr.Min.Sub(at)
	for y := 0; y < dr.Dy(); y++ {
		copy(s.img.Pix[s.offset(dr.Min.X, dr.Min.Y+y):s.offset(dr.Max.X, dr.Min.Y+y)],
			src.img.Pix[src.offset(sp.X, sp.Y+y):])
	}
	return dr
}

// Clone returns a deep copy of s.
func (s *Surface) Clone() *Surface {
	return s.Extract(s.img.Rect)
}

func (s *Surface) offset(x, y int) int {
	return y*s.img.Stride + x*4
}
