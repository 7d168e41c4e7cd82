package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the soft shadow drawn under the image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a subtle shadow suited to the viewport.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  8,
		Offset:  image.Pt(4, 4),
		Opacity: 0.45,
	}
}

// shadowCache keeps the blurred mask for the last rectangle size so panning
// does not re-blur every frame.
type shadowCache struct {
	opts ShadowOptions
	size image.Point
	mask *image.Gray
}

// draw paints the shadow for the on-screen image rectangle r into dst.
// r should already be clipped near dst so the mask stays small.
func (sc *shadowCache) draw(dst *image.RGBA, r image.Rectangle, opts ShadowOptions) {
	if r.Empty() || opts.Opacity <= 0 {
		return
	}
	radius := max(opts.Radius, 0)
	if sc.mask == nil || sc.size != r.Size() || sc.opts != opts {
		sc.mask = rectShadowMask(r.Size(), radius)
		sc.size = r.Size()
		sc.opts = opts
	}
	opacity := min(opts.Opacity, 1)
	at := r.Min.Add(opts.Offset).Sub(image.Pt(radius, radius))
	col := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, sc.mask.Bounds().Add(at), col, image.Point{}, sc.mask, image.Point{}, draw.Over)
}

// rectShadowMask returns a solid size rectangle padded by radius on every
// side and box blurred by radius.
func rectShadowMask(size image.Point, radius int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, size.X+2*radius, size.Y+2*radius))
	for y := radius; y < radius+size.Y; y++ {
		row := mask.Pix[y*mask.Stride+radius : y*mask.Stride+radius+size.X]
		for i := range row {
			row[i] = 255
		}
	}
	return blurGray(mask, radius)
}

// blurGray applies a separable box blur of the given radius.
func blurGray(src *image.Gray, radius int) *image.Gray {
	out := image.NewGray(src.Bounds())
	copy(out.Pix, src.Pix)
	if radius <= 0 {
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	line := make([]uint8, max(w, h))
	for y := 0; y < h; y++ {
		boxBlur(out.Pix[y*out.Stride:y*out.Stride+w], 1, w, radius, line)
	}
	for x := 0; x < w; x++ {
		boxBlur(out.Pix[x:], out.Stride, h, radius, line)
	}
	return out
}

// boxBlur blurs n samples of pix spaced stride apart in place, using tmp as
// scratch space.
func boxBlur(pix []uint8, stride, n, radius int, tmp []uint8) {
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(pix[i*stride])
	}
	for i := 0; i < n; i++ {
		lo := max(i-radius, 0)
		hi := min(i+radius, n-1)
		tmp[i] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
	}
	for i := 0; i < n; i++ {
		pix[i*stride] = tmp[i]
	}
}
