package tools

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f64"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/surface"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func whiteSurface(w, h int) *surface.Surface {
	s := surface.New(w, h)
	s.Fill(s.Bounds(), white)
	return s
}

func cacheFor(radius int, p brush.Profile) *brush.Cache {
	c := brush.NewCache()
	c.SetRadius(radius)
	c.SetProfile(p)
	return c
}

func TestHardPencilSinglePixel(t *testing.T) {
	dst := whiteSurface(10, 10)
	p := NewPencil(cacheFor(1, brush.Profile{Hard: true}), PencilHard)
	r := p.Apply([]image.Point{{5, 5}}, black, dst)
	assert.Equal(t, image.Rect(5, 5, 6, 6), r)
	got, _ := dst.At(5, 5)
	assert.Equal(t, black, got)
	got, _ = dst.At(4, 5)
	assert.Equal(t, white, got)
}

func TestHardPencilTranslucentColour(t *testing.T) {
	dst := surface.New(3, 3)
	dst.Fill(dst.Bounds(), color.NRGBA{R: 255, A: 255})
	p := NewPencil(cacheFor(2, brush.Profile{Hard: true}), PencilHard)
	p.Apply([]image.Point{{1, 1}}, color.NRGBA{B: 255, A: 128}, dst)
	got, _ := dst.At(1, 1)
	assert.Equal(t, color.NRGBA{R: 127, B: 128, A: 255}, got)
}

func TestSoftPencilMatchesStampCoverage(t *testing.T) {
	cache := cacheFor(6, brush.Profile{Kind: brush.FalloffLinear, Hardness: 0})
	dst := surface.New(20, 20)
	p := NewPencil(cache, PencilSoft)
	r := p.Apply([]image.Point{{10, 10}}, black, dst)
	assert.Equal(t, image.Rect(5, 5, 16, 16), r)

	for _, pt := range cache.Points() {
		got, _ := dst.At(10+pt.Pos.X, 10+pt.Pos.Y)
		assert.Equal(t, pt.Alpha, got.A, "at %v", pt.Pos)
	}
}

func TestPencilOutsideSurfaceIsNoOp(t *testing.T) {
	dst := whiteSurface(4, 4)
	before := dst.Clone()
	for _, typ := range []PencilType{PencilHard, PencilSoft} {
		p := NewPencil(cacheFor(2, brush.Profile{Hard: true}), typ)
		r := p.Apply([]image.Point{{-10, -10}, {50, 2}}, black, dst)
		assert.True(t, r.Empty())
	}
	assert.Equal(t, before.NRGBA().Pix, dst.NRGBA().Pix)
}

func TestPencilWithoutFalloffDrawsNothing(t *testing.T) {
	c := brush.NewCache()
	dst := whiteSurface(4, 4)
	assert.True(t, NewPencil(c, PencilHard).Apply([]image.Point{{1, 1}}, black, dst).Empty())
	assert.True(t, NewEraser(c).Apply([]image.Point{{1, 1}}, dst).Empty())
	assert.True(t, NewPencil(c, PencilHard).Apply([]image.Point{{1, 1}}, black, nil).Empty())
}

func TestEraserUsesBinaryMask(t *testing.T) {
	cache := cacheFor(5, brush.Profile{Kind: brush.FalloffQuadratic, Hardness: 0})
	require.NoError(t, cache.Refresh())
	dst := whiteSurface(9, 9)
	r := NewEraser(cache).Apply([]image.Point{{4, 4}}, dst)
	assert.Equal(t, dst.Bounds(), r)

	stamp := cache.Stamp()
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			s, _ := stamp.At(x, y)
			got, _ := dst.At(x, y)
			if s.A == 0 {
				assert.Equal(t, white, got, "outside mask at %d,%d", x, y)
			} else {
				assert.Equal(t, uint8(0), got.A, "inside mask at %d,%d", x, y)
			}
		}
	}
}

func TestColorPicker(t *testing.T) {
	img, err := layers.New(4, 4, color.NRGBA{R: 255, G: 128, A: 255}, 0)
	require.NoError(t, err)
	var picker ColorPicker
	cmd, c, ok := picker.Grab(img, image.Pt(1, 1))
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 255, G: 128, A: 255}, c)
	assert.Equal(t, "color_text_set/FF8000", cmd.String())

	img.SetAlpha(128)
	cmd, c, ok = picker.Grab(img, image.Pt(1, 1))
	require.True(t, ok)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, "color_text_set/FF8000", cmd.String())

	_, _, ok = picker.Grab(img, image.Pt(4, 0))
	assert.False(t, ok)
	assert.Equal(t, KindColorPicker, picker.Kind())
}

func TestAreaDelimiterEditing(t *testing.T) {
	d := NewAreaDelimiter()
	assert.Equal(t, -1, d.Selected())

	d.HandleClick(f64.Vec2{1, 1})
	d.HandleClick(f64.Vec2{5.5, 1})
	d.HandleClick(f64.Vec2{5, 5})
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 2, d.Selected())

	d.HandleClick(f64.Vec2{1.2, 1.1})
	assert.Equal(t, 0, d.Selected(), "click near a vertex selects it")
	assert.Equal(t, 3, d.Len())

	d.HandleDrag(f64.Vec2{0, 0}, false)
	assert.Equal(t, f64.Vec2{1, 1}, d.Points()[0])
	d.HandleDrag(f64.Vec2{0, 2}, true)
	assert.Equal(t, f64.Vec2{0, 2}, d.Points()[0])

	d.DuplicateSelected()
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 1, d.Selected())
	assert.Equal(t, f64.Vec2{1, 3}, d.Points()[1])

	d.EraseSelected()
	assert.Equal(t, 0, d.Selected())
	d.EraseSelected()
	assert.Equal(t, 1, d.Selected(), "wraps to the last vertex")
	assert.Equal(t, []f64.Vec2{{5.5, 1}, {5, 5}}, d.Points())

	d.Clear()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, -1, d.Selected())
	d.EraseSelected()
	d.DuplicateSelected()
	assert.Equal(t, 0, d.Len())
}

func TestAreaDelimiterPixelPath(t *testing.T) {
	d := NewAreaDelimiter()
	d.HandleClick(f64.Vec2{0.4, 0.7})
	d.HandleClick(f64.Vec2{4.9, 2.2})
	assert.Equal(t, []image.Point{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}}, d.PixelPath())

	d.HandleClick(f64.Vec2{0, 4})
	open := len(d.PixelPath())
	d.LoopBack = true
	assert.Greater(t, len(d.PixelPath()), open)
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("lasso")
	assert.Error(t, err)

	pt, err := ParsePencilType("SOFT")
	require.NoError(t, err)
	assert.Equal(t, PencilSoft, pt)

	var tl Tool = NewEraser(brush.NewCache())
	assert.Equal(t, KindErase, tl.Kind())
}
