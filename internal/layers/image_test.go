package layers

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shineypaint/internal/surface"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func newTestImage(t *testing.T, w, h int) *Image {
	t.Helper()
	m, err := New(w, h, white, 0)
	require.NoError(t, err)
	return m
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(100, 100, 100))
	err := CheckSize(101, 5, 100)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.ErrorContains(t, err, "width 101 (valid range 1..100)")
	assert.ErrorIs(t, CheckSize(5, DefaultMaxSize+1, 0), ErrTooLarge)
	assert.ErrorIs(t, CheckSize(0, 5, 0), ErrInvalidSize)
}

func TestFromImageRejectsBeforeAllocating(t *testing.T) {
	huge := image.NewUniform(red)
	_, err := FromImage(&sizedUniform{Uniform: huge, r: image.Rect(0, 0, 1<<20, 10)}, 0)
	assert.ErrorIs(t, err, ErrTooLarge)
}

type sizedUniform struct {
	*image.Uniform
	r image.Rectangle
}

func (s *sizedUniform) Bounds() image.Rectangle { return s.r }

func TestNewIsComposited(t *testing.T) {
	m := newTestImage(t, 4, 3)
	assert.Equal(t, 1, m.LayerCount())
	assert.True(t, m.Dirty().Empty())
	assert.Equal(t, white, m.Display().NRGBAAt(3, 2))
	assert.NotEmpty(t, m.LayerID(0))
}

func TestCompositeWorkedExample(t *testing.T) {
	m := newTestImage(t, 1, 1)
	m.Current().SetBlendMode(surface.BlendNone)
	m.Current().Fill(m.Bounds(), red)
	m.Current().SetBlendMode(surface.BlendBlend)
	m.AddLayer()
	m.Current().SetUnsafe(0, 0, color.NRGBA{B: 255, A: 128})
	m.MarkDirty(m.Bounds())
	assert.Equal(t, image.Rect(0, 0, 1, 1), m.FlushDirty())
	assert.Equal(t, color.NRGBA{R: 127, B: 128, A: 255}, m.Display().NRGBAAt(0, 0))
}

func TestLayerAlphaAndVisibility(t *testing.T) {
	m := newTestImage(t, 2, 2)
	m.AddLayer()
	m.Current().SetUnsafe(0, 0, color.NRGBA{A: 255})
	m.SetAlpha(0)
	assert.Equal(t, m.Bounds(), m.Dirty())
	m.FlushDirty()
	assert.Equal(t, white, m.Display().NRGBAAt(0, 0))

	m.SetAlpha(255)
	m.SetVisibility(false)
	m.FlushDirty()
	assert.Equal(t, white, m.Display().NRGBAAt(0, 0))

	m.SetVisibility(true)
	c, ok := m.PixelColor(image.Pt(0, 0))
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{A: 255}, c)
	_, ok = m.PixelColor(image.Pt(2, 0))
	assert.False(t, ok)
}

func TestDeleteLastLayerRefused(t *testing.T) {
	m := newTestImage(t, 2, 2)
	assert.False(t, m.DeleteCurrentLayer())
	assert.Equal(t, 1, m.LayerCount())
	assert.Equal(t, 0, m.Layer())
}

func TestAddAndDeleteSelection(t *testing.T) {
	m := newTestImage(t, 2, 2)
	assert.Equal(t, 1, m.AddLayer())
	assert.Equal(t, 2, m.AddLayer())
	m.SetLayer(1)
	assert.Equal(t, 2, m.AddLayer(), "new layer goes directly above the selection")
	assert.Equal(t, 4, m.LayerCount())

	top := m.LayerID(3)
	m.SetLayer(2)
	require.True(t, m.DeleteCurrentLayer())
	assert.Equal(t, 1, m.Layer(), "selection moves to the layer below")
	assert.Equal(t, top, m.LayerID(2))

	m.SetLayer(0)
	require.True(t, m.DeleteCurrentLayer())
	assert.Equal(t, 0, m.Layer())

	m.SetLayer(99)
	assert.Equal(t, m.LayerCount()-1, m.Layer())
	m.SetLayer(-4)
	assert.Equal(t, 0, m.Layer())
}

func TestInsertLayer(t *testing.T) {
	m := newTestImage(t, 2, 2)
	assert.ErrorIs(t, m.InsertLayer(0, surface.New(3, 3), "", true), ErrSizeMismatch)

	s := surface.New(2, 2)
	s.Fill(s.Bounds(), red)
	require.NoError(t, m.InsertLayer(5, s, "fixed-id", true))
	assert.Equal(t, 1, m.Layer())
	assert.Equal(t, "fixed-id", m.LayerID(1))
	m.FlushDirty()
	assert.Equal(t, red, m.Display().NRGBAAt(1, 1))
}

func TestDirtyTracking(t *testing.T) {
	m := newTestImage(t, 10, 10)
	m.MarkDirty(image.Rect(1, 1, 2, 2))
	m.MarkDirty(image.Rect(5, 6, 7, 7))
	m.MarkDirty(image.Rect(20, 20, 30, 30))
	assert.Equal(t, image.Rect(1, 1, 7, 7), m.Dirty())

	m.Current().SetUnsafe(3, 3, red)
	assert.Equal(t, white, m.Display().NRGBAAt(3, 3), "writes are invisible until flushed")
	assert.Equal(t, image.Rect(1, 1, 7, 7), m.FlushDirty())
	assert.Equal(t, red, m.Display().NRGBAAt(3, 3))
	assert.True(t, m.FlushDirty().Empty())
}

func TestRestore(t *testing.T) {
	m := newTestImage(t, 4, 4)
	snap := surface.New(2, 2)
	snap.Fill(snap.Bounds(), red)
	r := m.Restore(0, image.Pt(1, 1), snap)
	assert.Equal(t, image.Rect(1, 1, 3, 3), r)
	assert.Equal(t, r, m.Dirty())
	assert.True(t, m.Restore(7, image.Pt(0, 0), snap).Empty())

	flat := m.Flatten()
	assert.Equal(t, red, flat.NRGBAAt(2, 2))
	assert.Equal(t, white, flat.NRGBAAt(0, 0))
}
