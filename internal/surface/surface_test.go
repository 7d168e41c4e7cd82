package surface

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestOverWorkedExample(t *testing.T) {
	halfBlue := color.NRGBA{B: 255, A: 128}
	got := Over(red, halfBlue)
	assert.Equal(t, color.NRGBA{R: 127, G: 0, B: 128, A: 255}, got)
}

func TestOverEdgeCases(t *testing.T) {
	assert.Equal(t, blue, Over(red, blue), "opaque source replaces")
	assert.Equal(t, red, Over(red, color.NRGBA{G: 200}), "transparent source keeps destination")
	assert.Equal(t, color.NRGBA{}, Over(color.NRGBA{R: 9}, color.NRGBA{G: 9}), "zero alpha result is transparent black")

	got := Over(color.NRGBA{}, color.NRGBA{R: 200, G: 100, B: 50, A: 77})
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 77}, got, "over transparent keeps straight colour")
}

func TestMulDiv255(t *testing.T) {
	assert.Equal(t, uint8(255), MulDiv255(255, 255))
	assert.Equal(t, uint8(0), MulDiv255(0, 255))
	assert.Equal(t, uint8(128), MulDiv255(255, 128))
	assert.Equal(t, uint8(64), MulDiv255(128, 128))
}

func TestPitchLargerThanRow(t *testing.T) {
	s := NewWithPitch(3, 2, 64)
	require.Equal(t, 64, s.Pitch())
	require.True(t, s.Set(2, 1, red))
	got, ok := s.At(2, 1)
	require.True(t, ok)
	assert.Equal(t, red, got)
	assert.Equal(t, uint8(255), s.NRGBA().Pix[64+8])

	clone := s.Clone()
	assert.Equal(t, 12, clone.Pitch())
	got, _ = clone.At(2, 1)
	assert.Equal(t, red, got)
}

func TestOutOfBounds(t *testing.T) {
	s := New(4, 4)
	assert.False(t, s.Set(-1, 0, red))
	assert.False(t, s.Set(4, 0, red))
	_, ok := s.At(0, 4)
	assert.False(t, ok)
	assert.True(t, s.Fill(image.Rect(10, 10, 20, 20), red).Empty())
}

func TestFillBlendModes(t *testing.T) {
	s := New(2, 1)
	s.Fill(s.Bounds(), red)
	s.SetBlendMode(BlendBlend)
	s.Fill(image.Rect(0, 0, 1, 1), color.NRGBA{B: 255, A: 128})
	got, _ := s.At(0, 0)
	assert.Equal(t, color.NRGBA{R: 127, B: 128, A: 255}, got)

	s.SetBlendMode(BlendNone)
	s.Fill(image.Rect(1, 0, 2, 1), color.NRGBA{G: 10, A: 20})
	got, _ = s.At(1, 0)
	assert.Equal(t, color.NRGBA{G: 10, A: 20}, got, "none overwrites alpha")
}

func TestBlitClipsAndModulates(t *testing.T) {
	src := New(3, 3)
	src.Fill(src.Bounds(), blue)
	src.SetAlphaMod(128)

	dst := New(4, 4)
	dst.Fill(dst.Bounds(), red)
	dst.SetBlendMode(BlendBlend)
	written := src.Blit(src.Bounds(), dst, image.Pt(2, 2))
	assert.Equal(t, image.Rect(2, 2, 4, 4), written)

	got, _ := dst.At(3, 3)
	assert.Equal(t, color.NRGBA{R: 127, B: 128, A: 255}, got)
	got, _ = dst.At(1, 1)
	assert.Equal(t, red, got)
}

func TestBlitUsesDestinationBlendMode(t *testing.T) {
	src := New(1, 1)
	src.Fill(src.Bounds(), color.NRGBA{B: 255, A: 128})
	src.SetBlendMode(BlendBlend)

	dst := New(1, 1)
	dst.Fill(dst.Bounds(), red)
	src.Blit(src.Bounds(), dst, image.Point{})
	got, _ := dst.At(0, 0)
	assert.Equal(t, color.NRGBA{B: 255, A: 128}, got, "none destination overwrites")

	dst.Fill(dst.Bounds(), red)
	dst.SetBlendMode(BlendBlend)
	src.SetBlendMode(BlendNone)
	src.Blit(src.Bounds(), dst, image.Point{})
	got, _ = dst.At(0, 0)
	assert.Equal(t, color.NRGBA{R: 127, B: 128, A: 255}, got, "blend destination composites")
}

func TestExtractAndPaste(t *testing.T) {
	s := New(5, 5)
	s.Set(2, 2, red)
	part := s.Extract(image.Rect(1, 1, 4, 4))
	require.Equal(t, 3, part.Width())
	got, _ := part.At(1, 1)
	assert.Equal(t, red, got)

	s.Clear(s.Bounds())
	got, _ = s.At(2, 2)
	assert.Equal(t, color.NRGBA{}, got)

	s.Paste(part, image.Pt(1, 1))
	got, _ = s.At(2, 2)
	assert.Equal(t, red, got)
}

func TestFromImageKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.SetNRGBA(11, 10, color.NRGBA{R: 200, A: 100})
	s := FromImage(src)
	require.Equal(t, image.Rect(0, 0, 2, 1), s.Bounds())
	got, _ := s.At(1, 0)
	assert.Equal(t, color.NRGBA{R: 200, A: 100}, got)
}
