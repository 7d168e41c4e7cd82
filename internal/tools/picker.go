package tools

import (
	"image"
	"image/color"

	"github.com/example/shineypaint/internal/command"
)

// ColorSource yields the composited colour of a pixel.
type ColorSource interface {
	PixelColor(p image.Point) (color.NRGBA, bool)
}

// ColorPicker samples the composited image.
type ColorPicker struct{}

// Kind implements Tool.
func (ColorPicker) Kind() Kind { return KindColorPicker }

// Grab samples p and returns the colour-set command for it. The command
// always carries six hex digits while the returned colour keeps the sampled
// alpha. ok is false when p lies outside the image, in which case nothing
// should be emitted.
func (ColorPicker) Grab(src ColorSource, p image.Point) (cmd command.Command, c color.NRGBA, ok bool) {
	c, ok = src.PixelColor(p)
	if !ok {
		return command.Command{}, color.NRGBA{}, false
	}
	return command.Set(command.OptColor, command.InputText, command.FormatRGB(c)), c, true
}
