// Package clipboard moves images and short text between the editor and the
// system clipboard. Image data travels as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/example/shineypaint/internal/imageio"
)

var (
	errNoDisplay   = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errUnsupported = errors.New("clipboard is not supported on this platform")
	errNoImage     = errors.New("clipboard does not contain image data")
	errNoText      = errors.New("clipboard does not contain text data")
)

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := imageio.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return writeData(formatImage, data)
}

// ReadImage decodes the clipboard image, refusing images larger than
// maxSize on either side before decoding the pixels.
func ReadImage(maxSize int) (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := readData(formatImage)
	if err != nil {
		return nil, err
	}
	return decodeImage(data, maxSize)
}

// WriteText publishes text to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return writeData(formatText, []byte(text))
}

// ReadText returns the clipboard text.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := readData(formatText)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errNoText
	}
	return string(data), nil
}

type format int

const (
	formatText format = iota
	formatImage
)

func decodeImage(data []byte, maxSize int) (image.Image, error) {
	if len(data) == 0 {
		return nil, errNoImage
	}
	img, _, err := imageio.Read(bytes.NewReader(data), maxSize)
	if err != nil {
		return nil, fmt.Errorf("clipboard image: %w", err)
	}
	return img, nil
}
