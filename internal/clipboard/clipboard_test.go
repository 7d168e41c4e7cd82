//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/example/shineypaint/internal/imageio"
	"github.com/example/shineypaint/internal/layers"
)

func TestEnsureInitWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	initOnce = sync.Once{}
	initErr = nil

	err := WriteText("hello world")
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if _, err := ReadImage(0); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay from ReadImage, got %v", err)
	}
}

func TestDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	src.SetNRGBA(2, 1, color.NRGBA{G: 255, A: 255})
	data, err := imageio.EncodePNG(src)
	if err != nil {
		t.Fatal(err)
	}

	img, err := decodeImage(data, 0)
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds %v, want %v", img.Bounds(), src.Bounds())
	}

	if _, err := decodeImage(data, 4); !errors.Is(err, layers.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if _, err := decodeImage(nil, 0); !errors.Is(err, errNoImage) {
		t.Errorf("expected errNoImage, got %v", err)
	}
}
