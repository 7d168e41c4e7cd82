package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/clipboard"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/config"
	"github.com/example/shineypaint/internal/imageio"
	"github.com/example/shineypaint/internal/layers"
)

// parseSize reads a WIDTHxHEIGHT size.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// source describes where an editing session gets its pixels.
type source struct {
	file          string
	newSize       string
	background    string
	fromClipboard bool
}

func (s source) load(maxSize int) (*layers.Image, error) {
	switch {
	case s.fromClipboard:
		img, err := clipboard.ReadImage(maxSize)
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return layers.FromImage(img, maxSize)
	case s.newSize != "":
		w, h, err := parseSize(s.newSize)
		if err != nil {
			return nil, err
		}
		bg, err := background(s.background)
		if err != nil {
			return nil, err
		}
		return layers.New(w, h, bg, maxSize)
	case s.file != "":
		img, err := imageio.Load(s.file, maxSize)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", s.file, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("input file is required")
}

// defaultOutput picks where a session saves when no output was given.
func defaultOutput(file string, cfg *config.Config) string {
	if file != "" {
		if f, err := imageio.FormatFromPath(file); err == nil && f.CanEncode() {
			return file
		}
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		return filepath.Join(filepath.Dir(file), base+".png")
	}
	name := "untitled.png"
	if cfg.SaveDir != "" {
		return filepath.Join(cfg.SaveDir, name)
	}
	return name
}

// newCanvas builds a canvas configured from the loaded config.
func (r *root) newCanvas(img *layers.Image, extra ...canvas.Option) *canvas.Canvas {
	opts := append(r.cfg().CanvasOptions(), extra...)
	return canvas.New(img, opts...)
}

// saveCanvas writes the flattened image and reports it the way the other
// commands do.
func (r *root) saveCanvas(c *canvas.Canvas, path string, quality int) error {
	if err := c.Save(path, imageio.Codec{JPEGQuality: quality}); err != nil {
		return err
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	r.notifySave(saved)
	return nil
}

func (r *root) copyCanvas(c *canvas.Canvas, detail string) error {
	img := c.Image().Flatten()
	if err := clipboard.WriteImage(img); err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
	r.notifyCopy(detail, img)
	return nil
}

// printCommands writes each emitted command on its own line.
func printCommands(w io.Writer, cmds []command.Command) {
	for _, c := range cmds {
		fmt.Fprintf(w, "< %s\n", c)
	}
}

func parseMods(words []string) (canvas.Modifiers, error) {
	var m canvas.Modifiers
	for _, w := range words {
		switch strings.ToLower(w) {
		case "shift":
			m |= canvas.ModShift
		case "ctrl", "control":
			m |= canvas.ModCtrl
		default:
			return 0, fmt.Errorf("unknown modifier %q", w)
		}
	}
	return m, nil
}

var keyNames = map[string]canvas.Key{
	"left":            canvas.KeyLeft,
	"right":           canvas.KeyRight,
	"up":              canvas.KeyUp,
	"down":            canvas.KeyDown,
	"zoomin":          canvas.KeyZoomIn,
	"zoomout":         canvas.KeyZoomOut,
	"undo":            canvas.KeyUndo,
	"redo":            canvas.KeyRedo,
	"deletevertex":    canvas.KeyDeleteVertex,
	"duplicatevertex": canvas.KeyDuplicateVertex,
	"clearoutline":    canvas.KeyClearOutline,
}

func parseKey(name string) (canvas.Key, error) {
	k, ok := keyNames[strings.ToLower(name)]
	if !ok {
		return canvas.KeyNone, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

func parsePoint(xs, ys string) (image.Point, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid integer %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid integer %q", ys)
	}
	return image.Pt(x, y), nil
}

// parsePoints reads an even number of integers as x y pairs.
func parsePoints(args []string) ([]image.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("points must be given as x y pairs")
	}
	pts := make([]image.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		p, err := parsePoint(args[i], args[i+1])
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// stroke presses at the first point, drags through the rest and releases
// at the last.
func stroke(c *canvas.Canvas, pts []image.Point, mods canvas.Modifiers) {
	c.PointerDown(pts[0], mods)
	for _, p := range pts[1:] {
		c.PointerMove(p)
	}
	c.PointerUp(pts[len(pts)-1])
}
