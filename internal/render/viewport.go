// Package render draws a canvas session into a window-sized RGBA buffer.
package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/theme"
	"github.com/example/shineypaint/internal/tools"
)

// StatusHeight is the height in pixels of the status bar under the image.
const StatusHeight = 22

const (
	checkerSize = 8
	vertexSize  = 5
)

// Renderer paints frames. It caches the shadow mask between frames and is
// not safe for concurrent use.
type Renderer struct {
	Theme  *theme.Theme
	Shadow ShadowOptions

	shadow shadowCache
}

// New returns a renderer using t, or the default theme when t is nil.
func New(t *theme.Theme) *Renderer {
	if t == nil {
		t = theme.Default()
	}
	return &Renderer{Theme: t, Shadow: DefaultShadowOptions()}
}

// ViewportSize returns the image area left for a window of the given size.
func ViewportSize(win image.Point) image.Point {
	return image.Pt(win.X, max(win.Y-StatusHeight, 0))
}

// ImageRect returns the on-screen rectangle covered by the image.
func ImageRect(c *canvas.Canvas) image.Rectangle {
	b := c.Image().Bounds()
	z := c.Zoom()
	off := c.Offset()
	return image.Rect(
		int(math.Floor(off[0])),
		int(math.Floor(off[1])),
		int(math.Floor(off[0]+float64(b.Dx())*z)),
		int(math.Floor(off[1]+float64(b.Dy())*z)),
	)
}

// Draw paints the whole frame for c into dst and writes status in the bar
// at the bottom. It stops early when ctx is cancelled.
func (r *Renderer) Draw(ctx context.Context, dst *image.RGBA, c *canvas.Canvas, status string) {
	t := r.Theme
	b := dst.Bounds()
	area := image.Rectangle{Min: b.Min, Max: b.Min.Add(ViewportSize(b.Size()))}
	view := dst.SubImage(area).(*image.RGBA)
	draw.Draw(view, area, image.NewUniform(t.Background), image.Point{}, draw.Src)

	ir := ImageRect(c).Add(area.Min)
	pad := r.Shadow.Radius + max(abs(r.Shadow.Offset.X), abs(r.Shadow.Offset.Y))
	r.shadow.draw(view, ir.Intersect(area.Inset(-pad)), r.Shadow)
	drawCheckerboard(view, ir, ir.Min, checkerSize, t.CheckerLight, t.CheckerDark)
	if ctx.Err() != nil {
		return
	}

	img := c.Image().Display()
	xdraw.NearestNeighbor.Scale(view, ir, img, img.Bounds(), draw.Over, nil)
	drawRect(view, ir.Inset(-1), t.ImageBorder, 1)
	if ctx.Err() != nil {
		return
	}

	for _, pr := range c.PreviewRects() {
		fillRect(view, pr.Add(area.Min), t.BrushOutline)
	}
	r.drawDelimiter(view, c, area.Min)
	if ctx.Err() != nil {
		return
	}

	bar := image.Rect(b.Min.X, area.Max.Y, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, image.NewUniform(t.StatusBackground), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.StatusText), Face: statusFace}
	ascent := statusFace.Metrics().Ascent.Ceil()
	descent := statusFace.Metrics().Descent.Ceil()
	d.Dot = fixed.P(bar.Min.X+6, bar.Min.Y+(bar.Dy()-ascent-descent)/2+ascent)
	d.DrawString(status)
}

func (r *Renderer) drawDelimiter(dst *image.RGBA, c *canvas.Canvas, origin image.Point) {
	d := c.Delimiter()
	pts := d.Points()
	if len(pts) == 0 {
		return
	}
	t := r.Theme
	screen := make([]image.Point, len(pts))
	for i, p := range pts {
		s := c.ImageToScreen(p)
		screen[i] = toPoint(s).Add(origin)
	}
	for i := 1; i < len(screen); i++ {
		drawLine(dst, screen[i-1].X, screen[i-1].Y, screen[i].X, screen[i].Y, t.DelimiterLine, 1)
	}
	if d.LoopBack && len(screen) > 2 {
		last := screen[len(screen)-1]
		drawLine(dst, last.X, last.Y, screen[0].X, screen[0].Y, t.DelimiterLine, 1)
	}
	for i, p := range screen {
		col := t.DelimiterVertex
		if i == d.Selected() {
			col = t.DelimiterSelected
		}
		h := vertexSize / 2
		fillRect(dst, image.Rect(p.X-h, p.Y-h, p.X+h+1, p.Y+h+1), col)
	}
}

// Status describes the session state for the status bar.
func Status(c *canvas.Canvas) string {
	img := c.Image()
	brush := fmt.Sprintf("r=%d %s", c.Radius(), c.PencilType())
	if c.PencilType() == tools.PencilSoft {
		brush += fmt.Sprintf(" %s %.2f", c.Falloff(), c.Hardness())
	}
	at := c.ScreenToImage(c.Cursor())
	pos := "-"
	if at.In(img.Bounds()) {
		pos = fmt.Sprintf("%d,%d", at.X, at.Y)
	}
	return fmt.Sprintf("%s  %s  #%s  layer %d/%d  %.0f%%  %dx%d  %s",
		c.Tool(), brush, command.FormatColor(c.Color()),
		img.Layer()+1, img.LayerCount(), c.Zoom()*100,
		img.Width(), img.Height(), pos)
}

func toPoint(v f64.Vec2) image.Point {
	return image.Pt(int(math.Floor(v[0])), int(math.Floor(v[1])))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
