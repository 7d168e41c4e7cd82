package canvas

import (
	"image"

	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/pixpath"
	"github.com/example/shineypaint/internal/tools"
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
)

// Key is a logical key understood by the canvas. Front ends map their
// native key codes onto these.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn
	KeyZoomOut
	KeyUndo
	KeyRedo
	KeyDeleteVertex
	KeyDuplicateVertex
	KeyClearOutline
)

// fastPan multiplies the pan speed while shift is held.
const fastPan = 4

// PointerDown starts the active tool's gesture at screen point p. Presses
// outside the viewport or during another gesture are ignored.
func (c *Canvas) PointerDown(p image.Point, mods Modifiers) {
	c.cursor = p
	if c.state != StateIdle || !p.In(image.Rectangle{Max: c.viewport}) {
		return
	}
	ip := c.ScreenToImage(p)
	switch t := c.active.(type) {
	case *tools.Pencil, *tools.Eraser:
		c.beginStroke(ip)
	case tools.ColorPicker:
		cmd, col, ok := t.Grab(c.img, ip)
		if !ok {
			return
		}
		c.color = col
		c.emit(cmd)
	case *tools.AreaDelimiter:
		t.Tolerance = max(tools.DefaultTolerance, 4/c.zoom)
		t.HandleClick(c.ScreenToImageF(p))
		c.state = StateDelimiting
	}
}

// PointerMove tracks the cursor and continues any gesture in progress.
func (c *Canvas) PointerMove(p image.Point) {
	c.cursor = p
	switch c.state {
	case StateStroking:
		ip := c.ScreenToImage(p)
		if ip == c.last {
			return
		}
		path := []image.Point{ip}
		if d := ip.Sub(c.last); d.X > 1 || d.X < -1 || d.Y > 1 || d.Y < -1 {
			path = pixpath.Interpolate(c.last, ip)[1:]
		}
		c.stamp(path)
		c.last = ip
	case StateDelimiting:
		c.delimiter.HandleDrag(c.ScreenToImageF(p), true)
	}
}

// PointerUp finishes the gesture in progress at p.
func (c *Canvas) PointerUp(p image.Point) {
	c.PointerMove(p)
	switch c.state {
	case StateStroking:
		c.endStroke()
	case StateDelimiting:
		c.state = StateIdle
	}
}

// Cursor returns the last known pointer position in screen pixels.
func (c *Canvas) Cursor() image.Point { return c.cursor }

func (c *Canvas) beginStroke(at image.Point) {
	c.state = StateStroking
	c.strokeLayer = c.img.Layer()
	c.before = c.img.Current().Clone()
	c.touched = image.Rectangle{}
	c.last = at
	c.stamp([]image.Point{at})
}

func (c *Canvas) stamp(path []image.Point) {
	dst := c.img.LayerSurface(c.strokeLayer)
	var r image.Rectangle
	switch c.active.(type) {
	case *tools.Pencil:
		r = c.pencil.Apply(path, c.color, dst)
	case *tools.Eraser:
		r = c.eraser.Apply(path, dst)
	}
	if r.Empty() {
		return
	}
	c.touched = c.touched.Union(r)
	c.img.MarkDirty(r)
}

func (c *Canvas) endStroke() {
	after := c.img.LayerSurface(c.strokeLayer)
	c.log.RecordStroke(c.before, c.touched, after, c.strokeLayer)
	logging.Logger().Debug("stroke finished", "layer", c.strokeLayer, "rect", c.touched, "tool", c.active.Kind())
	c.before = nil
	c.state = StateIdle
}

// KeyDown handles a key press.
func (c *Canvas) KeyDown(k Key, mods Modifiers) {
	c.fast = mods&ModShift != 0
	switch k {
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		c.held[k] = true
	case KeyZoomIn:
		c.ZoomIn()
	case KeyZoomOut:
		c.ZoomOut()
	case KeyUndo:
		c.Undo()
	case KeyRedo:
		c.Redo()
	case KeyDeleteVertex, KeyDuplicateVertex, KeyClearOutline:
		if c.active.Kind() != ToolAreaDelimiter || c.state == StateDelimiting {
			return
		}
		switch k {
		case KeyDeleteVertex:
			c.delimiter.EraseSelected()
		case KeyDuplicateVertex:
			c.delimiter.DuplicateSelected()
		default:
			c.delimiter.Clear()
		}
	}
}

// KeyUp handles a key release.
func (c *Canvas) KeyUp(k Key, mods Modifiers) {
	c.fast = mods&ModShift != 0
	delete(c.held, k)
}

// Update advances time-based behaviour by dt seconds and reports whether
// the view changed.
func (c *Canvas) Update(dt float64) bool {
	var dx, dy float64
	if c.held[KeyLeft] {
		dx--
	}
	if c.held[KeyRight] {
		dx++
	}
	if c.held[KeyUp] {
		dy--
	}
	if c.held[KeyDown] {
		dy++
	}
	if (dx == 0 && dy == 0) || dt <= 0 {
		return false
	}
	speed := c.panSpeed * dt
	if c.fast {
		speed *= fastPan
	}
	c.Pan(dx*speed, dy*speed)
	return true
}
