// Package canvas ties the layered image, the tools and the action log
// together and turns input events into edits.
//
// A Canvas is single threaded. Front ends feed it events in order, call
// Update once per frame, then Flush and repaint the rectangle it returns.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/history"
	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/surface"
	"github.com/example/shineypaint/internal/tools"
)

// Tool selects what pointer input does.
type Tool = tools.Kind

const (
	ToolDraw          = tools.KindDraw
	ToolErase         = tools.KindErase
	ToolColorPicker   = tools.KindColorPicker
	ToolAreaDelimiter = tools.KindAreaDelimiter
)

// State is the interaction state.
type State int

const (
	StateIdle State = iota
	StateStroking
	StateDelimiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStroking:
		return "stroking"
	case StateDelimiting:
		return "delimiting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Defaults applied by New.
const (
	DefaultHistory  = 50
	DefaultRadius   = 4
	DefaultHardness = 0.5
	DefaultPanSpeed = 600
)

// Encoder writes a flattened image to path.
type Encoder interface {
	Encode(path string, img image.Image) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(path string, img image.Image) error

// Encode implements Encoder.
func (f EncoderFunc) Encode(path string, img image.Image) error { return f(path, img) }

// Canvas is the editing session for one layered image.
type Canvas struct {
	img       *layers.Image
	log       *history.Log
	cache     *brush.Cache
	pencil    *tools.Pencil
	eraser    *tools.Eraser
	picker    tools.ColorPicker
	delimiter *tools.AreaDelimiter
	active    tools.Tool
	state     State

	color    color.NRGBA
	radius   int
	hardness float64
	falloff  brush.Falloff
	pencilT  tools.PencilType
	toolKind Tool
	capacity int

	zoom     float64
	offset   f64.Vec2
	viewport image.Point
	panSpeed float64
	held     map[Key]bool
	fast     bool
	cursor   image.Point

	before      *surface.Surface
	strokeLayer int
	last        image.Point
	touched     image.Rectangle

	out []command.Command
}

// Option configures a Canvas during New.
type Option func(*Canvas)

// WithHistory sets the undo capacity. Zero disables undo.
func WithHistory(n int) Option { return func(c *Canvas) { c.capacity = max(n, 0) } }

// WithRadius sets the public brush radius, clamped to 1..brush.MaxRadius.
func WithRadius(r int) Option { return func(c *Canvas) { c.radius = r } }

// WithHardness sets the soft brush hardness in [0, 1].
func WithHardness(h float64) Option { return func(c *Canvas) { c.hardness = h } }

// WithFalloff sets the soft brush curve.
func WithFalloff(f brush.Falloff) Option { return func(c *Canvas) { c.falloff = f } }

// WithPencilType sets the pencil path.
func WithPencilType(t tools.PencilType) Option { return func(c *Canvas) { c.pencilT = t } }

// WithColor sets the drawing colour.
func WithColor(col color.NRGBA) Option { return func(c *Canvas) { c.color = col } }

// WithTool sets the initially active tool.
func WithTool(t Tool) Option { return func(c *Canvas) { c.toolKind = t } }

// WithZoom sets the initial zoom.
func WithZoom(z float64) Option { return func(c *Canvas) { c.zoom = z } }

// WithViewport sets the size of the on-screen area showing the image.
func WithViewport(w, h int) Option { return func(c *Canvas) { c.viewport = image.Pt(w, h) } }

// WithPanSpeed sets keyboard panning speed in screen pixels per second.
func WithPanSpeed(s float64) Option { return func(c *Canvas) { c.panSpeed = s } }

// New creates a canvas editing img.
func New(img *layers.Image, opts ...Option) *Canvas {
	c := &Canvas{
		img:       img,
		cache:     brush.NewCache(),
		delimiter: tools.NewAreaDelimiter(),
		color:     color.NRGBA{A: 255},
		radius:    DefaultRadius,
		hardness:  DefaultHardness,
		capacity:  DefaultHistory,
		zoom:      1,
		viewport:  img.Bounds().Size(),
		panSpeed:  DefaultPanSpeed,
		held:      make(map[Key]bool),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = history.New(c.capacity)
	c.zoom = clampZoom(c.zoom)
	c.cache.SetRadius(c.radius)
	c.cache.SetResolution(c.zoom)
	c.pencil = tools.NewPencil(c.cache, c.pencilT)
	c.eraser = tools.NewEraser(c.cache)
	c.applyProfile()
	c.active = c.toolFor(c.toolKind)
	return c
}

// Image returns the edited image.
func (c *Canvas) Image() *layers.Image { return c.img }

// History returns the action log.
func (c *Canvas) History() *history.Log { return c.log }

// Delimiter returns the area outline.
func (c *Canvas) Delimiter() *tools.AreaDelimiter { return c.delimiter }

// State returns the interaction state.
func (c *Canvas) State() State { return c.state }

// Tool returns the active tool.
func (c *Canvas) Tool() Tool { return c.active.Kind() }

// Color returns the drawing colour.
func (c *Canvas) Color() color.NRGBA { return c.color }

// Radius returns the public brush radius.
func (c *Canvas) Radius() int { return c.cache.Radius() }

// Hardness returns the soft brush hardness.
func (c *Canvas) Hardness() float64 { return c.hardness }

// Falloff returns the soft brush curve.
func (c *Canvas) Falloff() brush.Falloff { return c.falloff }

// PencilType returns the pencil path.
func (c *Canvas) PencilType() tools.PencilType { return c.pencil.Type }

// SetColor sets the drawing colour.
func (c *Canvas) SetColor(col color.NRGBA) { c.color = col }

// SetRadius sets the public brush radius. Values outside 1..brush.MaxRadius
// are rejected and the radius is left unchanged.
func (c *Canvas) SetRadius(r int) error {
	if r < 1 || r > brush.MaxRadius {
		return fmt.Errorf("radius %d out of range (valid range 1..%d)", r, brush.MaxRadius)
	}
	c.cache.SetRadius(r)
	return nil
}

// SetHardness sets the soft brush hardness.
func (c *Canvas) SetHardness(h float64) error {
	if h < 0 || h > 1 {
		return fmt.Errorf("hardness %v out of range (valid range 0..1)", h)
	}
	c.hardness = h
	c.applyProfile()
	return nil
}

// SetFalloff sets the soft brush curve.
func (c *Canvas) SetFalloff(f brush.Falloff) {
	c.falloff = f
	c.applyProfile()
}

// SetPencilType switches between hard and soft pencils.
func (c *Canvas) SetPencilType(t tools.PencilType) {
	c.pencil.Type = t
	c.applyProfile()
}

func (c *Canvas) applyProfile() {
	if c.pencil.Type == tools.PencilHard {
		c.cache.SetProfile(brush.Profile{Hard: true})
		return
	}
	c.cache.SetProfile(brush.Profile{Kind: c.falloff, Hardness: c.hardness})
}

// ErrStrokeInProgress is returned for operations refused mid-stroke.
var ErrStrokeInProgress = errors.New("stroke in progress")

// SetTool activates t and emits the toolbar exclusivity commands.
func (c *Canvas) SetTool(t Tool) error {
	if c.state == StateStroking {
		return ErrStrokeInProgress
	}
	if t < 0 || int(t) >= len(tools.Kinds) {
		return fmt.Errorf("unknown tool %d", int(t))
	}
	c.state = StateIdle
	c.active = c.toolFor(t)
	for _, k := range tools.Kinds {
		if k != t {
			c.emit(command.New("tool-"+k.String(), command.InputButton, command.Arg{Sub: command.SubDeactivate}))
		}
	}
	c.emit(command.New("tool-"+t.String(), command.InputButton, command.Arg{Sub: command.SubActivate}))
	logging.Logger().Debug("tool selected", "tool", t)
	return nil
}

func (c *Canvas) toolFor(t Tool) tools.Tool {
	switch t {
	case ToolErase:
		return c.eraser
	case ToolColorPicker:
		return c.picker
	case ToolAreaDelimiter:
		return c.delimiter
	default:
		return c.pencil
	}
}

// Undo reverts the last edit. It refuses while a stroke is in progress and
// returns false when nothing was undone.
func (c *Canvas) Undo() bool {
	if c.state == StateStroking {
		logging.Logger().Debug("undo ignored during stroke")
		return false
	}
	if !c.log.Undo(c.img) {
		return false
	}
	c.syncLayerControls()
	return true
}

// Redo reapplies the last undone edit under the same rules as Undo.
func (c *Canvas) Redo() bool {
	if c.state == StateStroking {
		logging.Logger().Debug("redo ignored during stroke")
		return false
	}
	if !c.log.Redo(c.img) {
		return false
	}
	c.syncLayerControls()
	return true
}

// Flush recomposites the dirty region and returns it.
func (c *Canvas) Flush() image.Rectangle { return c.img.FlushDirty() }

// Save flattens the visible layers and hands them to enc.
func (c *Canvas) Save(path string, enc Encoder) error {
	if enc == nil {
		return fmt.Errorf("save %s: no encoder", path)
	}
	if err := enc.Encode(path, c.img.Flatten()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	logging.Logger().Info("image saved", "path", path, "layers", c.img.LayerCount())
	return nil
}
