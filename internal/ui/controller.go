package ui

import (
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/clipboard"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/imageio"
	"github.com/example/shineypaint/internal/notify"
	"github.com/example/shineypaint/internal/tools"
)

const (
	messageDuration = 2 * time.Second
	hardnessStep    = 0.1
)

// Clipboard is the subset of the system clipboard the editor uses.
type Clipboard interface {
	WriteImage(img image.Image) error
	ReadImage(maxSize int) (image.Image, error)
	WriteText(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteImage(img image.Image) error { return clipboard.WriteImage(img) }

func (systemClipboard) ReadImage(maxSize int) (image.Image, error) {
	return clipboard.ReadImage(maxSize)
}

func (systemClipboard) WriteText(text string) error { return clipboard.WriteText(text) }

// Controller turns window events into canvas calls and editor actions. It
// owns no window, so it is driven directly by the event loop and by tests.
// All methods must be called from a single goroutine.
type Controller struct {
	Canvas    *canvas.Canvas
	Output    string
	MaxSize   int
	Encoder   canvas.Encoder
	Notifier  *notify.Notifier
	Clipboard Clipboard

	// OnCommands receives the commands the canvas emitted while handling
	// an event.
	OnCommands func([]command.Command)

	now           func() time.Time
	message       string
	messageUntil  time.Time
	confirmDelete bool
	actions       map[string]func()
	keyboard      map[KeyShortcut]string
}

// NewController binds the default shortcuts to c.
func NewController(c *canvas.Canvas, output string) *Controller {
	ctl := &Controller{
		Canvas:    c,
		Output:    output,
		Encoder:   imageio.Codec{},
		Clipboard: systemClipboard{},
		now:       time.Now,
	}
	ctl.configure()
	return ctl
}

func (ctl *Controller) register(name string, keys KeyboardShortcuts, fn func()) {
	ctl.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			ctl.keyboard[sc] = name
		}
	}
}

func (ctl *Controller) configure() {
	ctl.actions = map[string]func(){}
	ctl.keyboard = map[KeyShortcut]string{}
	c := ctl.Canvas

	ctl.register("save", shortcutList{ctrl('s')}, ctl.save)
	ctl.register("copy", shortcutList{ctrl('c')}, ctl.copyImage)
	ctl.register("copycolor", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, ctl.copyColor)
	ctl.register("paste", shortcutList{ctrl('v')}, ctl.paste)

	ctl.register("undo", shortcutList{ctrl('z')}, func() { c.KeyDown(canvas.KeyUndo, canvas.ModCtrl) })
	ctl.register("redo", shortcutList{ctrl('y'), {Rune: 'z', Modifiers: key.ModControl | key.ModShift}}, func() {
		c.KeyDown(canvas.KeyRedo, canvas.ModCtrl)
	})
	ctl.register("zoomin", shortcutList{plain('+'), plain('=')}, func() { c.KeyDown(canvas.KeyZoomIn, 0) })
	ctl.register("zoomout", shortcutList{plain('-')}, func() { c.KeyDown(canvas.KeyZoomOut, 0) })
	ctl.register("fit", shortcutList{plain('0')}, c.FitToViewport)

	for _, k := range tools.Kinds {
		t := k
		ctl.register(t.String(), shortcutList{plain(toolRune(t))}, func() { ctl.check(c.SetTool(t)) })
	}
	ctl.register("pencil", shortcutList{plain('p')}, func() {
		if c.PencilType() == tools.PencilHard {
			c.SetPencilType(tools.PencilSoft)
		} else {
			c.SetPencilType(tools.PencilHard)
		}
		ctl.flash("pencil %s", c.PencilType())
	})
	ctl.register("falloff", shortcutList{plain('f')}, func() {
		c.SetFalloff((c.Falloff() + 1) % (brush.FalloffExponential + 1))
		ctl.flash("falloff %s", c.Falloff())
	})
	ctl.register("smaller", shortcutList{plain('[')}, func() { c.SetRadius(max(c.Radius()-1, 1)) })
	ctl.register("larger", shortcutList{plain(']')}, func() { c.SetRadius(min(c.Radius()+1, brush.MaxRadius)) })
	ctl.register("softer", shortcutList{plain(',')}, func() { ctl.check(c.SetHardness(max(c.Hardness()-hardnessStep, 0))) })
	ctl.register("harder", shortcutList{plain('.')}, func() { ctl.check(c.SetHardness(min(c.Hardness()+hardnessStep, 1))) })

	ctl.register("newlayer", shortcutList{ctrl('n')}, func() { ctl.check(c.AddLayer()) })
	ctl.register("deletelayer", shortcutList{ctrl('d')}, ctl.deleteLayer)
	ctl.register("layerup", shortcutList{code(key.CodePageUp)}, func() { ctl.check(c.SetLayer(c.Image().Layer() + 1)) })
	ctl.register("layerdown", shortcutList{code(key.CodePageDown)}, func() { ctl.check(c.SetLayer(c.Image().Layer() - 1)) })
	ctl.register("layervisible", shortcutList{plain('h')}, func() { c.SetLayerVisibility(!c.Image().Visible()) })

	ctl.register("deletevertex", shortcutList{code(key.CodeDeleteForward), code(key.CodeDeleteBackspace)}, func() {
		c.KeyDown(canvas.KeyDeleteVertex, 0)
	})
	ctl.register("duplicatevertex", shortcutList{code(key.CodeInsert)}, func() { c.KeyDown(canvas.KeyDuplicateVertex, 0) })
	ctl.register("clearoutline", shortcutList{code(key.CodeEscape)}, func() { c.KeyDown(canvas.KeyClearOutline, 0) })
}

func toolRune(k tools.Kind) rune {
	switch k {
	case tools.KindErase:
		return 'e'
	case tools.KindColorPicker:
		return 'i'
	case tools.KindAreaDelimiter:
		return 'd'
	}
	return 'b'
}

// HandleKey processes a key event and reports whether a repaint is needed.
func (ctl *Controller) HandleKey(e key.Event) bool {
	mods := keyMods(e.Modifiers)
	if e.Direction == key.DirRelease {
		if k := navKey(e.Code); k != canvas.KeyNone {
			ctl.Canvas.KeyUp(k, mods)
		}
		return false
	}
	if k := navKey(e.Code); k != canvas.KeyNone {
		ctl.Canvas.KeyDown(k, mods)
		return true
	}
	sc := shortcutFor(e)
	action, ok := ctl.keyboard[sc]
	if !ok && sc.Modifiers&key.ModShift != 0 {
		sc.Modifiers &^= key.ModShift
		action, ok = ctl.keyboard[sc]
	}
	if !ok {
		return false
	}
	if action != "deletelayer" {
		ctl.confirmDelete = false
	}
	ctl.Run(action)
	return true
}

// HandleMouse processes a mouse event at window coordinates and reports
// whether a repaint is needed.
func (ctl *Controller) HandleMouse(e mouse.Event) bool {
	c := ctl.Canvas
	p := image.Pt(int(e.X), int(e.Y))
	if n := wheelNotches(e.Button); n != 0 {
		if e.Direction == mouse.DirPress || e.Direction == mouse.DirStep {
			c.Scroll(n)
			return true
		}
		return false
	}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if ctl.messageActive() {
			ctl.message = ""
		}
		c.PointerDown(p, keyMods(e.Modifiers))
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		c.PointerUp(p)
	default:
		c.PointerMove(p)
	}
	ctl.drain()
	return true
}

// HandleCommands applies a block of command lines from another front end.
func (ctl *Controller) HandleCommands(text string) int {
	n := ctl.Canvas.HandleCommands(text)
	ctl.drain()
	return n
}

// Run invokes the named action. Unknown names are ignored.
func (ctl *Controller) Run(action string) {
	fn, ok := ctl.actions[action]
	if !ok {
		return
	}
	fn()
	ctl.drain()
}

// Action returns the name of the action bound to sc.
func (ctl *Controller) Action(sc KeyShortcut) (string, bool) {
	a, ok := ctl.keyboard[sc]
	return a, ok
}

// Status returns the transient message while it is showing, otherwise
// fallback.
func (ctl *Controller) Status(fallback string) string {
	if ctl.messageActive() {
		return ctl.message
	}
	return fallback
}

func (ctl *Controller) messageActive() bool {
	return ctl.message != "" && ctl.now().Before(ctl.messageUntil)
}

func (ctl *Controller) flash(format string, args ...any) {
	ctl.message = fmt.Sprintf(format, args...)
	log.Print(ctl.message)
	ctl.messageUntil = ctl.now().Add(messageDuration)
}

func (ctl *Controller) check(err error) {
	if err != nil {
		ctl.flash("%v", err)
	}
}

func (ctl *Controller) drain() {
	cmds := ctl.Canvas.Commands()
	if len(cmds) > 0 && ctl.OnCommands != nil {
		ctl.OnCommands(cmds)
	}
}

func (ctl *Controller) save() {
	if ctl.Output == "" {
		ctl.flash("save: no output file")
		return
	}
	if err := ctl.Canvas.Save(ctl.Output, ctl.Encoder); err != nil {
		log.Printf("save: %v", err)
		ctl.flash("save failed")
		return
	}
	ctl.flash("saved %s", ctl.Output)
	ctl.Notifier.Save(ctl.Output)
}

func (ctl *Controller) copyImage() {
	img := ctl.Canvas.Image().Flatten()
	if err := ctl.Clipboard.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		ctl.flash("copy failed")
		return
	}
	ctl.flash("image copied to clipboard")
	ctl.Notifier.Copy("image", img)
}

func (ctl *Controller) copyColor() {
	hex := "#" + command.FormatColor(ctl.Canvas.Color())
	if err := ctl.Clipboard.WriteText(hex); err != nil {
		log.Printf("copy colour: %v", err)
		ctl.flash("copy failed")
		return
	}
	ctl.flash("copied %s", hex)
	ctl.Notifier.Copy("colour "+hex, nil)
}

func (ctl *Controller) paste() {
	img, err := ctl.Clipboard.ReadImage(ctl.MaxSize)
	if err != nil {
		log.Printf("paste: %v", err)
		ctl.flash("nothing to paste")
		return
	}
	if err := ctl.Canvas.PasteLayer(img); err != nil {
		log.Printf("paste: %v", err)
		ctl.flash("paste failed: %v", err)
		return
	}
	ctl.flash("pasted new layer")
}

func (ctl *Controller) deleteLayer() {
	if !ctl.confirmDelete {
		ctl.confirmDelete = true
		ctl.flash("press ctrl+D again to delete the layer")
		return
	}
	ctl.confirmDelete = false
	ok, err := ctl.Canvas.DeleteLayer()
	switch {
	case err != nil:
		ctl.check(err)
	case !ok:
		ctl.flash("cannot delete the last layer")
	}
}
