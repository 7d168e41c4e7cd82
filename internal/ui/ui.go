// Package ui hosts a canvas session in a shiny window.
package ui

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/notify"
	"github.com/example/shineypaint/internal/render"
	"github.com/example/shineypaint/internal/theme"
)

const (
	frameInterval = time.Second / 60
	minWindow     = 480
	maxWindowW    = 1600
	maxWindowH    = 1000
)

// App holds a canvas session and the window that displays it.
type App struct {
	Controller *Controller
	Renderer   *render.Renderer
	Title      string

	sendMu sync.Mutex
	send   func(any)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithTheme sets the colours used to draw the window.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.Renderer = render.New(t) } }

// WithNotifier sets the desktop notifier used after saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.Controller.Notifier = n } }

// WithMaxSize bounds the size of images pasted from the clipboard.
func WithMaxSize(n int) Option { return func(a *App) { a.Controller.MaxSize = n } }

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option { return func(a *App) { a.Controller.Clipboard = c } }

// WithEncoder sets the encoder used by the save shortcut.
func WithEncoder(e canvas.Encoder) Option { return func(a *App) { a.Controller.Encoder = e } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *App) { a.Title = title } }

// WithCommandListener registers a callback for the commands the canvas
// emits. It runs on the window goroutine.
func WithCommandListener(fn func([]command.Command)) Option {
	return func(a *App) { a.Controller.OnCommands = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App for c that saves to output.
func New(c *canvas.Canvas, output string, opts ...Option) *App {
	a := &App{
		Controller: NewController(c, output),
		Renderer:   render.New(nil),
		Title:      "ShineyPaint",
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

type frameEvent struct{ at time.Time }

type commandEvent struct{ text string }

// Submit queues command lines for the window goroutine. It reports false
// when no window is open.
func (a *App) Submit(text string) bool {
	a.sendMu.Lock()
	send := a.send
	a.sendMu.Unlock()
	if send == nil {
		return false
	}
	send(commandEvent{text: text})
	return true
}

func (a *App) setSender(fn func(any)) {
	a.sendMu.Lock()
	a.send = fn
	a.sendMu.Unlock()
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		a.setSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

// initialSize picks a window size that shows the image at the current
// zoom, within sensible screen limits.
func initialSize(c *canvas.Canvas) image.Point {
	b := c.Image().Bounds()
	w := int(float64(b.Dx()) * c.Zoom())
	h := int(float64(b.Dy()) * c.Zoom())
	return image.Pt(min(max(w, minWindow), maxWindowW), min(max(h, minWindow), maxWindowH)+render.StatusHeight)
}

// Main runs the event loop on an existing screen.
func (a *App) Main(s screen.Screen) {
	ctl := a.Controller
	c := ctl.Canvas
	winSize := initialSize(c)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winSize.X, Height: winSize.Y, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	a.setSender(w.Send)

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(frameInterval)
		defer t.Stop()
		for {
			select {
			case at := <-t.C:
				w.Send(frameEvent{at: at})
			case <-done:
				return
			}
		}
	}()

	sized := false
	painting := false
	showing := false
	last := time.Now()
	repaint := func() {
		if !painting {
			painting = true
			w.Send(paint.Event{})
		}
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			winSize = e.Size()
			vp := render.ViewportSize(winSize)
			c.SetViewport(vp.X, vp.Y)
			if !sized {
				sized = true
				b := c.Image().Bounds()
				if float64(b.Dx())*c.Zoom() > float64(vp.X) || float64(b.Dy())*c.Zoom() > float64(vp.Y) {
					c.FitToViewport()
				} else {
					c.Center()
				}
			}
			repaint()
		case paint.Event:
			painting = false
			showing = ctl.messageActive()
			a.paint(s, w, winSize)
		case mouse.Event:
			if ctl.HandleMouse(e) {
				repaint()
			}
		case key.Event:
			if ctl.HandleKey(e) {
				repaint()
			}
		case commandEvent:
			ctl.HandleCommands(e.text)
			repaint()
		case frameEvent:
			dt := e.at.Sub(last).Seconds()
			last = e.at
			if c.Update(dt) || showing != ctl.messageActive() {
				repaint()
			}
		case error:
			log.Print(e)
		}
	}
}

func (a *App) paint(s screen.Screen, w screen.Window, sz image.Point) {
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	c := a.Controller.Canvas
	c.Flush()
	b, err := s.NewBuffer(sz)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	a.Renderer.Draw(context.Background(), b.RGBA(), c, a.Controller.Status(render.Status(c)))
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
