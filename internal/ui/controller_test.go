package ui

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/tools"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

type fakeClipboard struct {
	img  image.Image
	text string
	err  error
}

func (f *fakeClipboard) WriteImage(img image.Image) error {
	f.img = img
	return f.err
}

func (f *fakeClipboard) ReadImage(int) (image.Image, error) {
	if f.img == nil {
		return nil, errors.New("empty")
	}
	return f.img, f.err
}

func (f *fakeClipboard) WriteText(text string) error {
	f.text = text
	return f.err
}

func newController(t *testing.T, w, h int) (*Controller, *[]string) {
	t.Helper()
	img, err := layers.New(w, h, white, 0)
	require.NoError(t, err)
	ctl := NewController(canvas.New(img, canvas.WithRadius(1)), "")
	ctl.Clipboard = &fakeClipboard{}
	var got []string
	ctl.OnCommands = func(cmds []command.Command) {
		for _, c := range cmds {
			got = append(got, c.String())
		}
	}
	return ctl, &got
}

func press(r rune, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Modifiers: mods, Direction: key.DirPress}
}

func pressCode(c key.Code) key.Event {
	return key.Event{Rune: -1, Code: c, Direction: key.DirPress}
}

func click(ctl *Controller, pts ...image.Point) {
	ctl.HandleMouse(mouse.Event{X: float32(pts[0].X), Y: float32(pts[0].Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	for _, p := range pts[1:] {
		ctl.HandleMouse(mouse.Event{X: float32(p.X), Y: float32(p.Y)})
	}
	end := pts[len(pts)-1]
	ctl.HandleMouse(mouse.Event{X: float32(end.X), Y: float32(end.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func TestShortcutFor(t *testing.T) {
	assert.Equal(t, KeyShortcut{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		shortcutFor(key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}))
	assert.Equal(t, KeyShortcut{Code: key.CodeEscape}, shortcutFor(pressCode(key.CodeEscape)))
	assert.Equal(t, KeyShortcut{Rune: 's', Modifiers: key.ModControl},
		shortcutFor(key.Event{Rune: 's', Modifiers: key.ModControl | key.ModAlt}))
}

func TestToolKeys(t *testing.T) {
	ctl, got := newController(t, 8, 8)
	for r, want := range map[rune]tools.Kind{'e': tools.KindErase, 'i': tools.KindColorPicker, 'd': tools.KindAreaDelimiter, 'b': tools.KindDraw} {
		require.True(t, ctl.HandleKey(press(r, 0)))
		assert.Equal(t, want, ctl.Canvas.Tool())
	}
	assert.Contains(t, *got, "tool-erase_button_activate")
	assert.Contains(t, *got, "tool-draw_button_deactivate")
}

func TestUnboundKeyIgnored(t *testing.T) {
	ctl, _ := newController(t, 8, 8)
	assert.False(t, ctl.HandleKey(press('q', 0)))
}

func TestShiftedZoomKey(t *testing.T) {
	ctl, _ := newController(t, 8, 8)
	require.True(t, ctl.HandleKey(press('+', key.ModShift)))
	assert.InDelta(t, canvas.ZoomStep, ctl.Canvas.Zoom(), 1e-9)
	ctl.HandleKey(press('-', 0))
	assert.InDelta(t, 1.0, ctl.Canvas.Zoom(), 1e-9)
}

func TestMouseStrokeAndUndoShortcut(t *testing.T) {
	ctl, _ := newController(t, 10, 10)
	click(ctl, image.Pt(2, 2), image.Pt(6, 2))
	ctl.Canvas.Flush()
	disp := ctl.Canvas.Image().Display()
	for x := 2; x <= 6; x++ {
		assert.Equal(t, uint8(0), disp.NRGBAAt(x, 2).R, "x=%d", x)
	}

	ctl.HandleKey(press('z', key.ModControl))
	ctl.Canvas.Flush()
	assert.Equal(t, white, ctl.Canvas.Image().Display().NRGBAAt(4, 2))

	ctl.HandleKey(press('Z', key.ModControl|key.ModShift))
	ctl.Canvas.Flush()
	assert.Equal(t, uint8(0), ctl.Canvas.Image().Display().NRGBAAt(4, 2).R)
}

func TestRightButtonDoesNotPaint(t *testing.T) {
	ctl, _ := newController(t, 10, 10)
	assert.False(t, ctl.HandleMouse(mouse.Event{X: 3, Y: 3, Button: mouse.ButtonRight, Direction: mouse.DirPress}))
	assert.Equal(t, canvas.StateIdle, ctl.Canvas.State())
}

func TestWheelZooms(t *testing.T) {
	ctl, _ := newController(t, 10, 10)
	require.True(t, ctl.HandleMouse(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}))
	assert.InDelta(t, canvas.ZoomStep, ctl.Canvas.Zoom(), 1e-9)
	ctl.HandleMouse(mouse.Event{Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	assert.InDelta(t, 1.0, ctl.Canvas.Zoom(), 1e-9)
}

func TestArrowKeysHoldPan(t *testing.T) {
	ctl, _ := newController(t, 10, 10)
	require.True(t, ctl.HandleKey(key.Event{Code: key.CodeRightArrow, Direction: key.DirPress}))
	require.True(t, ctl.Canvas.Update(0.5))
	assert.InDelta(t, canvas.DefaultPanSpeed/2, ctl.Canvas.Offset()[0], 1e-9)

	ctl.HandleKey(key.Event{Code: key.CodeRightArrow, Direction: key.DirRelease})
	assert.False(t, ctl.Canvas.Update(0.5))
}

func TestSaveShortcut(t *testing.T) {
	ctl, _ := newController(t, 4, 4)
	assert.True(t, ctl.HandleKey(press('s', key.ModControl)))
	assert.Equal(t, "save: no output file", ctl.Status("idle"))

	var saved string
	ctl.Output = "out.png"
	ctl.Encoder = canvas.EncoderFunc(func(path string, img image.Image) error {
		saved = path
		assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
		return nil
	})
	ctl.HandleKey(press('s', key.ModControl))
	assert.Equal(t, "out.png", saved)
	assert.Equal(t, "saved out.png", ctl.Status("idle"))
}

func TestCopyAndPaste(t *testing.T) {
	ctl, got := newController(t, 4, 4)
	cb := ctl.Clipboard.(*fakeClipboard)

	ctl.HandleKey(press('c', key.ModControl))
	require.NotNil(t, cb.img)
	assert.Equal(t, image.Rect(0, 0, 4, 4), cb.img.Bounds())

	ctl.HandleKey(press('v', key.ModControl))
	assert.Equal(t, 2, ctl.Canvas.Image().LayerCount())
	assert.Equal(t, 1, ctl.Canvas.Image().Layer())
	assert.Contains(t, *got, "layer_slider_range/0/1_set/1")

	ctl.HandleKey(press('c', key.ModControl|key.ModShift))
	assert.Equal(t, "#000000", cb.text)
}

func TestPasteFailureShowsMessage(t *testing.T) {
	ctl, _ := newController(t, 4, 4)
	ctl.HandleKey(press('v', key.ModControl))
	assert.Equal(t, 1, ctl.Canvas.Image().LayerCount())
	assert.Equal(t, "nothing to paste", ctl.Status(""))
}

func TestDeleteLayerNeedsConfirmation(t *testing.T) {
	ctl, _ := newController(t, 4, 4)
	ctl.HandleKey(press('n', key.ModControl))
	require.Equal(t, 2, ctl.Canvas.Image().LayerCount())

	ctl.HandleKey(press('d', key.ModControl))
	assert.Equal(t, 2, ctl.Canvas.Image().LayerCount())
	ctl.HandleKey(press('e', 0))
	ctl.HandleKey(press('d', key.ModControl))
	assert.Equal(t, 2, ctl.Canvas.Image().LayerCount())
	ctl.HandleKey(press('d', key.ModControl))
	assert.Equal(t, 1, ctl.Canvas.Image().LayerCount())

	ctl.HandleKey(press('d', key.ModControl))
	ctl.HandleKey(press('d', key.ModControl))
	assert.Equal(t, "cannot delete the last layer", ctl.Status(""))
}

func TestLayerNavigation(t *testing.T) {
	ctl, _ := newController(t, 4, 4)
	ctl.HandleKey(press('n', key.ModControl))
	ctl.HandleKey(pressCode(key.CodePageDown))
	assert.Equal(t, 0, ctl.Canvas.Image().Layer())
	ctl.HandleKey(pressCode(key.CodePageUp))
	assert.Equal(t, 1, ctl.Canvas.Image().Layer())

	ctl.HandleKey(press('h', 0))
	assert.False(t, ctl.Canvas.Image().Visible())
}

func TestBrushKeys(t *testing.T) {
	ctl, _ := newController(t, 4, 4)
	ctl.HandleKey(press(']', 0))
	assert.Equal(t, 2, ctl.Canvas.Radius())
	ctl.HandleKey(press('[', 0))
	assert.Equal(t, 1, ctl.Canvas.Radius())
	ctl.HandleKey(press('[', 0))
	assert.Equal(t, 1, ctl.Canvas.Radius())
	require.NoError(t, ctl.Canvas.SetRadius(brush.MaxRadius))
	ctl.HandleKey(press(']', 0))
	assert.Equal(t, brush.MaxRadius, ctl.Canvas.Radius())
	require.NoError(t, ctl.Canvas.SetRadius(1))

	ctl.HandleKey(press('p', 0))
	assert.Equal(t, tools.PencilSoft, ctl.Canvas.PencilType())
	before := ctl.Canvas.Falloff()
	ctl.HandleKey(press('f', 0))
	assert.NotEqual(t, before, ctl.Canvas.Falloff())

	h := ctl.Canvas.Hardness()
	ctl.HandleKey(press('.', 0))
	assert.InDelta(t, h+hardnessStep, ctl.Canvas.Hardness(), 1e-9)
}

func TestDelimiterKeys(t *testing.T) {
	ctl, _ := newController(t, 20, 20)
	ctl.HandleKey(press('d', 0))
	click(ctl, image.Pt(2, 2))
	click(ctl, image.Pt(10, 2))
	require.Equal(t, 2, ctl.Canvas.Delimiter().Len())

	ctl.HandleKey(pressCode(key.CodeInsert))
	assert.Equal(t, 3, ctl.Canvas.Delimiter().Len())
	ctl.HandleKey(pressCode(key.CodeDeleteForward))
	assert.Equal(t, 2, ctl.Canvas.Delimiter().Len())
	ctl.HandleKey(pressCode(key.CodeEscape))
	assert.Zero(t, ctl.Canvas.Delimiter().Len())
}

func TestStatusMessageExpires(t *testing.T) {
	ctl, _ := newController(t, 4, 4)
	now := time.Unix(100, 0)
	ctl.now = func() time.Time { return now }
	ctl.HandleKey(press('p', 0))
	assert.Equal(t, "pencil soft", ctl.Status("idle"))
	now = now.Add(messageDuration)
	assert.Equal(t, "idle", ctl.Status("idle"))
}

func TestHandleCommandsForwardsEmitted(t *testing.T) {
	ctl, got := newController(t, 4, 4)
	n := ctl.HandleCommands("tool_choice_set/erase\nlayer_button_add\n")
	assert.Equal(t, 2, n)
	assert.Equal(t, tools.KindErase, ctl.Canvas.Tool())
	assert.Contains(t, *got, "layer_slider_range/0/1_set/1")
}

func TestInitialSize(t *testing.T) {
	img, err := layers.New(100, 2000, white, 0)
	require.NoError(t, err)
	sz := initialSize(canvas.New(img))
	assert.Equal(t, minWindow, sz.X)
	assert.Equal(t, maxWindowH+22, sz.Y)
}
