package canvas

import (
	"fmt"
	"image"
	"strconv"

	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/surface"
)

// AddLayer inserts a transparent layer above the selected one and records
// it for undo.
func (c *Canvas) AddLayer() error {
	if c.state == StateStroking {
		return ErrStrokeInProgress
	}
	idx := c.img.AddLayer()
	c.log.RecordLayerCreation(idx, c.img.Current(), c.img.LayerID(idx))
	c.syncLayerControls()
	return nil
}

// PasteLayer inserts src, anchored at the image origin and clipped to the
// image, as a new layer above the selected one.
func (c *Canvas) PasteLayer(src image.Image) error {
	if c.state == StateStroking {
		return ErrStrokeInProgress
	}
	b := c.img.Bounds()
	s := surface.New(b.Dx(), b.Dy())
	s.Paste(surface.FromImage(src), image.Point{})
	if err := c.img.InsertLayer(c.img.Layer()+1, s, "", true); err != nil {
		return fmt.Errorf("paste layer: %w", err)
	}
	idx := c.img.Layer()
	c.log.RecordLayerCreation(idx, s, c.img.LayerID(idx))
	c.syncLayerControls()
	return nil
}

// DeleteLayer removes the selected layer and records it for undo. The last
// remaining layer is kept and false is returned.
func (c *Canvas) DeleteLayer() (bool, error) {
	if c.state == StateStroking {
		return false, ErrStrokeInProgress
	}
	idx := c.img.Layer()
	s, id, visible := c.img.Current(), c.img.LayerID(idx), c.img.Visible()
	if !c.img.DeleteCurrentLayer() {
		return false, nil
	}
	c.log.RecordLayerDestruction(idx, s, id, visible)
	c.syncLayerControls()
	return true, nil
}

// SetLayer selects layer n, clamped to the stack.
func (c *Canvas) SetLayer(n int) error {
	if c.state == StateStroking {
		return ErrStrokeInProgress
	}
	c.img.SetLayer(n)
	c.syncLayerControls()
	return nil
}

// SetLayerVisibility shows or hides the selected layer.
func (c *Canvas) SetLayerVisibility(visible bool) {
	c.img.SetVisibility(visible)
}

// SetLayerAlpha sets the selected layer's opacity.
func (c *Canvas) SetLayerAlpha(a uint8) {
	c.img.SetAlpha(a)
}

// syncLayerControls tells the front end about the layer count, the
// selection and the selected layer's settings.
func (c *Canvas) syncLayerControls() {
	c.emit(command.New(command.OptLayer, command.InputSlider,
		command.Arg{Sub: command.SubRange, Value: "0/" + strconv.Itoa(c.img.LayerCount()-1)},
		command.Arg{Sub: command.SubSet, Value: strconv.Itoa(c.img.Layer())},
	))
	c.emit(command.Set(command.OptLayerVisible, command.InputCheckbox, command.Bool(c.img.Visible())))
	c.emit(command.Set(command.OptLayerAlpha, command.InputSlider, strconv.Itoa(int(c.img.Alpha()))))
}
