// Package layers implements the layered image the canvas edits.
//
// Every layer is a surface of the same size. Edits mark a single dirty
// rectangle and FlushDirty recomposites only that region into the display
// buffer. An Image is not safe for concurrent use.
package layers

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/google/uuid"

	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/surface"
)

// DefaultMaxSize bounds either side of an image when no limit is configured.
const DefaultMaxSize = 16384

var (
	// ErrTooLarge rejects images whose sides exceed the configured limit.
	ErrTooLarge = errors.New("image too large")
	// ErrInvalidSize rejects empty images.
	ErrInvalidSize = errors.New("invalid image size")
	// ErrSizeMismatch rejects layers whose size differs from the image.
	ErrSizeMismatch = errors.New("layer size mismatch")
)

// Layer is one surface in the stack.
type Layer struct {
	ID      string
	Visible bool
	Surface *surface.Surface
}

// Image is an ordered stack of layers, bottom first, with one selected.
type Image struct {
	layers   []*Layer
	selected int
	bounds   image.Rectangle
	dirty    image.Rectangle
	display  *surface.Surface
}

// CheckSize validates w×h against maxSize before anything is allocated.
// A maxSize of zero or less means DefaultMaxSize.
func CheckSize(w, h, maxSize int) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: %dx%d (each side must be in 1..%d)", ErrInvalidSize, w, h, maxSize)
	}
	if w > maxSize {
		return fmt.Errorf("%w: width %d (valid range 1..%d)", ErrTooLarge, w, maxSize)
	}
	if h > maxSize {
		return fmt.Errorf("%w: height %d (valid range 1..%d)", ErrTooLarge, h, maxSize)
	}
	return nil
}

// New creates a single-layer image filled with fill.
func New(w, h int, fill color.NRGBA, maxSize int) (*Image, error) {
	if err := CheckSize(w, h, maxSize); err != nil {
		return nil, err
	}
	base := surface.New(w, h)
	base.Fill(base.Bounds(), fill)
	return newImage(base), nil
}

// FromImage creates a single-layer image holding a copy of img.
func FromImage(img image.Image, maxSize int) (*Image, error) {
	b := img.Bounds()
	if err := CheckSize(b.Dx(), b.Dy(), maxSize); err != nil {
		return nil, err
	}
	return newImage(surface.FromImage(img)), nil
}

func newImage(base *surface.Surface) *Image {
	base.SetBlendMode(surface.BlendBlend)
	m := &Image{
		layers:  []*Layer{{ID: uuid.NewString(), Visible: true, Surface: base}},
		bounds:  base.Bounds(),
		display: surface.New(base.Width(), base.Height()),
	}
	m.MarkDirty(m.bounds)
	m.FlushDirty()
	return m
}

// Bounds returns the image rectangle, anchored at the origin.
func (m *Image) Bounds() image.Rectangle { return m.bounds }

// Width returns the image width.
func (m *Image) Width() int { return m.bounds.Dx() }

// Height returns the image height.
func (m *Image) Height() int { return m.bounds.Dy() }

// LayerCount returns the number of layers, always at least one.
func (m *Image) LayerCount() int { return len(m.layers) }

// Layer returns the selected layer index.
func (m *Image) Layer() int { return m.selected }

// SetLayer selects layer n, clamped into range.
func (m *Image) SetLayer(n int) {
	m.selected = clamp(n, 0, len(m.layers)-1)
}

// Current returns the selected layer's surface.
func (m *Image) Current() *surface.Surface { return m.layers[m.selected].Surface }

// LayerSurface returns layer i's surface, or nil when i is out of range.
func (m *Image) LayerSurface(i int) *surface.Surface {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	return m.layers[i].Surface
}

// LayerID returns layer i's stable id, or "" when i is out of range.
func (m *Image) LayerID(i int) string {
	if i < 0 || i >= len(m.layers) {
		return ""
	}
	return m.layers[i].ID
}

// LayerVisible reports whether layer i takes part in compositing.
func (m *Image) LayerVisible(i int) bool {
	if i < 0 || i >= len(m.layers) {
		return false
	}
	return m.layers[i].Visible
}

// AddLayer inserts a transparent layer directly above the selected one,
// selects it and returns its index.
func (m *Image) AddLayer() int {
	s := surface.New(m.Width(), m.Height())
	s.SetBlendMode(surface.BlendBlend)
	idx := m.selected + 1
	l := &Layer{ID: uuid.NewString(), Visible: true, Surface: s}
	m.insert(idx, l)
	logging.Logger().Info("layer added", "index", idx, "id", l.ID, "layers", len(m.layers))
	return idx
}

// InsertLayer puts s at idx (clamped) under the given id and selects it.
// An empty id gets a fresh one.
func (m *Image) InsertLayer(idx int, s *surface.Surface, id string, visible bool) error {
	if s.Bounds() != m.bounds {
		return fmt.Errorf("%w: got %dx%d, image is %dx%d", ErrSizeMismatch, s.Width(), s.Height(), m.Width(), m.Height())
	}
	if id == "" {
		id = uuid.NewString()
	}
	s.SetBlendMode(surface.BlendBlend)
	m.insert(clamp(idx, 0, len(m.layers)), &Layer{ID: id, Visible: visible, Surface: s})
	m.MarkDirty(m.bounds)
	return nil
}

func (m *Image) insert(idx int, l *Layer) {
	m.layers = append(m.layers, nil)
	copy(m.layers[idx+1:], m.layers[idx:])
	m.layers[idx] = l
	m.selected = idx
}

// RemoveLayer deletes layer idx. The last remaining layer cannot be removed.
// When the selected layer goes away the one below it is selected.
func (m *Image) RemoveLayer(idx int) bool {
	if len(m.layers) <= 1 || idx < 0 || idx >= len(m.layers) {
		return false
	}
	id := m.layers[idx].ID
	m.layers = append(m.layers[:idx], m.layers[idx+1:]...)
	if m.selected > idx || (m.selected == idx && idx > 0) {
		m.selected--
	}
	m.selected = clamp(m.selected, 0, len(m.layers)-1)
	m.MarkDirty(m.bounds)
	logging.Logger().Info("layer removed", "index", idx, "id", id, "layers", len(m.layers))
	return true
}

// DeleteCurrentLayer removes the selected layer unless it is the only one.
func (m *Image) DeleteCurrentLayer() bool {
	return m.RemoveLayer(m.selected)
}

// SetVisibility shows or hides the selected layer.
func (m *Image) SetVisibility(visible bool) {
	l := m.layers[m.selected]
	if l.Visible == visible {
		return
	}
	l.Visible = visible
	m.MarkDirty(m.bounds)
}

// Visible reports whether the selected layer is shown.
func (m *Image) Visible() bool { return m.layers[m.selected].Visible }

// SetAlpha sets the selected layer's opacity.
func (m *Image) SetAlpha(a uint8) {
	s := m.Current()
	if s.AlphaMod() == a {
		return
	}
	s.SetAlphaMod(a)
	m.MarkDirty(m.bounds)
}

// Alpha returns the selected layer's opacity.
func (m *Image) Alpha() uint8 { return m.Current().AlphaMod() }

// Restore overwrites part of layer idx with snap, placed at `at`.
func (m *Image) Restore(idx int, at image.Point, snap *surface.Surface) image.Rectangle {
	s := m.LayerSurface(idx)
	if s == nil || snap == nil {
		return image.Rectangle{}
	}
	r := s.Paste(snap, at)
	m.MarkDirty(r)
	return r
}
