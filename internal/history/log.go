// Package history records undoable edits in a fixed-size ring.
//
// Entries hold only the pixels an edit touched. Recording a new entry drops
// everything that could still be redone, and a full ring evicts its oldest
// entry. A Log is not safe for concurrent use.
package history

import (
	"image"

	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/surface"
)

// Kind tags an entry.
type Kind int

const (
	// KindStroke restores a rectangle of one layer.
	KindStroke Kind = iota
	// KindLayerCreation removes the layer on undo and re-adds it on redo.
	KindLayerCreation
	// KindLayerDestruction re-adds the layer on undo and removes it on redo.
	KindLayerDestruction
)

func (k Kind) String() string {
	switch k {
	case KindStroke:
		return "stroke"
	case KindLayerCreation:
		return "layer-creation"
	case KindLayerDestruction:
		return "layer-destruction"
	default:
		return "unknown"
	}
}

// Entry is one recorded edit. Before is nil for layer creations and After
// is nil for layer destructions.
type Entry struct {
	Kind    Kind
	Layer   int
	Rect    image.Rectangle
	Before  *surface.Surface
	After   *surface.Surface
	LayerID string
	Visible bool
}

// Target is what undo and redo act on.
type Target interface {
	Restore(layer int, at image.Point, snap *surface.Surface) image.Rectangle
	InsertLayer(idx int, s *surface.Surface, id string, visible bool) error
	RemoveLayer(idx int) bool
}

// Log is the ring of entries. Logical index 0 is the oldest live entry;
// current is the last applied one and -1 means nothing is left to undo.
// Always -1 <= current <= Len()-1 < Capacity().
type Log struct {
	entries []Entry
	head    int
	count   int
	current int
}

// New returns a log holding up to capacity entries. Zero disables undo.
func New(capacity int) *Log {
	return &Log{entries: make([]Entry, max(capacity, 0)), current: -1}
}

// Capacity returns the maximum number of entries.
func (l *Log) Capacity() int { return len(l.entries) }

// Len returns the number of live entries, undoable or redoable.
func (l *Log) Len() int { return l.count }

// Current returns the logical index of the last applied entry.
func (l *Log) Current() int { return l.current }

// CanUndo reports whether an applied entry remains.
func (l *Log) CanUndo() bool { return l.current >= 0 }

// CanRedo reports whether an undone entry can be reapplied.
func (l *Log) CanRedo() bool { return l.current < l.count-1 }

// Entry returns a copy of the entry at logical index i.
func (l *Log) Entry(i int) (Entry, bool) {
	if i < 0 || i >= l.count {
		return Entry{}, false
	}
	return *l.at(i), true
}

// Clear drops every entry.
func (l *Log) Clear() {
	clear(l.entries)
	l.head, l.count, l.current = 0, 0, -1
}

// RecordStroke stores rect of before and after, the full pre-edit copy and
// the edited surface of layer. An empty rect records nothing.
func (l *Log) RecordStroke(before *surface.Surface, rect image.Rectangle, after *surface.Surface, layer int) {
	rect = rect.Intersect(before.Bounds()).Intersect(after.Bounds())
	if rect.Empty() {
		return
	}
	l.push(Entry{
		Kind:   KindStroke,
		Layer:  layer,
		Rect:   rect,
		Before: before.Extract(rect),
		After:  after.Extract(rect),
	})
}

// RecordLayerCreation stores the layer created at idx with its content.
func (l *Log) RecordLayerCreation(idx int, s *surface.Surface, id string) {
	l.push(Entry{Kind: KindLayerCreation, Layer: idx, Rect: s.Bounds(), After: s.Clone(), LayerID: id, Visible: true})
}

// RecordLayerDestruction stores the layer about to be removed from idx.
func (l *Log) RecordLayerDestruction(idx int, s *surface.Surface, id string, visible bool) {
	l.push(Entry{Kind: KindLayerDestruction, Layer: idx, Rect: s.Bounds(), Before: s.Clone(), LayerID: id, Visible: visible})
}

// Undo reverts the current entry on t. It returns false when there is
// nothing to undo or t refused the change.
func (l *Log) Undo(t Target) bool {
	if !l.CanUndo() {
		return false
	}
	e := l.at(l.current)
	ok := true
	switch e.Kind {
	case KindStroke:
		t.Restore(e.Layer, e.Rect.Min, e.Before)
	case KindLayerCreation:
		ok = t.RemoveLayer(e.Layer)
	case KindLayerDestruction:
		ok = t.InsertLayer(e.Layer, e.Before.Clone(), e.LayerID, e.Visible) == nil
	}
	if !ok {
		logging.Logger().Warn("undo refused by target", "kind", e.Kind, "layer", e.Layer)
		return false
	}
	l.current--
	logging.Logger().Debug("undo", "kind", e.Kind, "layer", e.Layer, "current", l.current)
	return true
}

// Redo reapplies the next undone entry on t.
func (l *Log) Redo(t Target) bool {
	if !l.CanRedo() {
		return false
	}
	e := l.at(l.current + 1)
	ok := true
	switch e.Kind {
	case KindStroke:
		t.Restore(e.Layer, e.Rect.Min, e.After)
	case KindLayerCreation:
		ok = t.InsertLayer(e.Layer, e.After.Clone(), e.LayerID, e.Visible) == nil
	case KindLayerDestruction:
		ok = t.RemoveLayer(e.Layer)
	}
	if !ok {
		logging.Logger().Warn("redo refused by target", "kind", e.Kind, "layer", e.Layer)
		return false
	}
	l.current++
	logging.Logger().Debug("redo", "kind", e.Kind, "layer", e.Layer, "current", l.current)
	return true
}

func (l *Log) push(e Entry) {
	n := len(l.entries)
	if n == 0 {
		return
	}
	for i := l.current + 1; i < l.count; i++ {
		*l.at(i) = Entry{}
	}
	l.count = l.current + 1
	if l.count == n {
		*l.at(0) = Entry{}
		l.head = (l.head + 1) % n
		l.count--
	}
	*l.at(l.count) = e
	l.count++
	l.current = l.count - 1
}

func (l *Log) at(i int) *Entry {
	return &l.entries[(l.head+i)%len(l.entries)]
}
