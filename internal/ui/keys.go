package ui

import (
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shineypaint/internal/canvas"
)

// KeyShortcut is a key combination bound to a named action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

func ctrl(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl} }

func plain(r rune) KeyShortcut { return KeyShortcut{Rune: r} }

func code(c key.Code) KeyShortcut { return KeyShortcut{Code: c} }

// shortcutFor normalises a key event into the form stored in the action
// table. Letters are folded to lower case and the code is dropped when a
// rune is present, so layouts that report different codes still match.
func shortcutFor(e key.Event) KeyShortcut {
	r := unicode.ToLower(e.Rune)
	if r > 0 {
		return KeyShortcut{Rune: r, Modifiers: e.Modifiers &^ key.ModAlt}
	}
	return KeyShortcut{Code: e.Code, Modifiers: e.Modifiers &^ key.ModAlt}
}

// navKey maps the arrow keys to the canvas pan keys.
func navKey(c key.Code) canvas.Key {
	switch c {
	case key.CodeLeftArrow:
		return canvas.KeyLeft
	case key.CodeRightArrow:
		return canvas.KeyRight
	case key.CodeUpArrow:
		return canvas.KeyUp
	case key.CodeDownArrow:
		return canvas.KeyDown
	}
	return canvas.KeyNone
}

func keyMods(m key.Modifiers) canvas.Modifiers {
	var out canvas.Modifiers
	if m&key.ModShift != 0 {
		out |= canvas.ModShift
	}
	if m&key.ModControl != 0 {
		out |= canvas.ModCtrl
	}
	return out
}

// wheelNotches converts a wheel button into zoom notches. Other buttons
// yield zero.
func wheelNotches(b mouse.Button) int {
	switch b {
	case mouse.ButtonWheelUp:
		return 1
	case mouse.ButtonWheelDown:
		return -1
	}
	return 0
}
