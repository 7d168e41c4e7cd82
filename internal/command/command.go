// Package command encodes the tokens exchanged between the editing core and
// the widgets that mirror its state.
//
// A token has the form
//
//	<optionId>_<inputKind>_<sub>/<value>_<sub>/<value>...
//
// and a batch is a newline separated list of tokens. Neither the option id
// nor any value may contain an underscore.
package command

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrMalformed marks a token that does not follow the grammar.
var ErrMalformed = errors.New("malformed command")

// Input kinds.
const (
	InputButton   = "button"
	InputSlider   = "slider"
	InputText     = "text"
	InputCheckbox = "checkbox"
	InputChoice   = "choice"
)

// Option ids understood by the canvas.
const (
	OptColor        = "color"
	OptRadius       = "radius"
	OptHardness     = "hardness"
	OptFalloff      = "falloff"
	OptPencil       = "pencil"
	OptTool         = "tool"
	OptLayer        = "layer"
	OptLayerVisible = "layervisible"
	OptLayerAlpha   = "layeralpha"
	OptHistory      = "history"
	OptZoom         = "zoom"
	OptLoopBack     = "loopback"
)

// Sub-command names.
const (
	SubSet        = "set"
	SubRange      = "range"
	SubActivate   = "activate"
	SubDeactivate = "deactivate"
	SubAdd        = "add"
	SubDelete     = "delete"
	SubUndo       = "undo"
	SubRedo       = "redo"
)

// Arg is one sub-command with its optional value.
type Arg struct {
	Sub   string
	Value string
}

// Command is a parsed token.
type Command struct {
	Option string
	Input  string
	Args   []Arg
}

// New builds a command from its parts.
func New(option, input string, args ...Arg) Command {
	return Command{Option: option, Input: input, Args: args}
}

// Set builds the common single "set/<value>" command.
func Set(option, input, value string) Command {
	return New(option, input, Arg{Sub: SubSet, Value: value})
}

// String renders the token.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Option)
	sb.WriteByte('_')
	sb.WriteString(c.Input)
	for _, a := range c.Args {
		sb.WriteByte('_')
		sb.WriteString(a.Sub)
		if a.Value != "" {
			sb.WriteByte('/')
			sb.WriteString(a.Value)
		}
	}
	return sb.String()
}

// Value returns the value of the first argument named sub.
func (c Command) Value(sub string) (string, bool) {
	for _, a := range c.Args {
		if a.Sub == sub {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether an argument named sub is present.
func (c Command) Has(sub string) bool {
	_, ok := c.Value(sub)
	return ok
}

// Parse decodes one token.
func Parse(token string) (Command, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, "_")
	if len(parts) < 2 {
		return Command{}, fmt.Errorf("%w: %q needs at least an option and an input kind", ErrMalformed, token)
	}
	c := Command{Option: parts[0], Input: parts[1]}
	if c.Option == "" || c.Input == "" || strings.Contains(c.Option, "/") || strings.Contains(c.Input, "/") {
		return Command{}, fmt.Errorf("%w: %q has an empty or invalid header", ErrMalformed, token)
	}
	for _, p := range parts[2:] {
		sub, value, _ := strings.Cut(p, "/")
		if sub == "" {
			return Command{}, fmt.Errorf("%w: %q has an empty sub-command", ErrMalformed, token)
		}
		c.Args = append(c.Args, Arg{Sub: sub, Value: value})
	}
	return c, nil
}

// ParseBatch decodes newline separated tokens. Blank lines are ignored.
// Tokens that fail to parse are reported in errs and left out of cmds.
func ParseBatch(text string) (cmds []Command, errs []error) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cmds = append(cmds, c)
	}
	return cmds, errs
}

// Join renders cmds as a newline separated batch.
func Join(cmds []Command) string {
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// FormatColor renders c as RRGGBB, or RRGGBBAA when it is not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// FormatRGB renders the colour channels of c as RRGGBB, dropping alpha.
func FormatRGB(c color.NRGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor reads the format written by FormatColor. A leading # is allowed.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Bool renders b as the checkbox values 1 and 0.
func Bool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseBool accepts 1/0 and the spellings strconv.ParseBool knows.
func ParseBool(s string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}
