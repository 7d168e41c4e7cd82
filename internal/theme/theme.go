package theme

import (
	"fmt"
	"image/color"
	"reflect"
	"strings"
)

// Theme defines the color palette for the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the image
	Foreground color.RGBA // Main text color

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	ImageBorder  color.RGBA

	// Overlays
	BrushOutline      color.RGBA
	DelimiterLine     color.RGBA
	DelimiterVertex   color.RGBA
	DelimiterSelected color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{200, 200, 200, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		StatusBackground:  color.RGBA{220, 220, 220, 255},
		StatusText:        color.RGBA{0, 0, 0, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		ImageBorder:       color.RGBA{96, 96, 96, 255},
		BrushOutline:      color.RGBA{0, 0, 0, 200},
		DelimiterLine:     color.RGBA{255, 0, 255, 255},
		DelimiterVertex:   color.RGBA{0, 0, 0, 255},
		DelimiterSelected: color.RGBA{255, 160, 0, 255},
	}
}

// Set assigns the colour field named key, case-insensitively. Unknown keys
// are ignored for forward compatibility.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != reflect.TypeOf(color.RGBA{}) {
			continue
		}
		col, err := parseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// String renders the theme in the same Key: value format Parse reads.
func (t *Theme) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", t.Name)
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		c, ok := val.Field(i).Interface().(color.RGBA)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", typ.Field(i).Name, toHex(c))
	}
	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
