package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/theme"
	"github.com/example/shineypaint/internal/tools"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case currentSection == "view":
			err = setViewField(&cfg.View, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "history":
		n, err := parseInt(key, value, 0, 1<<16)
		if err != nil {
			return err
		}
		cfg.History = n
	case "max_size":
		n, err := parseInt(key, value, 1, 1<<20)
		if err != nil {
			return err
		}
		cfg.MaxSize = n
	}
	return nil
}

func setBrushField(b *Brush, key, value string) error {
	switch strings.ToLower(key) {
	case "radius":
		n, err := parseInt(key, value, 1, MaxRadius)
		if err != nil {
			return err
		}
		b.Radius = n
	case "hardness":
		f, err := parseFloat(key, value, 0, 1)
		if err != nil {
			return err
		}
		b.Hardness = f
	case "falloff":
		f, err := brush.ParseFalloff(value)
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		b.Falloff = f
	case "pencil":
		p, err := tools.ParsePencilType(value)
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		b.Pencil = p
	case "color":
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		b.Color = c
	}
	return nil
}

func setViewField(v *View, key, value string) error {
	switch strings.ToLower(key) {
	case "zoom":
		f, err := parseFloat(key, value, canvas.MinZoom, canvas.MaxZoom)
		if err != nil {
			return err
		}
		v.Zoom = f
	case "pan_speed":
		f, err := parseFloat(key, value, 1, 100000)
		if err != nil {
			return err
		}
		v.PanSpeed = f
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// ParseColor accepts an X11/SVG colour name or a hex colour with an
// optional leading #.
func ParseColor(s string) (color.NRGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return command.ParseColor(s)
}

func parseInt(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("key %s: value %d out of range (valid range %d..%d)", key, n, lo, hi)
	}
	return n, nil
}

func parseFloat(key, value string, lo, hi float64) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("key %s: value %v out of range (valid range %v..%v)", key, f, lo, hi)
	}
	return f, nil
}
