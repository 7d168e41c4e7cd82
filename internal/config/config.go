package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/theme"
	"github.com/example/shineypaint/internal/tools"
)

// MaxRadius is the largest brush radius accepted from configuration.
const MaxRadius = brush.MaxRadius

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Brush holds the initial brush settings.
type Brush struct {
	Radius   int
	Hardness float64
	Falloff  brush.Falloff
	Pencil   tools.PencilType
	Color    color.NRGBA
}

// View holds the initial viewport settings.
type View struct {
	Zoom     float64
	PanSpeed float64
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	History int // undo capacity, 0 disables undo
	MaxSize int // largest accepted image side
	Brush   Brush
	View    View
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:   "", // Default to empty to allow fallback to Env/Default
		History: canvas.DefaultHistory,
		MaxSize: layers.DefaultMaxSize,
		Brush: Brush{
			Radius:   canvas.DefaultRadius,
			Hardness: canvas.DefaultHardness,
			Falloff:  brush.FalloffLinear,
			Pencil:   tools.PencilHard,
			Color:    color.NRGBA{A: 255},
		},
		View: View{
			Zoom:     1,
			PanSpeed: canvas.DefaultPanSpeed,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// CanvasOptions turns the brush, view and history settings into canvas options.
func (c *Config) CanvasOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithHistory(c.History),
		canvas.WithRadius(c.Brush.Radius),
		canvas.WithHardness(c.Brush.Hardness),
		canvas.WithFalloff(c.Brush.Falloff),
		canvas.WithPencilType(c.Brush.Pencil),
		canvas.WithColor(c.Brush.Color),
		canvas.WithZoom(c.View.Zoom),
		canvas.WithPanSpeed(c.View.PanSpeed),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "history = %d\n", c.History)
	fmt.Fprintf(&sb, "max_size = %d\n", c.MaxSize)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "radius = %d\n", c.Brush.Radius)
	fmt.Fprintf(&sb, "hardness = %v\n", c.Brush.Hardness)
	fmt.Fprintf(&sb, "falloff = %s\n", c.Brush.Falloff)
	fmt.Fprintf(&sb, "pencil = %s\n", c.Brush.Pencil)
	fmt.Fprintf(&sb, "color = #%s\n", command.FormatColor(c.Brush.Color))
	sb.WriteString("\n")

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "zoom = %v\n", c.View.Zoom)
	fmt.Fprintf(&sb, "pan_speed = %v\n", c.View.PanSpeed)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].String())
		sb.WriteString("\n")
	}

	return sb.String()
}
