package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/tools"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/paintings
history = 12

[brush]
radius = 9
hardness = 0.25
falloff = quadratic
pencil = soft
color = cornflowerblue

[view]
zoom = 2.5
pan_speed = 300

[notify]
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/paintings" {
		t.Errorf("Expected save_dir '/tmp/paintings', got '%s'", cfg.SaveDir)
	}
	if cfg.History != 12 {
		t.Errorf("Expected history 12, got %d", cfg.History)
	}
	if cfg.MaxSize != layers.DefaultMaxSize {
		t.Errorf("Expected default max_size, got %d", cfg.MaxSize)
	}

	want := Brush{
		Radius:   9,
		Hardness: 0.25,
		Falloff:  brush.FalloffQuadratic,
		Pencil:   tools.PencilSoft,
		Color:    color.NRGBA{R: 100, G: 149, B: 237, A: 255},
	}
	if cfg.Brush != want {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, want)
	}
	if cfg.View.Zoom != 2.5 || cfg.View.PanSpeed != 300 {
		t.Errorf("Unexpected view: %+v", cfg.View)
	}

	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"[brush]\nradius = 0":        "valid range 1..512",
		"[brush]\nhardness = 1.5":    "valid range 0..1",
		"history = -1":               "valid range 0..",
		"[view]\nzoom = 500":         "valid range 0.01..100",
		"[brush]\nfalloff = cubic":   "unknown falloff",
		"[brush]\ncolor = notacolor": "key color",
		"[notify]\nsave = maybe":     "invalid boolean",
	}
	for input, want := range cases {
		_, err := Parse(strings.NewReader(input))
		if err == nil {
			t.Errorf("%q: expected error", input)
			continue
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%q: error %q does not mention %q", input, err, want)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/art
max_size = 4096

[brush]
radius = 3
color = #11223380

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.MaxSize != cfg2.MaxSize || cfg.History != cfg2.History {
		t.Errorf("Limits mismatch: %d/%d vs %d/%d", cfg.MaxSize, cfg.History, cfg2.MaxSize, cfg2.History)
	}
	if cfg.Brush != cfg2.Brush {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if cfg.View != cfg2.View {
		t.Errorf("View mismatch: %+v vs %+v", cfg.View, cfg2.View)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.Background != t2.Background {
		t.Errorf("Theme background mismatch: %v vs %v", t1.Background, t2.Background)
	}
}

func TestCanvasOptions(t *testing.T) {
	cfg := New()
	cfg.History = 0
	cfg.Brush.Radius = 7
	cfg.Brush.Color = color.NRGBA{R: 9, A: 255}
	img, err := layers.New(8, 8, color.NRGBA{A: 255}, 0)
	if err != nil {
		t.Fatal(err)
	}
	c := canvas.New(img, cfg.CanvasOptions()...)
	if c.Radius() != 7 {
		t.Errorf("radius = %d, want 7", c.Radius())
	}
	if c.Color() != cfg.Brush.Color {
		t.Errorf("color = %v, want %v", c.Color(), cfg.Brush.Color)
	}
	if c.History().Capacity() != 0 {
		t.Errorf("history capacity = %d, want 0", c.History().Capacity())
	}
}

func TestLoaderSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.rc")
	l := NewLoader("v1.0.0", path)
	cfg := New()
	cfg.Brush.Radius = 11
	written, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != path {
		t.Errorf("Save wrote %s, want %s", written, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Brush.Radius != 11 {
		t.Errorf("radius = %d, want 11", got.Brush.Radius)
	}
}

func TestLoaderDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader("v1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.History != canvas.DefaultHistory {
		t.Errorf("history = %d, want default", cfg.History)
	}
}
