package main

import (
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/config"
	"github.com/example/shineypaint/internal/tools"
)

// strokeSeparator splits positional points into separate strokes.
const strokeSeparator = "/"

// drawCmd paints strokes onto an image without opening a window.
type drawCmd struct {
	src         source
	output      string
	toClipboard bool
	colorSpec   string
	radius      int
	hardness    float64
	falloff     string
	pencil      string
	tool        string
	newLayer    bool
	quality     int
	strokes     [][]image.Point
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	cfg := r.cfg()
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.src.file, "file", "", "input image file")
	fs.StringVar(&d.src.newSize, "new", "", "start from a blank WIDTHxHEIGHT image")
	fs.StringVar(&d.src.background, "background", "", "fill colour for -new (name or hex)")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.src.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.src.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", "#"+command.FormatColor(cfg.Brush.Color), "brush color name or hex value")
	fs.IntVar(&d.radius, "radius", cfg.Brush.Radius, "brush radius in pixels")
	fs.Float64Var(&d.hardness, "hardness", cfg.Brush.Hardness, "soft brush hardness between 0 and 1")
	fs.StringVar(&d.falloff, "falloff", cfg.Brush.Falloff.String(), "soft brush falloff (linear, quadratic, exponential)")
	fs.StringVar(&d.pencil, "pencil", cfg.Brush.Pencil.String(), "pencil type (hard, soft)")
	fs.StringVar(&d.tool, "tool", tools.KindDraw.String(), "tool to stroke with (draw, erase)")
	fs.BoolVar(&d.newLayer, "new-layer", false, "paint on a new layer above the selected one")
	fs.IntVar(&d.quality, "quality", 90, "JPEG quality between 1 and 100")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	if d.strokes, err = splitStrokes(positionals); err != nil {
		return nil, err
	}
	if d.src.fromClipboard {
		if d.output == "" {
			if d.src.file != "" {
				d.output = d.src.file
			} else {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
		}
	} else {
		if d.src.file == "" && d.src.newSize == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" {
			if d.src.file == "" {
				return nil, fmt.Errorf("output file is required with -new")
			}
			d.output = defaultOutput(d.src.file, cfg)
		}
	}
	if d.quality < 1 || d.quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100")
	}
	if d.radius < 1 || d.radius > config.MaxRadius {
		return nil, fmt.Errorf("radius must be between 1 and %d", config.MaxRadius)
	}
	return d, nil
}

func splitStrokes(positionals []string) ([][]image.Point, error) {
	var strokes [][]image.Point
	var cur []string
	flush := func() error {
		if len(cur) == 0 {
			return nil
		}
		pts, err := parsePoints(cur)
		if err != nil {
			return err
		}
		strokes = append(strokes, pts)
		cur = nil
		return nil
	}
	for _, p := range positionals {
		if p == strokeSeparator {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		cur = append(cur, p)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(strokes) == 0 {
		return nil, fmt.Errorf("at least one point is required")
	}
	return strokes, nil
}

// options turns the brush flags into canvas options.
func (d *drawCmd) options() ([]canvas.Option, error) {
	col, err := config.ParseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	f, err := brush.ParseFalloff(d.falloff)
	if err != nil {
		return nil, err
	}
	p, err := tools.ParsePencilType(d.pencil)
	if err != nil {
		return nil, err
	}
	k, err := tools.ParseKind(d.tool)
	if err != nil {
		return nil, err
	}
	if k != tools.KindDraw && k != tools.KindErase {
		return nil, fmt.Errorf("tool %s cannot stroke", k)
	}
	if d.hardness < 0 || d.hardness > 1 {
		return nil, fmt.Errorf("hardness must be between 0 and 1")
	}
	return []canvas.Option{
		canvas.WithColor(col),
		canvas.WithRadius(d.radius),
		canvas.WithHardness(d.hardness),
		canvas.WithFalloff(f),
		canvas.WithPencilType(p),
		canvas.WithTool(k),
		canvas.WithZoom(1),
	}, nil
}

func (d *drawCmd) Run() error {
	opts, err := d.options()
	if err != nil {
		return err
	}
	img, err := d.src.load(d.cfg().MaxSize)
	if err != nil {
		return err
	}
	c := d.newCanvas(img, opts...)
	if d.newLayer {
		if err := c.AddLayer(); err != nil {
			return err
		}
	}
	for _, pts := range d.strokes {
		stroke(c, pts, 0)
	}
	if err := d.saveCanvas(c, d.output, d.quality); err != nil {
		return err
	}
	if d.toClipboard {
		detail := filepath.Base(d.output)
		if detail == "" {
			detail = "image"
		}
		return d.copyCanvas(c, detail)
	}
	return nil
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"new":            {},
	"background":     {},
	"output":         {},
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"color":          {},
	"radius":         {},
	"hardness":       {},
	"falloff":        {},
	"pencil":         {},
	"tool":           {},
	"new-layer":      {},
	"quality":        {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"new-layer":      {},
}

// splitDrawArgs separates known flags from positionals so negative
// coordinates are not mistaken for flags.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
