package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/config"
	"github.com/example/shineypaint/internal/imageio"
	"github.com/example/shineypaint/internal/layers"
	"github.com/example/shineypaint/internal/render"
)

// replayCmd feeds a recorded input script to a canvas and writes the
// result, either the flattened image or a full window frame.
type replayCmd struct {
	*root
	fs     *flag.FlagSet
	input  string
	output string
	frame  bool
	stdout io.Writer
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.input, "input", "", "input script file (JSON)")
	fs.StringVar(&c.output, "output", "", "output image file")
	fs.BoolVar(&c.frame, "frame", false, "write the rendered window frame instead of the image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.input == "" || c.output == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// Script is a recorded editing session.
type Script struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Background string   `json:"background"`
	Image      string   `json:"image"`
	Viewport   [2]int   `json:"viewport"`
	Zoom       float64  `json:"zoom"`
	History    *int     `json:"history"`
	Commands   []string `json:"commands"`
	Events     []Event  `json:"events"`
}

// Event is one input step of a Script.
type Event struct {
	Type string   `json:"type"` // down, move, up, key, keyup, scroll, update, command
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Mods []string `json:"mods"`
	Key  string   `json:"key"`
	N    int      `json:"n"`
	DT   float64  `json:"dt"`
	Line string   `json:"line"`
}

func (c *replayCmd) Run() error {
	f, err := os.Open(c.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var s Script
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	cv, err := c.build(s)
	if err != nil {
		return err
	}
	for i, e := range s.Events {
		if err := apply(cv, e); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		printCommands(c.stdout, cv.Commands())
	}
	cv.Flush()

	var out image.Image = cv.Image().Flatten()
	if c.frame {
		vp := cv.Viewport()
		frame := image.NewRGBA(image.Rect(0, 0, vp.X, vp.Y+render.StatusHeight))
		render.New(c.theme()).Draw(context.Background(), frame, cv, render.Status(cv))
		out = frame
	}
	if err := (imageio.Codec{}).Encode(c.output, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (c *replayCmd) build(s Script) (*canvas.Canvas, error) {
	maxSize := c.cfg().MaxSize
	var img *layers.Image
	var err error
	if s.Image != "" {
		img, err = imageio.Load(s.Image, maxSize)
	} else {
		var bg color.NRGBA
		if bg, err = background(s.Background); err != nil {
			return nil, err
		}
		img, err = layers.New(s.Width, s.Height, bg, maxSize)
	}
	if err != nil {
		return nil, err
	}
	var opts []canvas.Option
	if s.History != nil {
		opts = append(opts, canvas.WithHistory(*s.History))
	}
	if s.Zoom > 0 {
		opts = append(opts, canvas.WithZoom(s.Zoom))
	}
	if s.Viewport[0] > 0 && s.Viewport[1] > 0 {
		opts = append(opts, canvas.WithViewport(s.Viewport[0], s.Viewport[1]))
	}
	cv := c.newCanvas(img, opts...)
	for _, line := range s.Commands {
		cv.HandleCommands(line)
	}
	cv.Commands()
	return cv, nil
}

func background(name string) (color.NRGBA, error) {
	if name == "" {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	}
	return config.ParseColor(name)
}

func apply(c *canvas.Canvas, e Event) error {
	p := image.Pt(e.X, e.Y)
	typ := strings.ToLower(e.Type)
	switch typ {
	case "down":
		mods, err := parseMods(e.Mods)
		if err != nil {
			return err
		}
		c.PointerDown(p, mods)
	case "move":
		c.PointerMove(p)
	case "up":
		c.PointerUp(p)
	case "key", "keyup":
		k, err := parseKey(e.Key)
		if err != nil {
			return err
		}
		mods, err := parseMods(e.Mods)
		if err != nil {
			return err
		}
		if typ == "keyup" {
			c.KeyUp(k, mods)
		} else {
			c.KeyDown(k, mods)
		}
	case "scroll":
		c.Scroll(e.N)
	case "update":
		c.Update(e.DT)
	case "command":
		c.HandleCommands(e.Line)
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}
