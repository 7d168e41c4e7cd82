package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/shineypaint/internal/ui"
)

// editCmd opens an image in the editor window.
type editCmd struct {
	src    source
	output string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.src.file, "file", "", "image file to edit")
	fs.StringVar(&e.src.newSize, "new", "", "start from a blank WIDTHxHEIGHT image")
	fs.StringVar(&e.src.background, "background", "", "fill colour for -new (name or hex)")
	fs.BoolVar(&e.src.fromClipboard, "from-clipboard", false, "start from the clipboard image")
	fs.StringVar(&e.output, "output", "", "file written by ctrl+S (defaults to the input file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.src.file == "" && fs.NArg() > 0 {
		e.src.file = fs.Arg(0)
	}
	sources := 0
	for _, set := range []bool{e.src.file != "", e.src.newSize != "", e.src.fromClipboard} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return nil, &UsageError{of: e}
	}
	if sources > 1 {
		return nil, fmt.Errorf("choose one of a file, -new or -from-clipboard")
	}
	if e.output == "" {
		e.output = defaultOutput(e.src.file, e.cfg())
	}
	return e, nil
}

func (e *editCmd) Run() error {
	cfg := e.cfg()
	img, err := e.src.load(cfg.MaxSize)
	if err != nil {
		return err
	}
	c := e.newCanvas(img)
	app := ui.New(c, e.output,
		ui.WithTheme(e.theme()),
		ui.WithNotifier(e.notifier),
		ui.WithMaxSize(cfg.MaxSize),
		ui.WithTitle(fmt.Sprintf("%s - %s", filepath.Base(e.output), e.Program())),
	)
	app.Run()
	return nil
}
