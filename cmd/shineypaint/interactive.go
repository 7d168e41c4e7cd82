package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/shineypaint/internal/canvas"
	"github.com/example/shineypaint/internal/clipboard"
	"github.com/example/shineypaint/internal/render"
)

var errNoImage = errors.New("no image; use new or open first")

const interactiveHelp = `verbs:
  new WxH [colour]        start a blank image
  open FILE               load an image
  save [FILE]             write the flattened image
  copy | paste            clipboard image out, or in as a new layer
  stroke X Y [X Y ...]    press, drag through the points and release
  down X Y [shift|ctrl]   press the pointer
  move X Y | up X Y       drag or release the pointer
  key NAME [shift]        press a key (left, right, up, down, zoomin, zoomout,
                          undo, redo, deletevertex, duplicatevertex, clearoutline)
  keyup NAME              release a key
  update SECONDS          advance time for held keys
  scroll N | fit          zoom by wheel notches, or fit the viewport
  status | history        describe the session
  exit
any line containing '_' is applied as a command, e.g. radius_slider_set/8
`

var sessionVerbs = map[string]struct{}{
	"save": {}, "copy": {}, "paste": {}, "stroke": {}, "down": {}, "move": {}, "up": {},
	"key": {}, "keyup": {}, "update": {}, "scroll": {}, "fit": {}, "status": {}, "history": {},
}

// interactiveCmd reads editing commands line by line and applies them to
// a headless canvas session.
type interactiveCmd struct {
	r      *root
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	canvas *canvas.Canvas
	output string
}

func newInteractiveCmd(r *root) *interactiveCmd {
	return &interactiveCmd{r: r, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

func (i *interactiveCmd) Run() error {
	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one line and reports whether the session should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	args := strings.Fields(line)
	verb, rest := strings.ToLower(args[0]), args[1:]
	switch verb {
	case "exit", "quit":
		return true, nil
	case "help":
		_, err := fmt.Fprint(i.stdout, interactiveHelp)
		return false, err
	case "new", "open":
		return false, i.load(verb, rest)
	}
	if _, ok := sessionVerbs[verb]; !ok && strings.Contains(line, "_") {
		return false, i.applyCommands(line)
	}
	if i.canvas == nil {
		return false, errNoImage
	}
	err := i.execute(verb, rest)
	printCommands(i.stdout, i.canvas.Commands())
	return false, err
}

func (i *interactiveCmd) load(verb string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s needs an argument", verb)
	}
	src := source{file: args[0]}
	if verb == "new" {
		src = source{newSize: args[0]}
		if len(args) > 1 {
			src.background = args[1]
		}
	}
	img, err := src.load(i.r.cfg().MaxSize)
	if err != nil {
		return err
	}
	i.canvas = i.r.newCanvas(img)
	i.output = defaultOutput(src.file, i.r.cfg())
	fmt.Fprintf(i.stdout, "%dx%d image ready\n", img.Width(), img.Height())
	return nil
}

func (i *interactiveCmd) applyCommands(text string) error {
	if i.canvas == nil {
		return errNoImage
	}
	n := i.canvas.HandleCommands(text)
	printCommands(i.stdout, i.canvas.Commands())
	if n == 0 {
		return fmt.Errorf("no command applied")
	}
	return nil
}

func (i *interactiveCmd) execute(verb string, args []string) error {
	c := i.canvas
	switch verb {
	case "save":
		path := i.output
		if len(args) > 0 {
			path = args[0]
		}
		return i.r.saveCanvas(c, path, 0)
	case "copy":
		return i.r.copyCanvas(c, "image")
	case "paste":
		img, err := clipboard.ReadImage(i.r.cfg().MaxSize)
		if err != nil {
			return fmt.Errorf("read clipboard image: %w", err)
		}
		return c.PasteLayer(img)
	case "stroke":
		pts, err := parsePoints(args)
		if err != nil {
			return err
		}
		stroke(c, pts, 0)
	case "down":
		if len(args) < 2 {
			return fmt.Errorf("down needs x y")
		}
		p, err := parsePoint(args[0], args[1])
		if err != nil {
			return err
		}
		mods, err := parseMods(args[2:])
		if err != nil {
			return err
		}
		c.PointerDown(p, mods)
	case "move", "up":
		if len(args) != 2 {
			return fmt.Errorf("%s needs x y", verb)
		}
		p, err := parsePoint(args[0], args[1])
		if err != nil {
			return err
		}
		if verb == "up" {
			c.PointerUp(p)
		} else {
			c.PointerMove(p)
		}
	case "key", "keyup":
		if len(args) < 1 {
			return fmt.Errorf("%s needs a key name", verb)
		}
		k, err := parseKey(args[0])
		if err != nil {
			return err
		}
		mods, err := parseMods(args[1:])
		if err != nil {
			return err
		}
		if verb == "keyup" {
			c.KeyUp(k, mods)
		} else {
			c.KeyDown(k, mods)
		}
	case "update":
		if len(args) != 1 {
			return fmt.Errorf("update needs seconds")
		}
		dt, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid seconds %q", args[0])
		}
		c.Update(dt)
	case "scroll":
		if len(args) != 1 {
			return fmt.Errorf("scroll needs a notch count")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid integer %q", args[0])
		}
		c.Scroll(n)
	case "fit":
		c.FitToViewport()
	case "status":
		c.Flush()
		fmt.Fprintln(i.stdout, render.Status(c))
	case "history":
		h := c.History()
		fmt.Fprintf(i.stdout, "%d of %d entries, undo %v, redo %v\n", h.Len(), h.Capacity(), h.CanUndo(), h.CanRedo())
	default:
		return fmt.Errorf("unknown command %q (try help)", verb)
	}
	return nil
}
