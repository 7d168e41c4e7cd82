package main

import (
	"bufio"
	"flag"
	"fmt"
	"strings"

	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/ui"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type interactiveCLI struct {
	*interactiveCmd

	fs *flag.FlagSet

	execs  commandList
	src    source
	window bool
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCLI, error) {
	base := newInteractiveCmd(r)
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	cli := &interactiveCLI{interactiveCmd: base, fs: fs}
	fs.Usage = usageFunc(cli)
	fs.Var(&cli.execs, "e", "execute interactive command in immediate mode (may be specified multiple times)")
	fs.StringVar(&cli.src.file, "file", "", "image file to start with")
	fs.StringVar(&cli.src.newSize, "new", "", "start from a blank WIDTHxHEIGHT image")
	fs.StringVar(&cli.src.background, "background", "", "fill colour for -new (name or hex)")
	fs.BoolVar(&cli.window, "window", false, "open the editor window and send command lines to it")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cli.window {
		if len(cli.execs) > 0 {
			return nil, fmt.Errorf("-e cannot be combined with -window")
		}
		if cli.src.file == "" && cli.src.newSize == "" {
			return nil, fmt.Errorf("-window needs -file or -new")
		}
	}
	return cli, nil
}

func (c *interactiveCLI) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *interactiveCLI) Program() string {
	return c.r.Program()
}

func (c *interactiveCLI) Run() error {
	if c.src.file != "" || c.src.newSize != "" {
		verb, args := "open", []string{c.src.file}
		if c.src.file == "" {
			verb, args = "new", []string{c.src.newSize}
			if c.src.background != "" {
				args = append(args, c.src.background)
			}
		}
		if err := c.load(verb, args); err != nil {
			return err
		}
	}
	if c.window {
		return c.runWindow()
	}
	if len(c.execs) > 0 {
		for _, cmd := range c.execs {
			done, err := c.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	return c.interactiveCmd.Run()
}

// runWindow shows the canvas and forwards each input line to the window
// as command text. Emitted commands are printed as they arrive.
func (c *interactiveCLI) runWindow() error {
	cfg := c.r.cfg()
	app := ui.New(c.canvas, c.output,
		ui.WithTheme(c.r.theme()),
		ui.WithNotifier(c.r.notifier),
		ui.WithMaxSize(cfg.MaxSize),
		ui.WithCommandListener(func(cmds []command.Command) { printCommands(c.stdout, cmds) }),
	)
	go func() {
		scanner := bufio.NewScanner(c.stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return
			}
			if !app.Submit(line) {
				fmt.Fprintln(c.stderr, "window is not open")
			}
		}
	}()
	app.Run()
	return nil
}
