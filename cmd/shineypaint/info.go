package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/shineypaint/internal/imageio"
	"github.com/example/shineypaint/internal/layers"
)

// infoCmd reports image dimensions without decoding pixels.
type infoCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func (c *infoCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseInfoCmd(args []string, r *root) (*infoCmd, error) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	c := &infoCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *infoCmd) Run() error {
	var errs []error
	for _, path := range c.fs.Args() {
		if err := c.describe(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *infoCmd) describe(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	size, format, err := imageio.ProbeSize(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	note := ""
	if err := layers.CheckSize(size.X, size.Y, c.cfg().MaxSize); err != nil {
		note = " (too large to edit)"
	}
	_, err = fmt.Fprintf(c.stdout, "%s: %dx%d %s%s\n", path, size.X, size.Y, format, note)
	return err
}
