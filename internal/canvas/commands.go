package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/shineypaint/internal/brush"
	"github.com/example/shineypaint/internal/command"
	"github.com/example/shineypaint/internal/logging"
	"github.com/example/shineypaint/internal/tools"
)

func (c *Canvas) emit(cmd command.Command) { c.out = append(c.out, cmd) }

// Commands returns and clears the commands queued for the front end.
func (c *Canvas) Commands() []command.Command {
	out := c.out
	c.out = nil
	return out
}

// HandleCommands applies a newline separated batch from the front end.
// Malformed or rejected tokens are logged and skipped. It returns the
// number of commands applied.
func (c *Canvas) HandleCommands(text string) int {
	cmds, errs := command.ParseBatch(text)
	for _, err := range errs {
		logging.Logger().Warn("skipping command", "err", err)
	}
	n := 0
	for _, cmd := range cmds {
		if err := c.Apply(cmd); err != nil {
			logging.Logger().Warn("command rejected", "command", cmd.String(), "err", err)
			continue
		}
		n++
	}
	return n
}

// Apply executes a single command.
func (c *Canvas) Apply(cmd command.Command) error {
	if name, ok := strings.CutPrefix(cmd.Option, command.OptTool+"-"); ok {
		if !cmd.Has(command.SubActivate) {
			return nil
		}
		k, err := tools.ParseKind(name)
		if err != nil {
			return err
		}
		return c.SetTool(k)
	}
	switch cmd.Option {
	case command.OptColor:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		col, err := command.ParseColor(v)
		if err != nil {
			return err
		}
		c.SetColor(col)
	case command.OptRadius:
		v, err := setInt(cmd)
		if err != nil {
			return err
		}
		return c.SetRadius(v)
	case command.OptHardness:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("hardness: %w", err)
		}
		return c.SetHardness(h)
	case command.OptFalloff:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		f, err := brush.ParseFalloff(v)
		if err != nil {
			return err
		}
		c.SetFalloff(f)
	case command.OptPencil:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		t, err := tools.ParsePencilType(v)
		if err != nil {
			return err
		}
		c.SetPencilType(t)
	case command.OptTool:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		k, err := tools.ParseKind(v)
		if err != nil {
			return err
		}
		return c.SetTool(k)
	case command.OptLayer:
		switch {
		case cmd.Has(command.SubAdd):
			return c.AddLayer()
		case cmd.Has(command.SubDelete):
			_, err := c.DeleteLayer()
			return err
		}
		n, err := setInt(cmd)
		if err != nil {
			return err
		}
		return c.SetLayer(n)
	case command.OptLayerVisible:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		b, err := command.ParseBool(v)
		if err != nil {
			return err
		}
		c.SetLayerVisibility(b)
	case command.OptLayerAlpha:
		a, err := setInt(cmd)
		if err != nil {
			return err
		}
		if a < 0 || a > 255 {
			return fmt.Errorf("layer alpha %d out of range (valid range 0..255)", a)
		}
		c.SetLayerAlpha(uint8(a))
	case command.OptHistory:
		switch {
		case cmd.Has(command.SubUndo):
			c.Undo()
		case cmd.Has(command.SubRedo):
			c.Redo()
		default:
			return fmt.Errorf("%s: expected %s or %s", cmd.Option, command.SubUndo, command.SubRedo)
		}
	case command.OptZoom:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("zoom: %w", err)
		}
		c.SetZoom(z)
	case command.OptLoopBack:
		v, err := setValue(cmd)
		if err != nil {
			return err
		}
		b, err := command.ParseBool(v)
		if err != nil {
			return err
		}
		c.delimiter.LoopBack = b
	default:
		return fmt.Errorf("unknown option %q", cmd.Option)
	}
	return nil
}

func setValue(cmd command.Command) (string, error) {
	v, ok := cmd.Value(command.SubSet)
	if !ok {
		return "", fmt.Errorf("%s: missing %q argument", cmd.Option, command.SubSet)
	}
	return v, nil
}

func setInt(cmd command.Command) (int, error) {
	v, err := setValue(cmd)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmd.Option, err)
	}
	return n, nil
}
