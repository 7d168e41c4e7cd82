package command

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringAndParse(t *testing.T) {
	c := New(OptLayer, InputSlider, Arg{Sub: SubRange, Value: "0/3"}, Arg{Sub: SubSet, Value: "2"})
	assert.Equal(t, "layer_slider_range/0/3_set/2", c.String())

	got, err := Parse(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, got)

	v, ok := got.Value(SubRange)
	assert.True(t, ok)
	assert.Equal(t, "0/3", v)
}

func TestValueLessArgs(t *testing.T) {
	c := New("tool-draw", InputButton, Arg{Sub: SubActivate})
	assert.Equal(t, "tool-draw_button_activate", c.String())
	got, err := Parse("tool-draw_button_activate")
	require.NoError(t, err)
	assert.True(t, got.Has(SubActivate))
	assert.False(t, got.Has(SubDeactivate))
}

func TestParseMalformed(t *testing.T) {
	for _, tok := range []string{"", "color", "_slider_set/1", "color__set/1", "color_text_/x", "co/lor_text_set/1"} {
		_, err := Parse(tok)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}

func TestParseBatchSkipsBadLines(t *testing.T) {
	cmds, errs := ParseBatch("radius_slider_set/4\n\nbogus\nhistory_button_undo\n")
	require.Len(t, cmds, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, OptRadius, cmds[0].Option)
	assert.Equal(t, OptHistory, cmds[1].Option)
	assert.Equal(t, "radius_slider_set/4\nhistory_button_undo", Join(cmds))
}

func TestColorRoundTrip(t *testing.T) {
	assert.Equal(t, "FF8000", FormatColor(color.NRGBA{R: 255, G: 128, A: 255}))
	assert.Equal(t, "01020304", FormatColor(color.NRGBA{R: 1, G: 2, B: 3, A: 4}))
	assert.Equal(t, "010203", FormatRGB(color.NRGBA{R: 1, G: 2, B: 3, A: 4}))

	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 128, A: 255}, c)

	c, err = ParseColor("01020304")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, c)

	_, err = ParseColor("red")
	assert.Error(t, err)
}
