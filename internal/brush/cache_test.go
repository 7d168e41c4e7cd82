package brush

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refreshed(t *testing.T, radius int, p Profile) *Cache {
	t.Helper()
	c := NewCache()
	c.SetRadius(radius)
	c.SetProfile(p)
	require.NoError(t, c.Refresh())
	return c
}

func TestRefreshWithoutFalloff(t *testing.T) {
	c := NewCache()
	c.SetRadius(4)
	assert.ErrorIs(t, c.Refresh(), ErrNoAlphaFunc)
	assert.Nil(t, c.Stamp())
}

func TestRadiusOneIsSinglePixel(t *testing.T) {
	c := refreshed(t, 1, Profile{Hard: true})
	assert.Equal(t, 1, c.Span())
	assert.Equal(t, []DrawPoint{{Pos: image.Pt(0, 0), Alpha: 255}}, c.Points())

	c.SetRadius(0)
	assert.Equal(t, 1, c.Radius())
}

func TestStampIsSymmetric(t *testing.T) {
	profiles := []Profile{
		{Hard: true},
		{Kind: FalloffLinear, Hardness: 0.3},
		{Kind: FalloffQuadratic, Hardness: 0.5},
		{Kind: FalloffExponential, Hardness: 0},
	}
	for _, p := range profiles {
		for r := 1; r <= 24; r++ {
			c := refreshed(t, r, p)
			stamp := c.Stamp()
			n := c.Span()
			require.Equal(t, n, stamp.Width())
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					a, _ := stamp.At(x, y)
					b, _ := stamp.At(y, x)
					m, _ := stamp.At(n-1-x, y)
					v, _ := stamp.At(x, n-1-y)
					require.Equal(t, a.A, b.A, "transpose %s r=%d (%d,%d)", p.ID(), r, x, y)
					require.Equal(t, a.A, m.A, "mirror x %s r=%d (%d,%d)", p.ID(), r, x, y)
					require.Equal(t, a.A, v.A, "mirror y %s r=%d (%d,%d)", p.ID(), r, x, y)
				}
			}
		}
	}
}

func TestHardStampIsOpaqueDisk(t *testing.T) {
	c := refreshed(t, 6, Profile{Hard: true})
	for _, pt := range c.Points() {
		assert.Equal(t, uint8(255), pt.Alpha)
	}
	corner, _ := c.Stamp().At(0, 0)
	assert.Equal(t, uint8(0), corner.A)
	centre, _ := c.Stamp().At(c.Center().X, c.Center().Y)
	assert.Equal(t, uint8(255), centre.A)
}

func TestPointsHaveNoDuplicates(t *testing.T) {
	c := refreshed(t, 11, Profile{Kind: FalloffLinear, Hardness: 0.5})
	seen := map[image.Point]bool{}
	for _, pt := range c.Points() {
		require.False(t, seen[pt.Pos], "duplicate %v", pt.Pos)
		require.NotZero(t, pt.Alpha)
		seen[pt.Pos] = true
	}
}

func TestSoftFalloffDecreases(t *testing.T) {
	c := refreshed(t, 10, Profile{Kind: FalloffQuadratic, Hardness: 0.2})
	prev := uint8(255)
	for x := 0; x <= 9; x++ {
		px, _ := c.Stamp().At(c.Center().X+x, c.Center().Y)
		assert.LessOrEqual(t, px.A, prev, "x=%d", x)
		prev = px.A
	}
	inner, _ := c.Stamp().At(c.Center().X+1, c.Center().Y)
	assert.Equal(t, uint8(255), inner.A)
}

func TestStaleTracking(t *testing.T) {
	c := refreshed(t, 3, Profile{Hard: true})
	assert.False(t, c.Stale())
	first := c.Stamp()

	c.SetProfile(Profile{Hard: true})
	assert.False(t, c.Stale(), "same identity keeps the cache")

	c.SetRadius(5)
	assert.True(t, c.Stale())
	assert.Same(t, first, c.Stamp(), "readers do not rebuild")
	require.NoError(t, c.Refresh())
	assert.Equal(t, 9, c.Stamp().Width())

	c.SetResolution(2)
	assert.True(t, c.Stale())
}

func TestPreviewRectsMirror(t *testing.T) {
	for _, zoom := range []float64{0.25, 1, 3} {
		c := NewCache()
		c.SetRadius(8)
		c.SetProfile(Profile{Hard: true})
		c.SetResolution(zoom)
		require.NoError(t, c.Refresh())
		rects := c.PreviewRects()
		require.NotEmpty(t, rects)

		set := map[image.Rectangle]bool{}
		for _, r := range rects {
			require.False(t, set[r], "duplicate rect %v", r)
			set[r] = true
		}
		for _, r := range rects {
			unit := r.Dx()
			px, py := r.Min.X/unit, r.Min.Y/unit
			mirror := image.Rect(-px*unit, py*unit, (-px+1)*unit, (py+1)*unit)
			assert.True(t, set[mirror], "zoom %v: missing mirror of %v", zoom, r)
			swap := image.Rect(py*unit, px*unit, (py+1)*unit, (px+1)*unit)
			assert.True(t, set[swap], "zoom %v: missing transpose of %v", zoom, r)
		}
	}
}

func TestPreviewShrinksWhenZoomedOut(t *testing.T) {
	c := NewCache()
	c.SetRadius(9)
	c.SetProfile(Profile{Hard: true})
	require.NoError(t, c.Refresh())
	full := len(c.PreviewRects())

	c.SetResolution(0.5)
	require.NoError(t, c.Refresh())
	assert.Less(t, len(c.PreviewRects()), full)

	c.SetResolution(0.001)
	require.NoError(t, c.Refresh())
	assert.NotEmpty(t, c.PreviewRects())
}

func TestPreviewFollowsFractionalZoom(t *testing.T) {
	for _, tc := range []struct {
		zoom     float64
		min, max int
	}{
		{1.4, -10, 12},
		{1.6, -12, 13},
	} {
		c := NewCache()
		c.SetRadius(8)
		c.SetProfile(Profile{Hard: true})
		c.SetResolution(tc.zoom)
		require.NoError(t, c.Refresh())
		var u image.Rectangle
		for _, r := range c.PreviewRects() {
			u = u.Union(r)
		}
		assert.Equal(t, tc.min, u.Min.X, "zoom %v", tc.zoom)
		assert.Equal(t, tc.max, u.Max.X, "zoom %v", tc.zoom)
	}
}

func TestRadiusIsBounded(t *testing.T) {
	c := NewCache()
	c.SetRadius(1 << 40)
	assert.Equal(t, MaxRadius, c.Radius())
	assert.Equal(t, 2*MaxRadius-1, c.Span())
}

func TestParseFalloff(t *testing.T) {
	f, err := ParseFalloff(" Quadratic ")
	require.NoError(t, err)
	assert.Equal(t, FalloffQuadratic, f)
	_, err = ParseFalloff("cubic")
	assert.ErrorContains(t, err, "linear, quadratic, exponential")
}
