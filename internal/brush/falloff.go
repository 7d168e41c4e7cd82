package brush

import (
	"fmt"
	"math"
	"strings"
)

// AlphaFunc maps a pixel's distance from the brush centre to its coverage.
// radius is the internal radius, so the disk reaches radius+0.5.
type AlphaFunc func(dist, radius float64) uint8

// Falloff names one of the built-in soft brush curves.
type Falloff int

const (
	FalloffLinear Falloff = iota
	FalloffQuadratic
	FalloffExponential
)

var falloffNames = []string{"linear", "quadratic", "exponential"}

func (f Falloff) String() string {
	if f < 0 || int(f) >= len(falloffNames) {
		return fmt.Sprintf("falloff(%d)", int(f))
	}
	return falloffNames[f]
}

// ParseFalloff accepts the names printed by String, case-insensitively.
func ParseFalloff(s string) (Falloff, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range falloffNames {
		if n == s {
			return Falloff(i), nil
		}
	}
	return 0, fmt.Errorf("unknown falloff %q (want one of %s)", s, strings.Join(falloffNames, ", "))
}

// Profile describes a brush edge. Hard profiles cover every pixel of the
// disk fully; soft ones keep full coverage out to Hardness×radius and then
// decay along Kind until radius+0.5.
type Profile struct {
	Kind     Falloff
	Hardness float64
	Hard     bool
}

// ID identifies the curve for cache keying.
func (p Profile) ID() string {
	if p.Hard {
		return "hard"
	}
	return fmt.Sprintf("%s@%.4f", p.Kind, clampUnit(p.Hardness))
}

// Func returns the alpha function for p.
func (p Profile) Func() AlphaFunc {
	if p.Hard {
		return func(float64, float64) uint8 { return 255 }
	}
	hardness := clampUnit(p.Hardness)
	kind := p.Kind
	return func(dist, radius float64) uint8 {
		inner := hardness * radius
		outer := radius + 0.5
		if dist <= inner {
			return 255
		}
		if dist >= outer {
			return 0
		}
		t := (dist - inner) / (outer - inner)
		var v float64
		switch kind {
		case FalloffQuadratic:
			v = (1 - t) * (1 - t)
		case FalloffExponential:
			v = math.Exp(-4 * t)
		default:
			v = 1 - t
		}
		return uint8(math.Round(255 * v))
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
