package surface

import "image/color"

// BlendMode selects how a source is written onto a destination.
type BlendMode int

const (
	// BlendNone overwrites the destination, alpha included.
	BlendNone BlendMode = iota
	// BlendBlend composites the source over the destination using straight alpha.
	BlendBlend
)

func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendBlend:
		return "blend"
	default:
		return "unknown"
	}
}

// MulDiv255 returns a*b/255 rounded half up.
func MulDiv255(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}

// Over composites src over dst, both with straight alpha.
//
//	resultAlpha = αs + αd(1-αs)
//	result      = (Cs·αs + Cd·αd(1-αs)) / resultAlpha
//
// All weights are kept in units of 1/65025 and every division rounds half up.
// A zero result alpha yields transparent black.
func Over(dst, src color.NRGBA) color.NRGBA {
	if src.A == 255 {
		return src
	}
	ws := uint32(src.A) * 255
	wd := uint32(dst.A) * (255 - uint32(src.A))
	wa := ws + wd
	if wa == 0 {
		return color.NRGBA{}
	}
	half := wa / 2
	return color.NRGBA{
		R: uint8((uint32(src.R)*ws + uint32(dst.R)*wd + half) / wa),
		G: uint8((uint32(src.G)*ws + uint32(dst.G)*wd + half) / wa),
		B: uint8((uint32(src.B)*ws + uint32(dst.B)*wd + half) / wa),
		A: uint8((wa + 127) / 255),
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = MulDiv255(c.A, a)
	return c
}

// NRGBA converts any color to straight-alpha RGBA.
func NRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
