// Package color provides the packed 8-bit-per-channel color type used for
// ImageFragment colors and the fixed-point blend helpers the bitmap
// assembler and rasterizer rely on.
package color

import (
	"github.com/go-ass/asscore/internal/basics"
)

// RGBA8 is a packed 8-bit-per-channel color. Per the data model, alpha=0
// means fully opaque (the VSFilter/ASS convention), so this type carries
// raw channel bytes rather than an AGG-style premultiplied/straight alpha
// distinction; callers that need "coverage" semantics use the 8-bit helpers
// below (Mult8, AddSat8, MulMask8, Lerp8) against a separate 8-bit alpha bitmap instead of this struct's A.
type RGBA8 struct {
	R, G, B, A basics.Int8u
}

// NewRGBA8 builds a color from four channel bytes.
func NewRGBA8(r, g, b, a basics.Int8u) RGBA8 {
	return RGBA8{R: r, G: g, B: b, A: a}
}

// FromPacked unpacks a 0xRRGGBBAA style 32-bit value, the form style
// overrides and ASS color tags produce after parsing.
func FromPacked(v uint32) RGBA8 {
	return RGBA8{
		R: basics.Int8u(v >> 24),
		G: basics.Int8u(v >> 16),
		B: basics.Int8u(v >> 8),
		A: basics.Int8u(v),
	}
}

// Packed returns the 0xRRGGBBAA encoding of the color.
func (c RGBA8) Packed() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Opaque reports whether the color's alpha channel denotes full opacity
// under ASS's inverted convention (alpha=0 is opaque).
func (c RGBA8) Opaque() bool { return c.A == 0 }

const (
	base8Mask  = 255
	base8Shift = 8
	base8MSB   = 1 << (base8Shift - 1)
)

// Mult8 performs the classic fixed-point "divide by 255" multiply used
// throughout AGG's blenders: ((a*b + 0x80) + ((a*b + 0x80) >> 8)) >> 8.
func Mult8(a, b basics.Int8u) basics.Int8u {
	t := uint32(a)*uint32(b) + base8MSB
	return basics.Int8u(((t >> base8Shift) + t) >> base8Shift)
}

// AddSat8 saturating-adds two 8-bit channel values, the operation the
// bitmap assembler uses to combine glyph bitmaps into a run (§4.F).
func AddSat8(a, b basics.Int8u) basics.Int8u {
	v := uint32(a) + uint32(b)
	if v > base8Mask {
		return base8Mask
	}
	return basics.Int8u(v)
}

// MulMask8 implements the clip-mask alpha multiply from §4.F:
// out = (fill*mask + 127) / 255, rounded division rather than the
// fixed-point approximation, since clip application only runs once per
// pixel and exactness matters more than speed here.
func MulMask8(fill, mask basics.Int8u) basics.Int8u {
	return basics.Int8u((uint32(fill)*uint32(mask) + 127) / 255)
}

// Lerp8 performs AGG's rounded linear interpolation between two channel
// values at fraction a/255.
func Lerp8(p, q, a basics.Int8u) basics.Int8u {
	var greater int32
	if p > q {
		greater = 1
	}
	t := (int32(q)-int32(p))*int32(a) + base8MSB - greater
	return basics.Int8u(int32(p) + (((t >> base8Shift) + t) >> base8Shift))
}
