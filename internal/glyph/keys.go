// Package glyph implements the per-glyph rendering pipeline: for a
// laid-out glyph, fetch or build its outline (via the outline/drawing/
// stroke packages), apply the 3-D transform, rasterize fill and border,
// and cache every stage's result.
//
// Grounded on libass's ass_render.c (get_outline_glyph, get_bitmap_glyph)
// and ass_cache.c's key shapes. There's no array-based glyph cache to
// adapt here -- a hash-bucketed multi-key cache in internal/cache backs
// every variant instead.
package glyph

// OutlineKey identifies the un-stroked-or-stroked outline a glyph or
// inline drawing produces. Exactly one of the Glyph or Drawing field
// groups is meaningful, selected by IsDrawing; both are flattened into
// one comparable struct (rather than a tagged union) so it can be used
// directly as a Go map key.
type OutlineKey struct {
	IsDrawing bool

	// Glyph variant.
	FontID, FaceIndex, GlyphIndex int
	Size                          int32 // 26.6
	Bold, Italic                  bool

	// Drawing variant.
	Hash  uint32
	Text  string
	Scale int
	PBO   float64

	// Shared by both variants.
	ScaleX, ScaleY     int32 // 16.16
	OutlineX, OutlineY int32 // 26.6 border radii
	BorderStyle        int
	Flags              uint32
	HSpacing           int32
}

// GlyphMetricsKey identifies the glyph-metrics lookup kept separate from
// the outline key (a shaper may need advance/bbox metrics for glyphs it
// never asks the core to rasterize).
type GlyphMetricsKey struct {
	FontID, FaceIndex, GlyphIndex int
	Size                          int32
	ScaleX, ScaleY                int32
}

// BitmapKey identifies one rendered (fill, border) bitmap pair built from
// an OutlineKey's value plus the position/rotation/shear state that
// affects rasterized pixels. ShiftX/ShiftY and the angle/shear fields are
// quantized so that sub-pixel differences below the engine's chosen
// granularity reuse the same cache entry.
type BitmapKey struct {
	Outline         OutlineKey
	AdvanceSubpixel int32
	ShiftX, ShiftY  int8  // 3-bit quantized sub-pixel position
	FrxKey, FryKey  int32 // 2.22 fixed-point angle keys
	FrzKey          int32
	FaxFP, FayFP    int32 // 16.16 fixed-point shear keys
}

// ClipKey identifies a vector-clip mask bitmap, keyed only by the clip
// drawing's text, since a clip mask has no font/style dependency of its
// own.
type ClipKey struct {
	Text string
}

// QuantizeSubpixel reduces a 26.6 coordinate's fractional part to a 3-bit
// grid (one of 8 positions per pixel) for use as a BitmapKey shift field,
// and returns the corresponding re-expanded 26.6 shift to actually apply
// when rendering -- the same grid point every time, so two positions that
// quantize identically also rasterize identically.
func QuantizeSubpixel(pos int32) (key int8, shift int32) {
	frac := pos & 63
	q := (frac + 4) >> 3 & 7
	return int8(q), q << 3
}

// AngleKey quantizes a radian angle to a 2.22 fixed-point cache-key.
func AngleKey(rad float64) int32 {
	return int32(rad*(1<<22) + sign(rad)*0.5)
}

// ShearKey quantizes a shear factor to 16.16 fixed point for use as a
// BitmapKey field.
func ShearKey(v float64) int32 {
	return int32(v*65536 + sign(v)*0.5)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
