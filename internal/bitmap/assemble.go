package bitmap

import (
	"github.com/go-ass/asscore/internal/basics"
	"github.com/go-ass/asscore/internal/color"
)

// AddInto adds src into dst with saturating 8-bit addition, placing src at
// its own (Left, Top) relative to dst's. Pixels of src that fall outside
// dst's extent are dropped.
func (dst *Bitmap) AddInto(src *Bitmap) {
	if src == nil || src.W == 0 || src.H == 0 {
		return
	}
	dx := src.Left - dst.Left
	dy := src.Top - dst.Top
	for y := 0; y < src.H; y++ {
		ty := y + dy
		if ty < 0 || ty >= dst.H {
			continue
		}
		srow := src.Row(y)
		drow := dst.Row(ty)
		for x := 0; x < src.W; x++ {
			tx := x + dx
			if tx < 0 || tx >= dst.W {
				continue
			}
			drow[tx] = color.AddSat8(drow[tx], srow[x])
		}
	}
}

// Union returns the placement (left, top) and size (w, h) of the smallest
// rectangle covering every non-empty bitmap in bms.
func Union(bms ...*Bitmap) (left, top, w, h int) {
	first := true
	var x0, y0, x1, y1 int
	for _, bm := range bms {
		if bm == nil || bm.W == 0 || bm.H == 0 {
			continue
		}
		bx0, by0 := bm.Left, bm.Top
		bx1, by1 := bm.Left+bm.W, bm.Top+bm.H
		if first {
			x0, y0, x1, y1 = bx0, by0, bx1, by1
			first = false
			continue
		}
		if bx0 < x0 {
			x0 = bx0
		}
		if by0 < y0 {
			y0 = by0
		}
		if bx1 > x1 {
			x1 = bx1
		}
		if by1 > y1 {
			y1 = by1
		}
	}
	if first {
		return 0, 0, 0, 0
	}
	return x0, y0, x1 - x0, y1 - y0
}

// BePadding is the per-side pixel growth a be-blur of strength be needs:
// be_padding(be) = 2*be.
func BePadding(be int) int { return 2 * be }

// BeBlur applies libass's iterated "blur edges" effect: be passes of a
// separable 3-tap box blur, each pass first growing the bitmap by one
// pixel on every side so the blur never clips against the previous
// bounds.
func (bm *Bitmap) BeBlur(be int) {
	for i := 0; i < be; i++ {
		bm.growBorder(1)
		bm.boxBlur3()
	}
}

func (bm *Bitmap) growBorder(pad int) {
	nw, nh := bm.W+2*pad, bm.H+2*pad
	out := New(nw, nh)
	out.Left, out.Top = bm.Left-pad, bm.Top-pad
	for y := 0; y < bm.H; y++ {
		copy(out.Row(y+pad)[pad:], bm.Row(y))
	}
	*bm = *out
}

func (bm *Bitmap) boxBlur3() {
	tmp := New(bm.W, bm.H)
	for y := 0; y < bm.H; y++ {
		src := bm.Row(y)
		dst := tmp.Row(y)
		for x := 0; x < bm.W; x++ {
			lo, hi := x, x
			if x > 0 {
				lo = x - 1
			}
			if x < bm.W-1 {
				hi = x + 1
			}
			dst[x] = byte((int(src[lo]) + int(src[x]) + int(src[hi])) / 3)
		}
	}
	for y := 0; y < bm.H; y++ {
		dst := bm.Row(y)
		for x := 0; x < bm.W; x++ {
			lo, hi := y, y
			if y > 0 {
				lo = y - 1
			}
			if y < bm.H-1 {
				hi = y + 1
			}
			dst[x] = byte((int(tmp.Row(lo)[x]) + int(tmp.Row(y)[x]) + int(tmp.Row(hi)[x])) / 3)
		}
	}
}

// AlphaMultiply multiplies fill's coverage by mask's, using the clip-mask
// formula out[i] = (fill[i]*mask[i] + 127) / 255. Pixels of fill outside
// mask's placement are treated as fully masked (zero).
func (fill *Bitmap) AlphaMultiply(mask *Bitmap) {
	for y := 0; y < fill.H; y++ {
		my := y + fill.Top - mask.Top
		row := fill.Row(y)
		for x := 0; x < fill.W; x++ {
			mx := x + fill.Left - mask.Left
			var m byte
			if my >= 0 && my < mask.H && mx >= 0 && mx < mask.W {
				m = mask.Row(my)[mx]
			}
			row[x] = color.MulMask8(row[x], m)
		}
	}
}

// ShiftSubpixel moves bm by (dx, dy), both 26.6 fixed point and each
// independently possibly negative. The integer part moves the placement;
// the fractional remainder is applied as a 2x2 bilinear pre-blur first, so
// a shadow offset that isn't pixel-aligned still lands at its true
// sub-pixel position.
func (bm *Bitmap) ShiftSubpixel(dx, dy int32) {
	if bm.W == 0 || bm.H == 0 {
		bm.Left += int(dx >> 6)
		bm.Top += int(dy >> 6)
		return
	}
	ix, iy := int(dx>>6), int(dy>>6)
	fx, fy := int(dx&63), int(dy&63)
	if fx != 0 || fy != 0 {
		bm.bilinearShift(fx, fy)
	}
	bm.Left += ix
	bm.Top += iy
}

func (bm *Bitmap) bilinearShift(fx, fy int) {
	nw, nh := bm.W+1, bm.H+1
	out := New(nw, nh)
	for y := 0; y < nh; y++ {
		for x := 0; x < nw; x++ {
			v00 := int(bm.sampleClamped(x-1, y-1))
			v10 := int(bm.sampleClamped(x, y-1))
			v01 := int(bm.sampleClamped(x-1, y))
			v11 := int(bm.sampleClamped(x, y))
			sum := fx*fy*v00 + (64-fx)*fy*v10 + fx*(64-fy)*v01 + (64-fx)*(64-fy)*v11
			out.Row(y)[x] = byte((sum + 2048) >> 12)
		}
	}
	out.Left, out.Top = bm.Left, bm.Top
	*bm = *out
}

func (bm *Bitmap) sampleClamped(x, y int) byte {
	if x < 0 || x >= bm.W || y < 0 || y >= bm.H {
		return 0
	}
	return bm.Row(y)[x]
}

// SplitX divides bm into two bitmaps at local column x: left covers
// columns [0, x), right covers [x, W). Used by the karaoke fill/outline
// sweep to color the swept and unswept portions of a combined bitmap
// independently. Either return value is nil if the
// split falls entirely outside bm.
func (bm *Bitmap) SplitX(x int) (left, right *Bitmap) {
	if x <= 0 {
		return nil, bm
	}
	if x >= bm.W {
		return bm, nil
	}
	left = New(x, bm.H)
	left.Left, left.Top = bm.Left, bm.Top
	right = New(bm.W-x, bm.H)
	right.Left, right.Top = bm.Left+x, bm.Top
	for y := 0; y < bm.H; y++ {
		row := bm.Row(y)
		copy(left.Row(y), row[:x])
		copy(right.Row(y), row[x:])
	}
	return left, right
}

// ClipToFrame crops bm in place to the frame rectangle [0, fw) x [0, fh),
// reporting false (and leaving bm zero-sized) if nothing of it remains
// visible. Used by the frame composer after applying a collision-
// resolution shift.
func (bm *Bitmap) ClipToFrame(fw, fh int) bool {
	r := basics.Rect[int]{X1: bm.Left, Y1: bm.Top, X2: bm.Left + bm.W, Y2: bm.Top + bm.H}
	if !r.Clip(basics.Rect[int]{X1: 0, Y1: 0, X2: fw, Y2: fh}) {
		bm.W, bm.H = 0, 0
		return false
	}
	nw, nh := r.X2-r.X1, r.Y2-r.Y1
	out := New(nw, nh)
	for y := 0; y < nh; y++ {
		srcY := y + (r.Y1 - bm.Top)
		srcX := r.X1 - bm.Left
		copy(out.Row(y), bm.Row(srcY)[srcX:srcX+nw])
	}
	out.Left, out.Top = r.X1, r.Y1
	*bm = *out
	return true
}

// Run bundles the inputs to Assemble: one combined-bitmap build for a
// contiguous span of glyphs sharing style.
type Run struct {
	Fills, Outlines []*Bitmap
	Be              int
	BlurR2          float64
	ShadowDX        int32 // 26.6, may be negative
	ShadowDY        int32
	BorderStyle     int
	WantShadow      bool
}

// Assemble builds the fill/outline/shadow triplet for one run: unions and
// saturating-adds each glyph's bitmaps into a combined canvas, applies
// be-blur then Gaussian blur (via the injected blur function, to avoid an
// import cycle with the blur package, which already depends on bitmap),
// and derives the shadow from whichever source applies: a copy of fill
// for an opaque border style, else a copy of the outline bitmap if one
// exists, else a copy of fill.
func Assemble(run Run, blur func(bm *Bitmap, r2 float64)) (fill, outlineBm, shadow *Bitmap) {
	fill = combine(run.Fills, run.Be)
	outlineBm = combine(run.Outlines, run.Be)
	if fill != nil && run.BlurR2 > 0 {
		blur(fill, run.BlurR2)
	}
	if outlineBm != nil && run.BlurR2 > 0 {
		blur(outlineBm, run.BlurR2)
	}
	if !run.WantShadow {
		return fill, outlineBm, nil
	}
	switch {
	case run.BorderStyle == 3 && fill != nil:
		shadow = fill.Copy()
	case outlineBm != nil:
		shadow = outlineBm.Copy()
	case fill != nil:
		shadow = fill.Copy()
	}
	if shadow != nil {
		shadow.ShiftSubpixel(run.ShadowDX, run.ShadowDY)
	}
	return fill, outlineBm, shadow
}

func combine(bms []*Bitmap, be int) *Bitmap {
	left, top, w, h := Union(bms...)
	if w == 0 || h == 0 {
		return nil
	}
	pad := BePadding(be)
	out := New(w+2*pad, h+2*pad)
	out.Left, out.Top = left-pad, top-pad
	for _, bm := range bms {
		out.AddInto(bm)
	}
	if be > 0 {
		out.BeBlur(be)
	}
	return out
}
