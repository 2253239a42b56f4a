package raster

import (
	"github.com/go-ass/asscore/internal/bitmap"
	"github.com/go-ass/asscore/internal/outline"
)

// RenderOutline rasterizes path, optionally combined with extra (a second
// outline sharing path's winding count -- the border pair the stroker
// returns), into a freshly allocated bitmap sized to the pair's pixel
// bounding box. An outline with an empty or degenerate bounding box
// renders to a zero-sized bitmap rather than an error.
func (r *Rasterizer) RenderOutline(path, extra *outline.Outline) (*bitmap.Bitmap, error) {
	if err := r.SetOutline(path, false); err != nil {
		return nil, err
	}
	if extra != nil {
		if err := r.SetOutline(extra, true); err != nil {
			return nil, err
		}
	}

	box := r.BBox()
	if box.X1 >= box.X2 || box.Y1 >= box.Y2 {
		return bitmap.New(0, 0), nil
	}

	x0 := int(box.X1 >> 6)
	y0 := int(box.Y1 >> 6)
	x1 := int((box.X2 + 63) >> 6)
	y1 := int((box.Y2 + 63) >> 6)
	w, h := x1-x0, y1-y0

	step := 1 << uint(r.TileOrder)
	tw := (w + step - 1) &^ (step - 1)
	th := (h + step - 1) &^ (step - 1)

	bm := bitmap.New(tw, th)
	r.Fill(bm.Buffer, x0, y0, tw, th, bm.Stride)
	bm.Left, bm.Top = x0, y0
	// Trim the reported logical size back to the unpadded box; the
	// underlying buffer stays tile-aligned so later tile-sized reads
	// (e.g. a future SIMD engine) remain in-bounds.
	bm.W, bm.H = w, h
	return bm, nil
}
