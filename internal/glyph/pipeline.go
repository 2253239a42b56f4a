package glyph

import (
	"errors"
	"fmt"

	"github.com/go-ass/asscore/internal/bitmap"
	"github.com/go-ass/asscore/internal/cache"
	"github.com/go-ass/asscore/internal/drawing"
	"github.com/go-ass/asscore/internal/outline"
	"github.com/go-ass/asscore/internal/raster"
	"github.com/go-ass/asscore/internal/stroke"
	"github.com/go-ass/asscore/internal/transform3d"
)

// ErrNoSource reports a Glyph-variant OutlineKey miss when the pipeline
// has no FontOutlineSource configured.
var ErrNoSource = errors.New("glyph: no font outline source configured")

// FontOutlineSource is the seam between this package's outline converter
// and the font-library back end, kept as an interface only. Nothing in
// this repository implements it against a real font library; callers
// supply one backed by whatever font rasterizer they embed.
type FontOutlineSource interface {
	// GlyphOutline returns the raw contour description for one glyph at
	// the given point size, in the FreeType on-curve/conic/cubic tag
	// convention internal/outline.ConvertFromFontOutline expects.
	GlyphOutline(fontID, faceIndex, glyphIndex int, size int32, bold, italic bool) (*outline.FontOutlineSource, error)
	// GlyphAdvance returns the glyph's unscaled advance (26.6).
	GlyphAdvance(fontID, faceIndex, glyphIndex int, size int32) (int32, error)
}

// OutlineValue is the cached result of acquiring and (optionally)
// stroking one glyph or drawing's outline: the outline itself, two
// border outlines (inner/outer; Border[1] is nil when BorderStyle
// selects the opaque-box synthetic rectangle, which has no inner
// outline), its bounding box, advance, and ascender/descender.
type OutlineValue struct {
	Outline             *outline.Outline
	Border              [2]*outline.Outline
	BBox                outline.Rect
	Advance             outline.Point
	Ascender, Descender int32
}

// BitmapValue is the cached (fill, border) bitmap pair rasterization
// produces.
type BitmapValue struct {
	Fill, Outline *bitmap.Bitmap
}

// Pipeline wires the outline store/converter/stroker, the tiled
// rasterizer, and the two caches their outputs live in together into
// the per-glyph rendering pipeline. One Pipeline belongs to one
// renderer; it assumes single-threaded cooperative use, not concurrent
// calls from multiple goroutines.
type Pipeline struct {
	Outlines *cache.Cache[OutlineKey, OutlineValue]
	Bitmaps  *cache.Cache[BitmapKey, BitmapValue]
	Raster   *raster.Rasterizer
	Source   FontOutlineSource

	// BorderScale corrects border_x/border_y for the rendering resolution,
	// mirroring VSFilter's border-scale-per-storage-size factor.
	BorderScale float64
	// StrokeEps is the stroker's precision tolerance (26.6).
	StrokeEps int32
}

// NewPipeline returns a Pipeline with fresh, empty outline and bitmap
// caches, wired to raster for rasterization. destructors may be nil.
func NewPipeline(raster *raster.Rasterizer, source FontOutlineSource, outlineDestruct cache.Destructor[OutlineValue], bitmapDestruct cache.Destructor[BitmapValue]) *Pipeline {
	return &Pipeline{
		Outlines:    cache.New[OutlineKey, OutlineValue](outlineDestruct),
		Bitmaps:     cache.New[BitmapKey, BitmapValue](bitmapDestruct),
		Raster:      raster,
		Source:      source,
		BorderScale: 1,
		StrokeEps:   4, // 1/16 px in 26.6, libass's default ASS_OUTLINE_EPS-equivalent
	}
}

// GetOutline returns the cached OutlineValue for key, building it on a
// miss: acquire the raw outline (font conversion or drawing parse), then
// generate its border -- a synthetic rectangle for an opaque box-style
// border, otherwise the stroker's (outer, inner) pair.
func (p *Pipeline) GetOutline(key OutlineKey) (*OutlineValue, error) {
	val, h, hit := p.Outlines.Get(key)
	if hit {
		return val, nil
	}

	ov, err := p.buildOutline(key)
	if err != nil {
		p.Outlines.Abandon(h)
		return nil, err
	}
	*val = *ov
	p.Outlines.Commit(h, outlineSize(ov.Outline)+outlineSize(ov.Border[0])+outlineSize(ov.Border[1]))
	return val, nil
}

func (p *Pipeline) buildOutline(key OutlineKey) (*OutlineValue, error) {
	ol := outline.New()
	var advance outline.Point
	var ascender, descender int32

	if key.IsDrawing {
		res, err := drawing.Parse(key.Text, drawing.Params{
			ScaleX: fixedToFloat(key.ScaleX),
			ScaleY: fixedToFloat(key.ScaleY),
			Scale:  key.Scale,
			PBO:    key.PBO,
		})
		if err != nil {
			return nil, fmt.Errorf("glyph: parse drawing: %w", err)
		}
		ol = res.Outline
		advance = res.Advance
		ascender, descender = res.Ascender, res.Descender
	} else {
		if p.Source == nil {
			return nil, ErrNoSource
		}
		src, err := p.Source.GlyphOutline(key.FontID, key.FaceIndex, key.GlyphIndex, key.Size, key.Bold, key.Italic)
		if err != nil {
			return nil, fmt.Errorf("glyph: fetch outline: %w", err)
		}
		if err := ol.ConvertFromFontOutline(src); err != nil {
			return nil, fmt.Errorf("glyph: convert outline: %w", err)
		}
		scaleOutline(ol, key.ScaleX, key.ScaleY)
		adv, err := p.Source.GlyphAdvance(key.FontID, key.FaceIndex, key.GlyphIndex, key.Size)
		if err != nil {
			return nil, fmt.Errorf("glyph: fetch advance: %w", err)
		}
		advance = outline.Point{X: int32((int64(adv) * int64(key.ScaleX)) >> 16)}
	}

	if !ol.InRange() {
		return nil, raster.ErrOutOfRange
	}

	box := ol.GetCBox()
	var border [2]*outline.Outline
	xb := scaleCoord(key.OutlineX, p.BorderScale)
	yb := scaleCoord(key.OutlineY, p.BorderScale)
	if xb != 0 || yb != 0 || key.BorderStyle == 3 {
		if key.BorderStyle == 3 {
			rect, err := rectOutline(box, xb, yb)
			if err != nil {
				return nil, fmt.Errorf("glyph: opaque-box border: %w", err)
			}
			border[0] = rect
		} else {
			outer, inner, err := stroke.Stroke(ol, xb, yb, p.StrokeEps)
			if err != nil {
				return nil, fmt.Errorf("glyph: stroke: %w", err)
			}
			border[0], border[1] = outer, inner
		}
	}

	return &OutlineValue{
		Outline:   ol,
		Border:    border,
		BBox:      box,
		Advance:   advance,
		Ascender:  ascender,
		Descender: descender,
	}, nil
}

// GetBitmap returns the cached BitmapValue for key, building it on a
// miss: copy ov's outlines, apply the 3-D transform and sub-pixel
// shift, then rasterize fill and border.
func (p *Pipeline) GetBitmap(key BitmapKey, ov *OutlineValue, xform transform3d.Params, subShiftX, subShiftY int32) (*BitmapValue, error) {
	val, h, hit := p.Bitmaps.Get(key)
	if hit {
		return val, nil
	}

	bv, err := p.buildBitmap(ov, xform, subShiftX, subShiftY)
	if err != nil {
		p.Bitmaps.Abandon(h)
		return nil, err
	}
	*val = *bv
	p.Bitmaps.Commit(h, bitmapSize(bv.Fill)+bitmapSize(bv.Outline))
	return val, nil
}

func (p *Pipeline) buildBitmap(ov *OutlineValue, xform transform3d.Params, subShiftX, subShiftY int32) (*BitmapValue, error) {
	fillOl := outline.New()
	if err := fillOl.Copy(ov.Outline); err != nil {
		return nil, err
	}
	var borders [2]*outline.Outline
	for i, b := range ov.Border {
		if b == nil {
			continue
		}
		o := outline.New()
		if err := o.Copy(b); err != nil {
			return nil, err
		}
		borders[i] = o
	}

	all := []*outline.Outline{fillOl}
	for _, b := range borders {
		if b != nil {
			all = append(all, b)
		}
	}

	xform.YShift = ov.Ascender
	shift := transform3d.Shift{X: 0, Y: ov.Ascender}
	transform3d.Apply(shift, all, xform)

	for _, o := range all {
		o.Translate(subShiftX, subShiftY)
	}

	fillBm, err := p.Raster.RenderOutline(fillOl, nil)
	if err != nil {
		return nil, fmt.Errorf("glyph: rasterize fill: %w", err)
	}

	var outlineBm *bitmap.Bitmap
	if borders[0] != nil {
		outlineBm, err = p.Raster.RenderOutline(borders[0], borders[1])
		if err != nil {
			return nil, fmt.Errorf("glyph: rasterize border: %w", err)
		}
	}

	return &BitmapValue{Fill: fillBm, Outline: outlineBm}, nil
}

func scaleOutline(ol *outline.Outline, sx16, sy16 int32) {
	if sx16 == 0x10000 && sy16 == 0x10000 {
		return
	}
	for i := range ol.Points {
		ol.Points[i].X = int32((int64(ol.Points[i].X) * int64(sx16)) >> 16)
		ol.Points[i].Y = int32((int64(ol.Points[i].Y) * int64(sy16)) >> 16)
	}
}

func scaleCoord(v int32, scale float64) int32 {
	if scale == 1 {
		return v
	}
	return int32(float64(v) * scale)
}

func fixedToFloat(v16 int32) float64 {
	return float64(v16) / 65536
}

func outlineSize(ol *outline.Outline) int {
	if ol == nil {
		return 0
	}
	return len(ol.Points)*8 + len(ol.Segments)
}

func bitmapSize(bm *bitmap.Bitmap) int {
	if bm == nil {
		return 0
	}
	return len(bm.Buffer)
}

// rectOutline builds the closed rectangular contour border-style 3
// ("opaque box") substitutes for a stroked outline: box expanded by
// (xb, yb) on every side.
func rectOutline(box outline.Rect, xb, yb int32) (*outline.Outline, error) {
	o := outline.New()
	x0, y0, x1, y1 := box.X1-xb, box.Y1-yb, box.X2+xb, box.Y2+yb
	if err := o.AddPoint(outline.Point{X: x0, Y: y0}, 0); err != nil {
		return nil, err
	}
	if err := o.AddPoint(outline.Point{X: x1, Y: y0}, outline.LineSegment); err != nil {
		return nil, err
	}
	if err := o.AddPoint(outline.Point{X: x1, Y: y1}, outline.LineSegment); err != nil {
		return nil, err
	}
	if err := o.AddPoint(outline.Point{X: x0, Y: y1}, outline.LineSegment); err != nil {
		return nil, err
	}
	if err := o.AddSegment(outline.LineSegment); err != nil {
		return nil, err
	}
	if err := o.CloseContour(); err != nil {
		return nil, err
	}
	return o, nil
}
