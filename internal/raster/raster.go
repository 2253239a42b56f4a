// Package raster implements the tiled rasterizer: given a canonical
// outline (or a fill outline plus an extra border outline sharing one
// winding count), it produces an 8-bit coverage bitmap by recursive
// quad-tree subdivision down to a fixed tile size, bottoming out at solid,
// single-half-plane, or generic multi-segment trapezoid tile fills.
//
// This is a direct port of libass's ass_rasterizer.c/ass_rasterizer_c.c.
// The half-plane normalization arithmetic (ilog2 plus the magic-constant
// fast-reciprocal approximation) and the tile-fill fixed-point shift
// amounts are kept verbatim, not rewritten to taste, since output is
// compared pixel-for-pixel against the reference renderer.
package raster

import (
	"errors"

	"github.com/go-ass/asscore/internal/outline"
)

// Segment flag bits, matching libass's SEGFLAG_* bit for bit.
const (
	segDn          = 1
	segULDR        = 2
	segExactLeft   = 4
	segExactRight  = 8
	segExactTop    = 16
	segExactBottom = 32
)

// segment is one polyline edge: a half-plane a*x + b*y < c (pre-scaled for
// fixed-point tile fills) plus its axis-aligned bounding box in 26.6 units
// relative to the current tile-grid origin.
type segment struct {
	c                      int64
	a, b, scale            int32
	xMin, xMax, yMin, yMax int32
	flags                  int32
}

// ErrOutOfRange reports a source point outside [outline.Min, outline.Max].
var ErrOutOfRange = errors.New("raster: point out of range")

// ErrMalformedOutline reports an outline whose segment bytes don't encode
// a consistent point count.
var ErrMalformedOutline = errors.New("raster: malformed outline")

// Rasterizer accumulates a polyline built from one or two outlines (a fill
// outline and, optionally, a border outline sharing its winding count) and
// fills a tile-aligned rectangle of an 8-bit coverage buffer from it.
//
// TileOrder selects the tile size as 1<<TileOrder (16 or 32); SPEC_FULL.md
// §13 fixes it at 5 (32-pixel tiles) by default.
type Rasterizer struct {
	TileOrder    int
	OutlineError int32
	Engine       Engine

	lines  []segment // group 0 (fill) followed by group 1 (extra border)
	nFirst int
	bbox   outline.Rect

	tile []byte // scratch tile-sized buffer for combining two generic fills
}

// New returns a Rasterizer for the given tile order (4 for 16px tiles, 5
// for 32px) and spline-flattening error tolerance (26.6 fixed point),
// wired to the scalar tile-fill engine.
func New(tileOrder int, outlineError int32) *Rasterizer {
	return &Rasterizer{
		TileOrder:    tileOrder,
		OutlineError: outlineError,
		Engine:       newScalarEngine(tileOrder),
		tile:         make([]byte, 1<<uint(2*tileOrder)),
	}
}

func ilog2(n uint32) int {
	res := 0
	for ord := 16; ord != 0; ord /= 2 {
		if n >= uint32(1)<<uint(ord) {
			res += ord
			n >>= uint(ord)
		}
	}
	return res
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// addLine appends one polyline edge for pt0->pt1, computing the half-plane
// coefficients and their fixed-point normalization ("halfplane
// normalization" in the source: scale a/b/c up so max(|a|,|b|) sits just
// below 1<<31, then derive a fast-reciprocal `scale` via a magic-constant
// Newton-step approximation of 1/max_ab rather than a division).
func (r *Rasterizer) addLine(pt0, pt1 outline.Point) {
	x := pt1.X - pt0.X
	y := pt1.Y - pt0.Y
	if x == 0 && y == 0 {
		return
	}

	var line segment
	line.flags = segExactLeft | segExactRight | segExactTop | segExactBottom
	if x < 0 {
		line.flags ^= segULDR
	}
	if y >= 0 {
		line.flags ^= segDn | segULDR
	}

	line.xMin = min32(pt0.X, pt1.X)
	line.xMax = max32(pt0.X, pt1.X)
	line.yMin = min32(pt0.Y, pt1.Y)
	line.yMax = max32(pt0.Y, pt1.Y)

	line.a = y
	line.b = -x
	line.c = int64(y)*int64(pt0.X) - int64(x)*int64(pt0.Y)

	absX, absY := abs32(x), abs32(y)
	maxAB := uint32(absX)
	if uint32(absY) > maxAB {
		maxAB = uint32(absY)
	}
	shift := uint(30 - ilog2(maxAB))
	maxAB <<= shift + 1
	line.a *= 1 << shift
	line.b *= 1 << shift
	line.c *= int64(1) << shift
	line.scale = int32(uint64(0x53333333) * (uint64(maxAB) * uint64(maxAB) >> 32) >> 32)
	line.scale += int32(0x8810624D - (0xBBC6A7EF*uint64(maxAB))>>32)

	r.lines = append(r.lines, line)
}

// outlineSegment caches a spline's chord vector so repeated subdivide
// checks don't recompute it; the analogue of libass's OutlineSegment.
type outlineSegment struct {
	r      outline.Point
	r2, er int64
}

func newOutlineSegment(beg, end outline.Point, outlineError int32) outlineSegment {
	x := end.X - beg.X
	y := end.Y - beg.Y
	var seg outlineSegment
	seg.r = outline.Point{X: x, Y: y}
	seg.r2 = int64(x)*int64(x) + int64(y)*int64(y)
	seg.er = int64(outlineError) * int64(max32(abs32(x), abs32(y)))
	return seg
}

// subdivide reports whether pt deviates from the beg->(seg end) chord by
// more than the outline error tolerance, in either the parallel or
// perpendicular direction.
func (seg outlineSegment) subdivide(beg, pt outline.Point) bool {
	x := pt.X - beg.X
	y := pt.Y - beg.Y
	pdr := int64(seg.r.X)*int64(x) + int64(seg.r.Y)*int64(y)
	pcr := int64(seg.r.X)*int64(y) - int64(seg.r.Y)*int64(x)
	if pcr < 0 {
		pcr = -pcr
	}
	return pdr < -seg.er || pdr > seg.r2+seg.er || pcr > seg.er
}

func (r *Rasterizer) addQuadratic(pt [3]outline.Point) {
	seg := newOutlineSegment(pt[0], pt[2], r.OutlineError)
	if !seg.subdivide(pt[0], pt[1]) {
		r.addLine(pt[0], pt[2])
		return
	}

	var next [5]outline.Point
	next[1] = outline.Point{X: pt[0].X + pt[1].X, Y: pt[0].Y + pt[1].Y}
	next[3] = outline.Point{X: pt[1].X + pt[2].X, Y: pt[1].Y + pt[2].Y}
	next[2] = outline.Point{X: (next[1].X + next[3].X + 2) >> 2, Y: (next[1].Y + next[3].Y + 2) >> 2}
	next[1].X >>= 1
	next[1].Y >>= 1
	next[3].X >>= 1
	next[3].Y >>= 1
	next[0] = pt[0]
	next[4] = pt[2]

	r.addQuadratic([3]outline.Point{next[0], next[1], next[2]})
	r.addQuadratic([3]outline.Point{next[2], next[3], next[4]})
}

func (r *Rasterizer) addCubic(pt [4]outline.Point) {
	seg := newOutlineSegment(pt[0], pt[3], r.OutlineError)
	if !seg.subdivide(pt[0], pt[1]) && !seg.subdivide(pt[0], pt[2]) {
		r.addLine(pt[0], pt[3])
		return
	}

	var next [7]outline.Point
	var center outline.Point
	next[1] = outline.Point{X: pt[0].X + pt[1].X, Y: pt[0].Y + pt[1].Y}
	center = outline.Point{X: pt[1].X + pt[2].X + 2, Y: pt[1].Y + pt[2].Y + 2}
	next[5] = outline.Point{X: pt[2].X + pt[3].X, Y: pt[2].Y + pt[3].Y}
	next[2] = outline.Point{X: next[1].X + center.X, Y: next[1].Y + center.Y}
	next[4] = outline.Point{X: center.X + next[5].X, Y: center.Y + next[5].Y}
	next[3] = outline.Point{X: (next[2].X + next[4].X - 1) >> 3, Y: (next[2].Y + next[4].Y - 1) >> 3}
	next[2].X >>= 2
	next[2].Y >>= 2
	next[4].X >>= 2
	next[4].Y >>= 2
	next[1].X >>= 1
	next[1].Y >>= 1
	next[5].X >>= 1
	next[5].Y >>= 1
	next[0] = pt[0]
	next[6] = pt[3]

	r.addCubic([4]outline.Point{next[0], next[1], next[2], next[3]})
	r.addCubic([4]outline.Point{next[3], next[4], next[5], next[6]})
}

// SetOutline flattens path into the working polyline, accumulating its
// bounding box. When extra is false (the usual case) this starts a fresh
// fill outline as group 0; when true, path is appended as group 1 (a
// border outline sharing the fill's winding accounting) on top of a group
// 0 set by a prior extra=false call.
func (r *Rasterizer) SetOutline(path *outline.Outline, extra bool) error {
	if !extra {
		r.bbox = outline.Rect{}
		r.nFirst = 0
		r.lines = r.lines[:0]
	} else {
		r.lines = r.lines[:r.nFirst]
	}

	if !path.InRange() {
		return ErrOutOfRange
	}

	start := 0
	cur := 0
	for i := 0; i < len(path.Segments); i++ {
		n := int(path.Segments[i]) & outline.CountMask
		cur += n
		end := cur
		isEnd := path.Segments[i]&outline.ContourEnd != 0
		if isEnd {
			end = start
		}

		switch n {
		case outline.LineSegment:
			r.addLine(path.Points[cur-1], path.Points[end])
		case outline.QuadraticSpline:
			r.addQuadratic([3]outline.Point{path.Points[cur-2], path.Points[cur-1], path.Points[end]})
		case outline.CubicSpline:
			r.addCubic([4]outline.Point{path.Points[cur-3], path.Points[cur-2], path.Points[cur-1], path.Points[end]})
		default:
			return ErrMalformedOutline
		}

		if isEnd {
			start = cur
		}
	}
	if start != cur || cur != len(path.Points) {
		return ErrMalformedOutline
	}

	first := 0
	if extra {
		first = r.nFirst
	}
	updateBBox(&r.bbox, r.lines[first:], first == 0 && !extra)

	if !extra {
		r.nFirst = len(r.lines)
	}
	return nil
}

// BBox returns the 26.6 bounding box accumulated by the most recent
// SetOutline call(s).
func (r *Rasterizer) BBox() outline.Rect {
	return r.bbox
}

// updateBBox grows box to cover every line's rectangle. reset
// reinitializes box from the first line instead of unioning with a
// possibly-stale previous value.
func updateBBox(box *outline.Rect, lines []segment, reset bool) {
	if len(lines) == 0 {
		return
	}
	if reset {
		*box = outline.Rect{X1: lines[0].xMin, Y1: lines[0].yMin, X2: lines[0].xMax, Y2: lines[0].yMax}
		lines = lines[1:]
	}
	for _, l := range lines {
		box.X1 = min32(box.X1, l.xMin)
		box.Y1 = min32(box.Y1, l.yMin)
		box.X2 = max32(box.X2, l.xMax)
		box.Y2 = max32(box.Y2, l.yMax)
	}
}
