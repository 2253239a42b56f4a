// Package outline implements the canonical outline store: a flat array
// of 26.6 fixed-point points plus a parallel array of segment bytes
// describing how consecutive points join into lines, quadratic splines,
// or cubic splines.
package outline

import (
	"errors"

	"github.com/go-ass/asscore/internal/basics"
)

// Segment byte layout, matching the source format bit for bit: the low
// two bits give the spline order (number of points the segment owns),
// and ContourEnd flags the last segment of a contour.
const (
	LineSegment     = 1 // line: 1 owned point
	QuadraticSpline = 2 // quadratic: 2 owned points
	CubicSpline     = 3 // cubic: 3 owned points
	CountMask       = 3
	ContourEnd      = 4
)

// Min and Max bound every coordinate an Outline may hold, in 26.6
// fixed point. Values outside this range are rejected by consumers
// (notably the stroker) rather than silently wrapped.
const (
	Min = -(1 << 28)
	Max = (1 << 28) - 1
)

// ErrAllocFailed reports that a requested point/segment count could
// not be reserved; the outline is left untouched.
var ErrAllocFailed = errors.New("outline: allocation failed")

// ErrNoSegments reports CloseContour called with nothing to close.
var ErrNoSegments = errors.New("outline: close_contour with no segments")

// ErrMalformedOutline reports a source to Convert or Copy with an
// internally inconsistent point/segment relationship.
var ErrMalformedOutline = errors.New("outline: malformed source")

// Point is a single 26.6 fixed-point vertex.
type Point = basics.Point[int32]

// Rect is a 26.6 fixed-point bounding box.
type Rect = basics.Rect[int32]

// Outline owns a point array and a parallel segment array. Each
// segment owns a number of points equal to its spline order; the
// segment's last point is the next segment's first point, except the
// last segment of a contour, which instead closes back to that
// contour's first point.
type Outline struct {
	Points   []Point
	Segments []byte
}

// New returns an empty outline with no points or segments.
func New() *Outline {
	return &Outline{}
}

// Alloc resizes the outline's backing slices to the given capacities,
// discarding any existing content. A zero nPoints and nSegments is
// valid and yields an empty outline.
func (o *Outline) Alloc(nPoints, nSegments int) error {
	if nPoints < 0 || nSegments < 0 {
		return ErrAllocFailed
	}
	o.Points = make([]Point, 0, nPoints)
	o.Segments = make([]byte, 0, nSegments)
	return nil
}

// Copy replaces the receiver's contents with a deep copy of src. A nil
// or empty src yields an empty outline.
func (o *Outline) Copy(src *Outline) error {
	if src == nil || len(src.Points) == 0 {
		o.Points = nil
		o.Segments = nil
		return nil
	}
	if err := o.Alloc(len(src.Points), len(src.Segments)); err != nil {
		return err
	}
	o.Points = append(o.Points, src.Points...)
	o.Segments = append(o.Segments, src.Segments...)
	return nil
}

// AddPoint appends a point to the current contour. If segment is
// nonzero it is also recorded via AddSegment.
func (o *Outline) AddPoint(pt Point, segment byte) error {
	o.Points = append(o.Points, pt)
	if segment == 0 {
		return nil
	}
	return o.AddSegment(segment)
}

// AddSegment appends a segment byte.
func (o *Outline) AddSegment(segment byte) error {
	o.Segments = append(o.Segments, segment)
	return nil
}

// CloseContour marks the most recently added segment as the last
// segment of its contour.
func (o *Outline) CloseContour() error {
	if len(o.Segments) == 0 {
		return ErrNoSegments
	}
	o.Segments[len(o.Segments)-1] |= ContourEnd
	return nil
}

// Translate shifts every point by (dx, dy).
func (o *Outline) Translate(dx, dy int32) {
	for i := range o.Points {
		o.Points[i].X += dx
		o.Points[i].Y += dy
	}
}

// Adjust applies an integer X scale (16.16 fixed point) combined with a
// translation. A unity scale reduces to a plain Translate.
func (o *Outline) Adjust(scaleX16 int32, dx, dy int32) {
	if scaleX16 == 0x10000 {
		o.Translate(dx, dy)
		return
	}
	for i := range o.Points {
		x := int32((int64(o.Points[i].X) * int64(scaleX16)) >> 16)
		o.Points[i].X = x + dx
		o.Points[i].Y += dy
	}
}

// GetCBox returns the outline's axis-aligned control-point bounding
// box. An empty outline yields the zero rectangle.
func (o *Outline) GetCBox() Rect {
	if len(o.Points) == 0 {
		return Rect{}
	}
	box := Rect{X1: o.Points[0].X, Y1: o.Points[0].Y, X2: o.Points[0].X, Y2: o.Points[0].Y}
	for _, p := range o.Points[1:] {
		if p.X < box.X1 {
			box.X1 = p.X
		}
		if p.X > box.X2 {
			box.X2 = p.X
		}
		if p.Y < box.Y1 {
			box.Y1 = p.Y
		}
		if p.Y > box.Y2 {
			box.Y2 = p.Y
		}
	}
	return box
}

// InRange reports whether every point of the outline lies within
// [Min, Max] on both axes, the precondition the stroker enforces
// before offsetting.
func (o *Outline) InRange() bool {
	for _, p := range o.Points {
		if p.X < Min || p.X > Max || p.Y < Min || p.Y > Max {
			return false
		}
	}
	return true
}

// FontOutlineSource describes a single contour of an externally
// produced font outline: a sequence of points with FreeType-style
// on-curve/conic/cubic tags, terminated at index End (inclusive).
type FontOutlineSource struct {
	// Points and Tags are parallel full-glyph arrays; Contours gives,
	// for each contour, the index of its last point (FreeType's own
	// "end points of contours" convention).
	Points   []Point
	Tags     []byte
	Contours []int
}

// FreeType on-curve tag convention, mirrored here rather than imported
// since font parsing itself is out of scope: bit 0 set means on-curve,
// bit 1 set (with bit 0 clear) means cubic control point, otherwise
// conic control point.
const (
	tagOn    = 0x1
	tagCubic = 0x2
)

func curveTag(tag byte) int {
	switch {
	case tag&tagOn != 0:
		return 0 // on-curve
	case tag&tagCubic != 0:
		return 2 // cubic control
	default:
		return 1 // conic control
	}
}

// ConvertFromFontOutline walks a font-library contour description
// (on-curve/off-curve/conic/cubic tags per point) and emits the
// canonical segment form, flipping Y (y -> -y) as it goes. Degenerate
// contours (fewer than 3 points) are skipped; malformed tag sequences
// leave the outline unallocated and return an error.
func (o *Outline) ConvertFromFontOutline(src *FontOutlineSource) (err error) {
	defer func() {
		if err != nil {
			o.Points, o.Segments = nil, nil
		}
	}()
	if src == nil || len(src.Points) == 0 {
		o.Points = nil
		o.Segments = nil
		return nil
	}

	const (
		sOn = iota
		sQ
		sC1
		sC2
	)

	if err := o.Alloc(2*len(src.Points), len(src.Points)); err != nil {
		return err
	}

	j := 0
	for _, last := range src.Contours {
		if j > last || last >= len(src.Points) {
			return ErrMalformedOutline
		}
		if last-j < 2 {
			j = last + 1
			continue
		}

		var st int
		var pt Point
		skipLast := false

		switch curveTag(src.Tags[j]) {
		case 0:
			st = sOn
		case 1:
			pt = Point{X: src.Points[last].X, Y: -src.Points[last].Y}
			switch curveTag(src.Tags[last]) {
			case 0:
				skipLast = true
			case 1:
				pt.X = (pt.X + src.Points[j].X) >> 1
				pt.Y = (pt.Y - src.Points[j].Y) >> 1
			default:
				return ErrMalformedOutline
			}
			o.Points = append(o.Points, pt)
			st = sQ
		default:
			return ErrMalformedOutline
		}

		pt = Point{X: src.Points[j].X, Y: -src.Points[j].Y}
		o.Points = append(o.Points, pt)

		for j++; j <= last; j++ {
			switch curveTag(src.Tags[j]) {
			case 0:
				switch st {
				case sOn:
					o.Segments = append(o.Segments, LineSegment)
				case sQ:
					o.Segments = append(o.Segments, QuadraticSpline)
				case sC2:
					o.Segments = append(o.Segments, CubicSpline)
				default:
					return ErrMalformedOutline
				}
				st = sOn
			case 1:
				switch st {
				case sOn:
					st = sQ
				case sQ:
					o.Segments = append(o.Segments, QuadraticSpline)
					pt.X = (pt.X + src.Points[j].X) >> 1
					pt.Y = (pt.Y - src.Points[j].Y) >> 1
					o.Points = append(o.Points, pt)
				default:
					return ErrMalformedOutline
				}
			case 2:
				switch st {
				case sOn:
					st = sC1
				case sC1:
					st = sC2
				default:
					return ErrMalformedOutline
				}
			}
			pt = Point{X: src.Points[j].X, Y: -src.Points[j].Y}
			o.Points = append(o.Points, pt)
		}

		switch st {
		case sOn:
			if skipLast {
				o.Points = o.Points[:len(o.Points)-1]
				break
			}
			o.Segments = append(o.Segments, LineSegment)
		case sQ:
			o.Segments = append(o.Segments, QuadraticSpline)
		case sC2:
			o.Segments = append(o.Segments, CubicSpline)
		default:
			return ErrMalformedOutline
		}
		o.Segments[len(o.Segments)-1] |= ContourEnd
		j = last + 1
	}

	return nil
}
