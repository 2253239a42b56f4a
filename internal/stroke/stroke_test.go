package stroke

import (
	"math"
	"testing"

	"github.com/go-ass/asscore/internal/outline"
)

// circle approximates an origin-centered circle of radius r (26.6 fixed
// point) with four cubic splines, the standard 4-arc Bezier circle.
func circle(r int32) *outline.Outline {
	const k = 0.5522847498 // 4/3 * (sqrt(2) - 1)
	o := outline.New()
	kr := int32(k * float64(r))

	o.AddPoint(outline.Point{X: r, Y: 0}, 0)
	o.AddPoint(outline.Point{X: r, Y: kr}, 0)
	o.AddPoint(outline.Point{X: kr, Y: r}, 0)
	o.AddPoint(outline.Point{X: 0, Y: r}, outline.CubicSpline)

	o.AddPoint(outline.Point{X: -kr, Y: r}, 0)
	o.AddPoint(outline.Point{X: -r, Y: kr}, 0)
	o.AddPoint(outline.Point{X: -r, Y: 0}, outline.CubicSpline)

	o.AddPoint(outline.Point{X: -r, Y: -kr}, 0)
	o.AddPoint(outline.Point{X: -kr, Y: -r}, 0)
	o.AddPoint(outline.Point{X: 0, Y: -r}, outline.CubicSpline)

	o.AddPoint(outline.Point{X: kr, Y: -r}, 0)
	o.AddPoint(outline.Point{X: r, Y: -kr}, 0)
	o.AddPoint(outline.Point{X: r, Y: 0}, outline.CubicSpline)
	o.CloseContour()
	return o
}

// maxRadius measures on-curve points only (each segment's first point):
// the control points of a Bezier circle lie outside the curve itself.
func maxRadius(o *outline.Outline) float64 {
	m := 0.0
	idx := 0
	for _, seg := range o.Segments {
		p := o.Points[idx]
		idx += int(seg & outline.CountMask)
		d := math.Hypot(float64(p.X), float64(p.Y))
		if d > m {
			m = d
		}
	}
	return m
}

func minRadius(o *outline.Outline) float64 {
	m := math.Inf(1)
	for _, p := range o.Points {
		d := math.Hypot(float64(p.X), float64(p.Y))
		if d < m {
			m = d
		}
	}
	return m
}

func TestStrokeCircleSymmetry(t *testing.T) {
	const R = 100 * 64 // 100px in 26.6
	const bord = 10 * 64
	const eps = 4 // sub-pixel precision, 26.6

	src := circle(R)
	outer, inner, err := Stroke(src, bord, bord, eps)
	if err != nil {
		t.Fatalf("Stroke: %v", err)
	}

	tol := float64(eps) / 1 // a few units of slack beyond the nominal eps
	tol *= 8

	gotOuter := maxRadius(outer)
	wantOuter := float64(R + bord)
	if math.Abs(gotOuter-wantOuter) > tol {
		t.Errorf("outer radius = %v, want %v +/- %v", gotOuter, wantOuter, tol)
	}

	gotInner := minRadius(inner)
	wantInner := float64(R - bord)
	if math.Abs(gotInner-wantInner) > tol {
		t.Errorf("inner radius = %v, want %v +/- %v", gotInner, wantInner, tol)
	}
}

func TestStrokeClosureInvariant(t *testing.T) {
	src := circle(64 * 50)
	outer, inner, err := Stroke(src, 5*64, 5*64, 4)
	if err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	for _, o := range []*outline.Outline{outer, inner} {
		if len(o.Segments) == 0 {
			t.Fatal("expected non-empty segments")
		}
		last := o.Segments[len(o.Segments)-1]
		if last&outline.ContourEnd == 0 {
			t.Error("last segment must carry ContourEnd")
		}
		total := 0
		for _, seg := range o.Segments {
			total += int(seg & outline.CountMask)
		}
		if total != len(o.Points) {
			t.Errorf("sum of segment orders = %d, want n_points = %d", total, len(o.Points))
		}
	}
}

func TestStrokeRejectsOutOfRange(t *testing.T) {
	o := outline.New()
	o.AddPoint(outline.Point{X: outline.Max + 1, Y: 0}, 0)
	o.AddPoint(outline.Point{X: 0, Y: outline.Max}, outline.LineSegment)
	o.CloseContour()

	if _, _, err := Stroke(o, 64, 64, 4); err != ErrOutOfRange {
		t.Errorf("Stroke with out-of-range point: err = %v, want ErrOutOfRange", err)
	}
}
