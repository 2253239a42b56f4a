package raster

import (
	"testing"

	"github.com/go-ass/asscore/internal/outline"
)

// square builds an axis-aligned size x size square outline (26.6 fixed
// point units) with its bottom-left corner at the origin.
func square(size int32) *outline.Outline {
	o := outline.New()
	o.AddPoint(outline.Point{X: 0, Y: 0}, 0)
	o.AddPoint(outline.Point{X: size, Y: 0}, outline.LineSegment)
	o.AddPoint(outline.Point{X: size, Y: size}, outline.LineSegment)
	o.AddPoint(outline.Point{X: 0, Y: size}, outline.LineSegment)
	o.AddSegment(outline.LineSegment)
	o.CloseContour()
	return o
}

func rasterizeSquare(t *testing.T, sizePx int32) (buf []byte, w, h, stride int) {
	t.Helper()
	r := New(5, 4) // 32px tiles
	if err := r.SetOutline(square(sizePx*64), false); err != nil {
		t.Fatalf("SetOutline: %v", err)
	}
	w, h, stride = 64, 64, 64
	buf = make([]byte, w*h)
	r.Fill(buf, 0, 0, w, h, stride)
	return buf, w, h, stride
}

func TestRasterizerBoundingBoxContainment(t *testing.T) {
	const sizePx = 20
	buf, w, h, stride := rasterizeSquare(t, sizePx)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := buf[y*stride+x]
			if v != 0 && (x > sizePx || y > sizePx) {
				t.Fatalf("nonzero pixel (%d) outside the outline's footprint at (%d,%d)", v, x, y)
			}
		}
	}

	if buf[(sizePx/2)*stride+sizePx/2] != 255 {
		t.Errorf("interior pixel should be fully covered, got %d", buf[(sizePx/2)*stride+sizePx/2])
	}
}

func sumAlpha(buf []byte) int {
	s := 0
	for _, v := range buf {
		s += int(v)
	}
	return s
}

func TestRasterizerMonotonicity(t *testing.T) {
	small, _, _, _ := rasterizeSquare(t, 10)
	large, _, _, _ := rasterizeSquare(t, 20)

	if got, want := sumAlpha(large), sumAlpha(small); got <= want {
		t.Errorf("sum(alpha) for the larger square = %d, want > %d (the smaller square's sum)", got, want)
	}
}

func TestRasterizerSetOutlineRejectsOutOfRange(t *testing.T) {
	o := outline.New()
	o.AddPoint(outline.Point{X: outline.Max + 1, Y: 0}, 0)
	o.AddPoint(outline.Point{X: 0, Y: 64}, outline.LineSegment)
	o.CloseContour()

	r := New(5, 4)
	if err := r.SetOutline(o, false); err != ErrOutOfRange {
		t.Errorf("SetOutline with out-of-range point: err = %v, want ErrOutOfRange", err)
	}
}

func TestRasterizerEmptyOutlineFillsNothing(t *testing.T) {
	r := New(5, 4)
	if err := r.SetOutline(outline.New(), false); err != nil {
		t.Fatalf("SetOutline: %v", err)
	}
	buf := make([]byte, 64*64)
	r.Fill(buf, 0, 0, 64, 64, 64)
	if sumAlpha(buf) != 0 {
		t.Errorf("empty outline should rasterize to all zero, got sum %d", sumAlpha(buf))
	}
}
