package outline

import "testing"

func square() *Outline {
	o := New()
	o.AddPoint(Point{X: 0, Y: 0}, 0)
	o.AddPoint(Point{X: 64, Y: 0}, LineSegment)
	o.AddPoint(Point{X: 64, Y: 64}, LineSegment)
	o.AddPoint(Point{X: 0, Y: 64}, LineSegment)
	o.AddSegment(LineSegment)
	o.CloseContour()
	return o
}

func TestAddPointAndSegment(t *testing.T) {
	o := square()
	if len(o.Points) != 4 {
		t.Fatalf("n_points = %d, want 4", len(o.Points))
	}
	if len(o.Segments) != 4 {
		t.Fatalf("n_segments = %d, want 4", len(o.Segments))
	}
	last := o.Segments[len(o.Segments)-1]
	if last&ContourEnd == 0 {
		t.Error("last segment should carry ContourEnd")
	}
	if last&CountMask != LineSegment {
		t.Errorf("last segment order = %d, want %d", last&CountMask, LineSegment)
	}
}

func TestCloseContourRequiresSegment(t *testing.T) {
	o := New()
	if err := o.CloseContour(); err != ErrNoSegments {
		t.Errorf("CloseContour on empty outline = %v, want ErrNoSegments", err)
	}
}

func TestTranslate(t *testing.T) {
	o := square()
	o.Translate(10, -5)
	want := []Point{{X: 10, Y: -5}, {X: 74, Y: -5}, {X: 74, Y: 59}, {X: 10, Y: 59}}
	for i, p := range want {
		if o.Points[i] != p {
			t.Errorf("point %d = %+v, want %+v", i, o.Points[i], p)
		}
	}
}

func TestAdjustUnityScaleIsTranslate(t *testing.T) {
	a := square()
	b := square()
	a.Adjust(0x10000, 3, 7)
	b.Translate(3, 7)
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Errorf("point %d = %+v, want %+v", i, a.Points[i], b.Points[i])
		}
	}
}

func TestAdjustScalesXOnly(t *testing.T) {
	o := square()
	o.Adjust(0x18000, 0, 0) // scale 1.5x
	if o.Points[1].X != 96 {
		t.Errorf("scaled X = %d, want 96", o.Points[1].X)
	}
	if o.Points[2].Y != 64 {
		t.Errorf("Y should be untouched by X scale, got %d", o.Points[2].Y)
	}
}

func TestGetCBoxEmpty(t *testing.T) {
	o := New()
	box := o.GetCBox()
	if box != (Rect{}) {
		t.Errorf("empty outline cbox = %+v, want zero rect", box)
	}
}

func TestGetCBox(t *testing.T) {
	o := square()
	box := o.GetCBox()
	want := Rect{X1: 0, Y1: 0, X2: 64, Y2: 64}
	if box != want {
		t.Errorf("cbox = %+v, want %+v", box, want)
	}
}

func TestCopy(t *testing.T) {
	src := square()
	dst := New()
	if err := dst.Copy(src); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if len(dst.Points) != len(src.Points) || len(dst.Segments) != len(src.Segments) {
		t.Fatalf("copy size mismatch")
	}
	dst.Points[0].X = 999
	if src.Points[0].X == 999 {
		t.Error("Copy should be a deep copy, not share backing array")
	}
}

func TestCopyEmptySource(t *testing.T) {
	dst := square()
	if err := dst.Copy(nil); err != nil {
		t.Fatalf("Copy(nil): %v", err)
	}
	if len(dst.Points) != 0 || len(dst.Segments) != 0 {
		t.Error("Copy(nil) should clear the destination")
	}
}

func TestInRange(t *testing.T) {
	o := square()
	if !o.InRange() {
		t.Error("square should be in range")
	}
	o.Points[0].X = Max + 1
	if o.InRange() {
		t.Error("point beyond Max should fail InRange")
	}
}

func TestConvertFromFontOutlineTriangle(t *testing.T) {
	src := &FontOutlineSource{
		Points: []Point{
			{X: 0, Y: 0},
			{X: 64, Y: 0},
			{X: 0, Y: 64},
		},
		Tags:     []byte{1, 1, 1}, // all on-curve
		Contours: []int{2},
	}
	o := New()
	if err := o.ConvertFromFontOutline(src); err != nil {
		t.Fatalf("ConvertFromFontOutline: %v", err)
	}
	if len(o.Points) != 3 {
		t.Fatalf("n_points = %d, want 3", len(o.Points))
	}
	if len(o.Segments) != 3 {
		t.Fatalf("n_segments = %d, want 3", len(o.Segments))
	}
	// Y is flipped on conversion.
	if o.Points[1].Y != 0 || o.Points[2].Y != -64 {
		t.Errorf("Y flip not applied: %+v", o.Points)
	}
}

func TestConvertFromFontOutlineSkipsDegenerateContour(t *testing.T) {
	src := &FontOutlineSource{
		Points:   []Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		Tags:     []byte{1, 1},
		Contours: []int{1},
	}
	o := New()
	if err := o.ConvertFromFontOutline(src); err != nil {
		t.Fatalf("ConvertFromFontOutline: %v", err)
	}
	if len(o.Points) != 0 || len(o.Segments) != 0 {
		t.Error("2-point contour should be skipped as degenerate")
	}
}

func TestConvertFromFontOutlineEmpty(t *testing.T) {
	o := square()
	if err := o.ConvertFromFontOutline(nil); err != nil {
		t.Fatalf("ConvertFromFontOutline(nil): %v", err)
	}
	if len(o.Points) != 0 {
		t.Error("nil source should clear the outline")
	}
}
