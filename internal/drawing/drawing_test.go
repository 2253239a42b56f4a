package drawing

import "testing"

func unitParams() Params {
	return Params{ScaleX: 1, ScaleY: 1, Scale: 1, PBO: 0}
}

func TestParseSquare(t *testing.T) {
	res, err := Parse("m 0 0 l 64 0 64 64 0 64", unitParams())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Outline.Points) != 4 {
		t.Fatalf("n_points = %d, want 4", len(res.Outline.Points))
	}
	if len(res.Outline.Segments) == 0 {
		t.Fatal("expected at least one segment")
	}
	last := res.Outline.Segments[len(res.Outline.Segments)-1]
	if last&outlineContourEnd() == 0 {
		t.Error("final segment should close the contour")
	}
}

func TestParseMultipleMoveClosesPriorContour(t *testing.T) {
	res, err := Parse("m 0 0 l 10 0 10 10 m 20 20 l 30 20 30 30", unitParams())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	closedCount := 0
	for _, seg := range res.Outline.Segments {
		if seg&outlineContourEnd() != 0 {
			closedCount++
		}
	}
	if closedCount != 2 {
		t.Errorf("closed contours = %d, want 2", closedCount)
	}
}

func TestParseCubicConsumesThreePoints(t *testing.T) {
	res, err := Parse("m 0 0 b 10 10 20 10 30 0", unitParams())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// 1 move point + 3 cubic control/end points = 4 points, one segment.
	if len(res.Outline.Points) != 4 {
		t.Errorf("n_points = %d, want 4", len(res.Outline.Points))
	}
}

func TestParseBSplineSlidingWindow(t *testing.T) {
	// Four s-points: window (prev,0,1,2) then slides by one to (0,1,2,3),
	// producing two cubic segments instead of one.
	res, err := Parse("m 0 0 s 10 10 20 10 30 0 40 -10", unitParams())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cubics := 0
	for _, seg := range res.Outline.Segments {
		if seg&3 == 3 {
			cubics++
		}
	}
	if cubics != 2 {
		t.Errorf("cubic segments = %d, want 2 (sliding window)", cubics)
	}
}

func TestParseRepeatsCommandForTrailingCoordinatePairs(t *testing.T) {
	// A command letter stays in effect for every following coordinate
	// pair until the next letter, so "l 10 0 5 5" is two line targets.
	res, err := Parse("m 0 0 l 10 0 5 5", unitParams())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Outline.Points) != 3 {
		t.Errorf("n_points = %d, want 3 (move point + two line targets)", len(res.Outline.Points))
	}
}

func TestHashDeterministic(t *testing.T) {
	a := Hash("m 0 0 l 10 10")
	b := Hash("m 0 0 l 10 10")
	c := Hash("m 0 0 l 10 11")
	if a != b {
		t.Error("identical text should hash identically")
	}
	if a == c {
		t.Error("different text should (almost always) hash differently")
	}
}

func TestBaselineShiftAppliedAfterParse(t *testing.T) {
	p := unitParams()
	p.PBO = 5
	res, err := Parse("m 0 0 l 64 0 64 64 0 64", p)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Every point should be shifted up by the computed ascender.
	for _, pt := range res.Outline.Points {
		if pt.Y > res.Outline.GetCBox().Y2 {
			t.Errorf("point %v exceeds cbox after baseline shift", pt)
		}
	}
}

// outlineContourEnd avoids importing internal/outline's constant name
// twice under two names in this file; it mirrors outline.ContourEnd.
func outlineContourEnd() byte { return 4 }
