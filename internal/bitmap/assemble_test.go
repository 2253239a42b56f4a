package bitmap

import "testing"

func fill(bm *Bitmap, v byte) {
	for y := 0; y < bm.H; y++ {
		row := bm.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}

func TestAddIntoSaturates(t *testing.T) {
	dst := New(2, 2)
	fill(dst, 200)
	src := New(2, 2)
	fill(src, 100)
	dst.AddInto(src)
	for y := 0; y < 2; y++ {
		for x, v := range dst.Row(y) {
			if v != 255 {
				t.Fatalf("AddInto(%d,%d) = %d, want 255 (saturated)", x, y, v)
			}
		}
	}
}

func TestAddIntoOffsetPlacement(t *testing.T) {
	dst := New(4, 4)
	dst.Left, dst.Top = 0, 0
	src := New(2, 2)
	src.Left, src.Top = 2, 2
	fill(src, 50)
	dst.AddInto(src)
	if dst.Row(2)[2] != 50 || dst.Row(3)[3] != 50 {
		t.Fatalf("AddInto placed src at wrong offset")
	}
	if dst.Row(0)[0] != 0 {
		t.Fatalf("AddInto touched pixels outside src's placement")
	}
}

func TestUnion(t *testing.T) {
	a := New(10, 10)
	a.Left, a.Top = 0, 0
	b := New(5, 5)
	b.Left, b.Top = 8, -2
	left, top, w, h := Union(a, b, nil)
	if left != 0 || top != -2 || w != 13 || h != 12 {
		t.Fatalf("Union = (%d,%d,%d,%d), want (0,-2,13,12)", left, top, w, h)
	}
}

func TestBeBlurGrowsBorder(t *testing.T) {
	bm := New(4, 4)
	fill(bm, 255)
	bm.Left, bm.Top = 10, 10
	bm.BeBlur(2)
	if bm.W != 8 || bm.H != 8 {
		t.Fatalf("BeBlur(2) size = %dx%d, want 8x8", bm.W, bm.H)
	}
	if bm.Left != 8 || bm.Top != 8 {
		t.Fatalf("BeBlur(2) placement = (%d,%d), want (8,8)", bm.Left, bm.Top)
	}
}

func TestAlphaMultiply(t *testing.T) {
	fillBm := New(2, 2)
	fill(fillBm, 255)
	mask := New(2, 2)
	mask.Row(0)[0] = 255
	mask.Row(0)[1] = 0
	mask.Row(1)[0] = 128
	mask.Row(1)[1] = 64
	fillBm.AlphaMultiply(mask)
	want := [2][2]byte{{255, 0}, {128, 64}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if fillBm.Row(y)[x] != want[y][x] {
				t.Fatalf("AlphaMultiply(%d,%d) = %d, want %d", x, y, fillBm.Row(y)[x], want[y][x])
			}
		}
	}
}

func TestShiftSubpixelIntegerOnly(t *testing.T) {
	bm := New(2, 2)
	bm.Left, bm.Top = 5, 5
	bm.ShiftSubpixel(3<<6, -2<<6)
	if bm.Left != 8 || bm.Top != 3 {
		t.Fatalf("ShiftSubpixel integer shift = (%d,%d), want (8,3)", bm.Left, bm.Top)
	}
}

func TestShiftSubpixelNegativeFraction(t *testing.T) {
	bm := New(4, 4)
	fill(bm, 200)
	bm.ShiftSubpixel(-1, -1)
	if bm.Left != -1 || bm.Top != -1 {
		t.Fatalf("ShiftSubpixel(-1,-1) placement = (%d,%d), want (-1,-1)", bm.Left, bm.Top)
	}
	if bm.W != 5 || bm.H != 5 {
		t.Fatalf("ShiftSubpixel with fraction should grow by 1, got %dx%d", bm.W, bm.H)
	}
}

func TestSplitX(t *testing.T) {
	bm := New(4, 2)
	fill(bm, 10)
	left, right := bm.SplitX(3)
	if left == nil || right == nil {
		t.Fatalf("SplitX(3) on a width-4 bitmap should split into two nonempty halves")
	}
	if left.W != 3 || right.W != 1 {
		t.Fatalf("SplitX(3) widths = %d,%d, want 3,1", left.W, right.W)
	}
	if right.Left != bm.Left+3 {
		t.Fatalf("SplitX right.Left = %d, want %d", right.Left, bm.Left+3)
	}

	l0, r0 := bm.SplitX(0)
	if l0 != nil || r0 != bm {
		t.Fatalf("SplitX(0) should return (nil, bm)")
	}
	l1, r1 := bm.SplitX(4)
	if l1 != bm || r1 != nil {
		t.Fatalf("SplitX(W) should return (bm, nil)")
	}
}

func TestClipToFrame(t *testing.T) {
	bm := New(4, 4)
	fill(bm, 77)
	bm.Left, bm.Top = -2, -2
	ok := bm.ClipToFrame(10, 10)
	if !ok {
		t.Fatalf("ClipToFrame reported no visible pixels for a bitmap overlapping the frame")
	}
	if bm.Left != 0 || bm.Top != 0 || bm.W != 2 || bm.H != 2 {
		t.Fatalf("ClipToFrame = (%d,%d,%d,%d), want (0,0,2,2)", bm.Left, bm.Top, bm.W, bm.H)
	}

	off := New(2, 2)
	off.Left, off.Top = 100, 100
	if off.ClipToFrame(10, 10) {
		t.Fatalf("ClipToFrame should report false for a bitmap entirely outside the frame")
	}
}

func noopBlur(bm *Bitmap, r2 float64) {}

func TestAssembleShadowSourceSelection(t *testing.T) {
	fillBm := New(2, 2)
	fillBm.Left, fillBm.Top = 0, 0
	outlineBm := New(2, 2)
	outlineBm.Left, outlineBm.Top = -1, -1

	_, _, shadow := Assemble(Run{
		Fills: []*Bitmap{fillBm}, Outlines: []*Bitmap{outlineBm},
		BorderStyle: 1, WantShadow: true,
	}, noopBlur)
	if shadow == nil {
		t.Fatalf("Assemble with an outline present should derive shadow from it")
	}

	_, _, shadow2 := Assemble(Run{
		Fills: []*Bitmap{fillBm}, Outlines: []*Bitmap{outlineBm},
		BorderStyle: 3, WantShadow: true,
	}, noopBlur)
	if shadow2 == nil {
		t.Fatalf("Assemble with BorderStyle 3 should derive shadow from fill")
	}

	_, _, noShadow := Assemble(Run{Fills: []*Bitmap{fillBm}, WantShadow: false}, noopBlur)
	if noShadow != nil {
		t.Fatalf("Assemble with WantShadow false should return a nil shadow")
	}
}
