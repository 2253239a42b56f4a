package blur

import (
	"testing"

	"github.com/go-ass/asscore/internal/bitmap"
)

func solidSquare(size int, v byte) *bitmap.Bitmap {
	bm := bitmap.New(size, size)
	for y := 0; y < size; y++ {
		row := bm.Row(y)
		for x := range row {
			row[x] = v
		}
	}
	return bm
}

func sum(bm *bitmap.Bitmap) int64 {
	var s int64
	for y := 0; y < bm.H; y++ {
		for _, v := range bm.Row(y) {
			s += int64(v)
		}
	}
	return s
}

func TestBlurNoopForZeroRadius(t *testing.T) {
	bm := solidSquare(20, 200)
	before := sum(bm)
	Blur(bm, 0)
	if got := sum(bm); got != before {
		t.Errorf("r2<=0 should leave the bitmap untouched, sum changed %d -> %d", before, got)
	}
	if bm.W != 20 || bm.H != 20 {
		t.Errorf("r2<=0 should not resize the bitmap, got %dx%d", bm.W, bm.H)
	}
}

func TestBlurGrowsBitmapAndShiftsPlacement(t *testing.T) {
	bm := solidSquare(20, 200)
	bm.Left, bm.Top = 50, 60
	Blur(bm, 4.0)

	if bm.W <= 20 || bm.H <= 20 {
		t.Errorf("blur should grow the bitmap to accommodate its halo, got %dx%d", bm.W, bm.H)
	}
	if bm.Left >= 50 || bm.Top >= 60 {
		t.Errorf("blur should shift the placement left/up by the halo, got (%d,%d)", bm.Left, bm.Top)
	}
}

// TestBlurApproximatelyConservesMass checks the cascade's rough
// normalization: blurring redistributes coverage but shouldn't inflate or
// collapse its total by a large factor (the tighter tolerance the
// coefficient fit targets is only meaningful at floating point; this
// just guards against a dropped or doubled stage).
func TestBlurApproximatelyConservesMass(t *testing.T) {
	for _, r2 := range []float64{0.3, 1.0, 3.0, 8.0, 30.0} {
		bm := solidSquare(40, 255)
		before := sum(bm)
		Blur(bm, r2)
		after := sum(bm)
		if after < before/2 || after > before*2 {
			t.Errorf("r2=%v: blurred sum %d too far from original %d", r2, after, before)
		}
	}
}

func TestBlurLargeRadiusUsesCascadeLevels(t *testing.T) {
	bm := solidSquare(10, 255)
	Blur(bm, 40.0)
	if bm.W <= 10 {
		t.Errorf("a large-radius blur should still grow the bitmap, got w=%d", bm.W)
	}
}
