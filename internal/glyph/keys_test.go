package glyph

import "testing"

func TestQuantizeSubpixelRoundTrip(t *testing.T) {
	// Two positions whose fractional parts round to the same grid point
	// must produce the same key and the same re-expanded shift, so a
	// cache hit always rasterizes identically.
	base := int32(10 << 6)
	k1, s1 := QuantizeSubpixel(base + 1)
	k2, s2 := QuantizeSubpixel(base + 2)
	if k1 != k2 || s1 != s2 {
		t.Fatalf("QuantizeSubpixel(%d)=(%d,%d) != QuantizeSubpixel(%d)=(%d,%d)",
			base+1, k1, s1, base+2, k2, s2)
	}
}

func TestQuantizeSubpixelGridSpacing(t *testing.T) {
	for frac := int32(0); frac < 64; frac++ {
		key, shift := QuantizeSubpixel(frac)
		if key < 0 || key > 7 {
			t.Fatalf("QuantizeSubpixel(%d) key = %d, want [0,7]", frac, key)
		}
		if shift < 0 || shift > 63 {
			t.Fatalf("QuantizeSubpixel(%d) shift = %d, want [0,63]", frac, shift)
		}
	}
}

func TestAngleKeySign(t *testing.T) {
	if AngleKey(1.0) <= 0 {
		t.Fatalf("AngleKey(1.0) should be positive")
	}
	if AngleKey(-1.0) >= 0 {
		t.Fatalf("AngleKey(-1.0) should be negative")
	}
	if AngleKey(0) != 0 {
		t.Fatalf("AngleKey(0) should be zero, got %d", AngleKey(0))
	}
}

func TestShearKeyFixedPoint(t *testing.T) {
	if got := ShearKey(1.0); got != 1<<16 {
		t.Fatalf("ShearKey(1.0) = %d, want %d", got, 1<<16)
	}
	if got := ShearKey(-0.5); got != -(1 << 15) {
		t.Fatalf("ShearKey(-0.5) = %d, want %d", got, -(1 << 15))
	}
}
