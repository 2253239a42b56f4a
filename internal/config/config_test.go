package config

import "testing"

func TestNewDefaults(t *testing.T) {
	s, err := New(1920, 1080)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.StorageWidth != 1920 || s.StorageHeight != 1080 {
		t.Errorf("storage size should default to frame size, got %dx%d", s.StorageWidth, s.StorageHeight)
	}
	if s.Hinting != HintingNormal {
		t.Errorf("default hinting = %v, want normal", s.Hinting)
	}
	if s.FontScale != 1.0 {
		t.Errorf("default font scale = %v, want 1.0", s.FontScale)
	}
	if s.DefaultFamily != "sans-serif" {
		t.Errorf("default family = %q, want sans-serif", s.DefaultFamily)
	}
}

func TestNewRejectsNonPositiveFrame(t *testing.T) {
	if _, err := New(0, 1080); err == nil {
		t.Error("expected error for zero frame width")
	}
	if _, err := New(1920, -1); err == nil {
		t.Error("expected error for negative frame height")
	}
}

func TestWithStorageSize(t *testing.T) {
	s, err := New(1280, 720, WithStorageSize(384, 288))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.StorageWidth != 384 || s.StorageHeight != 288 {
		t.Errorf("storage size = %dx%d, want 384x288", s.StorageWidth, s.StorageHeight)
	}
}

func TestWithMarginsAllowsNegative(t *testing.T) {
	s, err := New(1280, 720, WithMargins(-10, -10, 20))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.MarginL != -10 || s.MarginR != -10 || s.MarginV != 20 {
		t.Errorf("margins = %d,%d,%d", s.MarginL, s.MarginR, s.MarginV)
	}
}

func TestResolvedPARExplicit(t *testing.T) {
	s, err := New(1920, 1080, WithPixelAspectRatio(1.5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.ResolvedPAR(); got != 1.5 {
		t.Errorf("ResolvedPAR() = %v, want 1.5", got)
	}
}

func TestResolvedPARDerived(t *testing.T) {
	s, err := New(1920, 1080, WithStorageSize(384, 288))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	frameAR := 1920.0 / 1080.0
	storageAR := 384.0 / 288.0
	want := frameAR / storageAR
	if got := s.ResolvedPAR(); got != want {
		t.Errorf("ResolvedPAR() = %v, want %v", got, want)
	}
}

func TestNewRejectsNegativeFontScale(t *testing.T) {
	if _, err := New(1920, 1080, WithFontScale(-0.5)); err == nil {
		t.Error("expected error for negative font scale")
	}
}

func TestWithOverrides(t *testing.T) {
	s, err := New(1920, 1080, WithOverrides(OverrideFontName|OverrideColor))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.OverrideBits&OverrideFontName == 0 || s.OverrideBits&OverrideColor == 0 {
		t.Errorf("override bits = %b, missing expected bits", s.OverrideBits)
	}
	if s.OverrideBits&OverrideBorder != 0 {
		t.Errorf("override bits = %b, unexpected border bit set", s.OverrideBits)
	}
}
