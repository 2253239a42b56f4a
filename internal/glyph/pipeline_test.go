package glyph

import (
	"testing"

	"github.com/go-ass/asscore/internal/outline"
	"github.com/go-ass/asscore/internal/raster"
	"github.com/go-ass/asscore/internal/transform3d"
)

type stubSource struct {
	calls int
}

func (s *stubSource) GlyphOutline(fontID, faceIndex, glyphIndex int, size int32, bold, italic bool) (*outline.FontOutlineSource, error) {
	s.calls++
	return &outline.FontOutlineSource{
		Points:   []outline.Point{{X: 0, Y: 0}, {X: 20 << 6, Y: 0}, {X: 10 << 6, Y: 20 << 6}},
		Tags:     []byte{1, 1, 1},
		Contours: []int{2},
	}, nil
}

func (s *stubSource) GlyphAdvance(fontID, faceIndex, glyphIndex int, size int32) (int32, error) {
	return 20 << 6, nil
}

func newTestPipeline() (*Pipeline, *stubSource) {
	r := raster.New(5, 4)
	src := &stubSource{}
	return NewPipeline(r, src, nil, nil), src
}

func TestGetOutlineCachesByKey(t *testing.T) {
	p, src := newTestPipeline()
	key := OutlineKey{FontID: 1, GlyphIndex: 'A', Size: 20 << 6, ScaleX: 1 << 16, ScaleY: 1 << 16}

	if _, err := p.GetOutline(key); err != nil {
		t.Fatalf("GetOutline miss: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected one source call after first GetOutline, got %d", src.calls)
	}
	if _, err := p.GetOutline(key); err != nil {
		t.Fatalf("GetOutline hit: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected no additional source call on a cache hit, got %d total calls", src.calls)
	}

	key2 := key
	key2.GlyphIndex = 'B'
	if _, err := p.GetOutline(key2); err != nil {
		t.Fatalf("GetOutline miss for a different key: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected a second source call for a distinct key, got %d", src.calls)
	}
}

func TestGetOutlineStrokedBorder(t *testing.T) {
	p, _ := newTestPipeline()
	key := OutlineKey{FontID: 1, GlyphIndex: 'A', Size: 20 << 6, ScaleX: 1 << 16, ScaleY: 1 << 16, OutlineX: 2 << 6, OutlineY: 2 << 6}
	ov, err := p.GetOutline(key)
	if err != nil {
		t.Fatalf("GetOutline: %v", err)
	}
	if ov.Border[0] == nil {
		t.Fatalf("a nonzero outline border should produce a stroked Border[0]")
	}
}

func TestGetOutlineOpaqueBoxBorder(t *testing.T) {
	p, _ := newTestPipeline()
	key := OutlineKey{FontID: 1, GlyphIndex: 'A', Size: 20 << 6, ScaleX: 1 << 16, ScaleY: 1 << 16, BorderStyle: 3}
	ov, err := p.GetOutline(key)
	if err != nil {
		t.Fatalf("GetOutline: %v", err)
	}
	if ov.Border[0] == nil {
		t.Fatalf("BorderStyle 3 should synthesize a box border")
	}
	if ov.Border[1] != nil {
		t.Fatalf("BorderStyle 3's box border has no inner outline")
	}
}

func TestGetBitmapCachesByKey(t *testing.T) {
	p, _ := newTestPipeline()
	okey := OutlineKey{FontID: 1, GlyphIndex: 'A', Size: 20 << 6, ScaleX: 1 << 16, ScaleY: 1 << 16}
	ov, err := p.GetOutline(okey)
	if err != nil {
		t.Fatalf("GetOutline: %v", err)
	}

	bkey := BitmapKey{Outline: okey}
	bv1, err := p.GetBitmap(bkey, ov, transform3d.Params{BlurScale: 1}, 0, 0)
	if err != nil {
		t.Fatalf("GetBitmap miss: %v", err)
	}
	bv2, err := p.GetBitmap(bkey, ov, transform3d.Params{BlurScale: 1}, 0, 0)
	if err != nil {
		t.Fatalf("GetBitmap hit: %v", err)
	}
	if bv1 != bv2 {
		t.Fatalf("GetBitmap with an identical key should return the same cached value pointer")
	}
	if bv1.Fill == nil {
		t.Fatalf("GetBitmap should produce a fill bitmap for a nonempty outline")
	}
}
