package compose

import (
	"testing"

	"github.com/go-ass/asscore/internal/color"
	"github.com/go-ass/asscore/internal/config"
	"github.com/go-ass/asscore/internal/glyph"
	"github.com/go-ass/asscore/internal/outline"
	"github.com/go-ass/asscore/internal/raster"
)

func newTestTrack() *Track {
	g := &Glyph{
		Drawing: "m 0 0 l 100 0 100 100 0 100 z",
		Pos:     outline.Point{X: 10 << 6, Y: 10 << 6},
		Style: GlyphStyle{
			FillColor:      color.NewRGBA8(255, 255, 255, 0),
			SecondaryColor: color.NewRGBA8(255, 255, 255, 0),
			OutlineColor:   color.NewRGBA8(0, 0, 0, 0),
			ShadowColor:    color.NewRGBA8(0, 0, 0, 64),
			BorderX:        2 << 6, BorderY: 2 << 6,
			ShadowX: 2 << 6, ShadowY: 2 << 6,
			ScaleX: 1 << 16, ScaleY: 1 << 16,
			BorderStyle: 1,
		},
	}
	return &Track{Events: []Event{{
		StartMS: 0, DurationMS: 1000, Layer: 0,
		Text:             TextLayout{Glyphs: []*Glyph{g}},
		DetectCollisions: true,
	}}}
}

func newTestComposerWithPipeline(t *testing.T) *Composer {
	t.Helper()
	settings, err := config.New(200, 200)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	r := raster.New(5, 4)
	pipeline := glyph.NewPipeline(r, nil, nil, nil)
	return NewComposer(settings, pipeline, nil)
}

func TestRenderFramePaintsShadowThenOutlineThenFill(t *testing.T) {
	c := newTestComposerWithPipeline(t)
	track := newTestTrack()

	frags, _ := c.RenderFrame(track, 0)
	if len(frags) != 3 {
		t.Fatalf("RenderFrame produced %d fragments, want 3 (shadow, outline, fill)", len(frags))
	}
	if frags[0].Type != FragmentShadow {
		t.Fatalf("fragment 0 = %v, want shadow (painted first)", frags[0].Type)
	}
	if frags[1].Type != FragmentOutline {
		t.Fatalf("fragment 1 = %v, want outline", frags[1].Type)
	}
	if frags[2].Type != FragmentCharacter {
		t.Fatalf("fragment 2 = %v, want character/fill (painted last)", frags[2].Type)
	}
}

func TestRenderFrameSameTimestampIsIdentical(t *testing.T) {
	c := newTestComposerWithPipeline(t)
	track := newTestTrack()

	if _, kind := c.RenderFrame(track, 0); kind != ChangeContent {
		t.Fatalf("first RenderFrame call classified %v, want content (nothing to diff against)", kind)
	}
	if _, kind := c.RenderFrame(track, 0); kind != ChangeIdentical {
		t.Fatalf("second RenderFrame call at the same timestamp classified %v, want identical", kind)
	}
}

func TestDiffClassifiesPositionsOnlyAndContent(t *testing.T) {
	a := &ImageFragment{W: 2, H: 2, Buffer: []byte{1, 2, 3, 4}, DstX: 0, DstY: 0}
	b := &ImageFragment{W: 2, H: 2, Buffer: []byte{1, 2, 3, 4}, DstX: 1, DstY: 0}
	if kind := diff([]*ImageFragment{a}, []*ImageFragment{b}); kind != ChangePositionsOnly {
		t.Fatalf("diff with a moved, identical buffer = %v, want positions-only", kind)
	}

	c := &ImageFragment{W: 2, H: 2, Buffer: []byte{9, 9, 9, 9}, DstX: 0, DstY: 0}
	if kind := diff([]*ImageFragment{a}, []*ImageFragment{c}); kind != ChangeContent {
		t.Fatalf("diff with a changed buffer = %v, want content", kind)
	}

	if kind := diff([]*ImageFragment{a}, []*ImageFragment{a}); kind != ChangeIdentical {
		t.Fatalf("diff against itself = %v, want identical", kind)
	}
}
