package asscore

import (
	"testing"

	"github.com/go-ass/asscore/internal/color"
	"github.com/go-ass/asscore/internal/outline"
)

func newTestTrack() *Track {
	g := &Glyph{
		Drawing: "m 0 0 l 50 0 50 50 0 50 z",
		Pos:     outline.Point{X: 10 << 6, Y: 10 << 6},
		Style: GlyphStyle{
			FillColor:      color.NewRGBA8(255, 255, 255, 0),
			SecondaryColor: color.NewRGBA8(255, 255, 255, 0),
			ScaleX:         1 << 16, ScaleY: 1 << 16,
			BorderStyle: 1,
		},
	}
	return &Track{Events: []Event{{
		StartMS: 0, DurationMS: 1000, Layer: 0,
		Text:             TextLayout{Glyphs: []*Glyph{g}},
		DetectCollisions: true,
	}}}
}

func TestRenderFrameRepeatsIdentically(t *testing.T) {
	settings, err := NewRenderSettings(200, 200)
	if err != nil {
		t.Fatalf("NewRenderSettings: %v", err)
	}
	r := New(settings, nil, nil)
	track := newTestTrack()

	frags, _ := r.RenderFrame(track, 0)
	if len(frags) == 0 {
		t.Fatalf("RenderFrame produced no fragments for a visible drawing glyph")
	}

	_, kind := r.RenderFrame(track, 0)
	if kind != ChangeIdentical {
		t.Fatalf("second RenderFrame at the same timestamp reported %v, want identical", kind)
	}
}

func TestRenderFrameSkipsInactiveEvents(t *testing.T) {
	settings, err := NewRenderSettings(200, 200)
	if err != nil {
		t.Fatalf("NewRenderSettings: %v", err)
	}
	r := New(settings, nil, nil)
	track := newTestTrack()

	frags, _ := r.RenderFrame(track, 5000)
	if len(frags) != 0 {
		t.Fatalf("RenderFrame at a timestamp past every event's duration produced %d fragments, want 0", len(frags))
	}
}

func TestCutCachesDoesNotPanicOnEmptyCaches(t *testing.T) {
	settings, err := NewRenderSettings(200, 200)
	if err != nil {
		t.Fatalf("NewRenderSettings: %v", err)
	}
	r := New(settings, nil, nil)
	r.CutCaches(0, 0)
}
