package compose

import (
	"sort"

	"github.com/go-ass/asscore/internal/bitmap"
	"github.com/go-ass/asscore/internal/blur"
	"github.com/go-ass/asscore/internal/color"
	"github.com/go-ass/asscore/internal/config"
	"github.com/go-ass/asscore/internal/drawing"
	"github.com/go-ass/asscore/internal/glyph"
	"github.com/go-ass/asscore/internal/renderlog"
	"github.com/go-ass/asscore/internal/transform3d"
)

// Composer is the frame composer: one per renderer, sharing its glyph
// pipeline's caches across frames.
type Composer struct {
	Settings *config.RenderSettings
	Pipeline *glyph.Pipeline
	Log      renderlog.Logger

	clipCache map[string]*bitmap.Bitmap
	prev      []*ImageFragment
}

// NewComposer returns a Composer rendering through pipeline under
// settings. log may be nil, in which case renderlog.Discard is used.
func NewComposer(settings *config.RenderSettings, pipeline *glyph.Pipeline, log renderlog.Logger) *Composer {
	if log == nil {
		log = renderlog.Discard
	}
	return &Composer{Settings: settings, Pipeline: pipeline, Log: log, clipCache: map[string]*bitmap.Bitmap{}}
}

type eventGroup struct {
	ev                        *Event
	layer                     int
	frags                     []*ImageFragment
	top, height, left, width int
}

// RenderFrame produces the ImageFragment list active at nowMS: iterate
// active events, render and collision-resolve them per layer, concatenate
// in layer/read order, and classify the change versus the previous call's
// result.
func (c *Composer) RenderFrame(track *Track, nowMS int64) ([]*ImageFragment, ChangeKind) {
	var groups []eventGroup
	for i := range track.Events {
		ev := &track.Events[i]
		if nowMS < ev.StartMS || nowMS >= ev.StartMS+ev.DurationMS {
			continue
		}
		frags := c.renderEvent(ev, nowMS)
		top, height, left, width := bbox(frags)
		groups = append(groups, eventGroup{ev: ev, layer: ev.Layer, frags: frags, top: top, height: height, left: left, width: width})
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].layer < groups[j].layer })

	c.resolveCollisions(groups)

	var out []*ImageFragment
	for i := range groups {
		for _, f := range groups[i].frags {
			if clipFragmentToFrame(f, c.Settings.FrameWidth, c.Settings.FrameHeight) {
				out = append(out, f)
			}
		}
	}

	kind := diff(c.prev, out)
	c.prev = out
	return linkFragments(out), kind
}

// renderEvent lays out and renders one event's glyphs into fragments, in
// painter's order (shadow, outline, character per glyph), applying the
// karaoke sweep split and the event's clip mask if present.
func (c *Composer) renderEvent(ev *Event, nowMS int64) []*ImageFragment {
	var clip *bitmap.Bitmap
	if ev.ClipDrawing != "" {
		clip = c.clipMask(ev.ClipDrawing)
	}

	var frags []*ImageFragment
	var runOriginX int32
	haveOrigin := false
	for _, g := range ev.Text.Glyphs {
		if !haveOrigin {
			runOriginX = g.Pos.X
			haveOrigin = true
		}
		if g.LineBreak {
			haveOrigin = false
		}
		frags = append(frags, c.renderGlyph(g, runOriginX, ev, nowMS, clip)...)
	}
	return frags
}

func (c *Composer) renderGlyph(g *Glyph, runOriginX int32, ev *Event, nowMS int64, clip *bitmap.Bitmap) []*ImageFragment {
	okey := c.outlineKey(g)
	ov, err := c.Pipeline.GetOutline(okey)
	if err != nil {
		c.Log.Warnf("glyph outline failed, skipping: %v", err)
		return nil
	}

	qx, shiftX := glyph.QuantizeSubpixel(g.Pos.X)
	qy, shiftY := glyph.QuantizeSubpixel(g.Pos.Y)
	xform := transform3d.Params{
		Frx: g.Style.Frx, Fry: g.Style.Fry, Frz: g.Style.Frz,
		Fax: g.Style.Fax, Fay: g.Style.Fay,
		BlurScale: 1,
	}
	bkey := glyph.BitmapKey{
		Outline:         okey,
		AdvanceSubpixel: g.Advance,
		ShiftX:          qx, ShiftY: qy,
		FrxKey: glyph.AngleKey(g.Style.Frx), FryKey: glyph.AngleKey(g.Style.Fry), FrzKey: glyph.AngleKey(g.Style.Frz),
		FaxFP: glyph.ShearKey(g.Style.Fax), FayFP: glyph.ShearKey(g.Style.Fay),
	}
	bv, err := c.Pipeline.GetBitmap(bkey, ov, xform, shiftX, shiftY)
	if err != nil {
		c.Log.Warnf("glyph bitmap failed, skipping: %v", err)
		return nil
	}

	placeX := int(g.Pos.X >> 6)
	placeY := int(g.Pos.Y >> 6)

	fill := place(bv.Fill, placeX, placeY)
	outlineBm := place(bv.Outline, placeX, placeY)
	if g.Style.Be > 0 {
		if fill != nil {
			fill.BeBlur(g.Style.Be)
		}
		if outlineBm != nil {
			outlineBm.BeBlur(g.Style.Be)
		}
	}
	if g.Style.Blur > 0 {
		if fill != nil {
			blur.Blur(fill, g.Style.Blur)
		}
		if outlineBm != nil {
			blur.Blur(outlineBm, g.Style.Blur)
		}
	}

	var shadow *bitmap.Bitmap
	wantShadow := g.Style.ShadowX != 0 || g.Style.ShadowY != 0
	if wantShadow {
		switch {
		case g.Style.BorderStyle == 3 && fill != nil:
			shadow = fill.Copy()
		case outlineBm != nil:
			shadow = outlineBm.Copy()
		case fill != nil:
			shadow = fill.Copy()
		}
		if shadow != nil {
			shadow.ShiftSubpixel(g.Style.ShadowX, g.Style.ShadowY)
		}
	}

	if clip != nil {
		for _, bm := range []*bitmap.Bitmap{fill, outlineBm, shadow} {
			if bm != nil {
				bm.AlphaMultiply(clip)
			}
		}
	}

	var frags []*ImageFragment
	if shadow != nil {
		frags = append(frags, c.splitKaraoke(shadow, g, runOriginX, FragmentShadow, g.Style.ShadowColor, g.Style.ShadowColor)...)
	}
	if outlineBm != nil {
		frags = append(frags, c.splitKaraoke(outlineBm, g, runOriginX, FragmentOutline, g.Style.SecondaryColor, g.Style.OutlineColor)...)
	}
	if fill != nil {
		frags = append(frags, c.splitKaraoke(fill, g, runOriginX, FragmentCharacter, g.Style.SecondaryColor, g.Style.FillColor)...)
	}
	return frags
}

// splitKaraoke applies the \kf/\ko sweep: the portion of bm left of the
// sweep boundary paints in beforeColor (the secondary color), the rest in
// afterColor. Glyphs with no active karaoke effect, or that the sweep has
// not reached yet, emit a single fragment in afterColor; a glyph the sweep
// has fully passed emits a single fragment in beforeColor.
func (c *Composer) splitKaraoke(bm *bitmap.Bitmap, g *Glyph, runOriginX int32, typ FragmentType, beforeColor, afterColor color.RGBA8) []*ImageFragment {
	if g.Style.Karaoke == KaraokeNone {
		return []*ImageFragment{toFragment(bm, typ, afterColor)}
	}
	if (typ == FragmentOutline) != (g.Style.Karaoke == KaraokeOutline) && typ != FragmentShadow {
		return []*ImageFragment{toFragment(bm, typ, afterColor)}
	}

	splitAbs := runOriginX + g.Style.EffectTiming
	localPx := int((splitAbs >> 6)) - bm.Left
	if localPx <= 0 {
		return []*ImageFragment{toFragment(bm, typ, afterColor)}
	}
	if localPx >= bm.W {
		return []*ImageFragment{toFragment(bm, typ, beforeColor)}
	}

	left, right := bm.SplitX(localPx)
	var out []*ImageFragment
	if left != nil {
		out = append(out, toFragment(left, typ, beforeColor))
	}
	if right != nil {
		out = append(out, toFragment(right, typ, afterColor))
	}
	return out
}

func toFragment(bm *bitmap.Bitmap, typ FragmentType, col color.RGBA8) *ImageFragment {
	return &ImageFragment{
		W: bm.W, H: bm.H, Stride: bm.Stride, Buffer: bm.Buffer,
		Color: col, DstX: bm.Left, DstY: bm.Top, Type: typ,
	}
}

func place(bm *bitmap.Bitmap, x, y int) *bitmap.Bitmap {
	if bm == nil || bm.W == 0 || bm.H == 0 {
		return nil
	}
	out := bm.Copy()
	out.Left += x
	out.Top += y
	return out
}

func (c *Composer) outlineKey(g *Glyph) glyph.OutlineKey {
	if g.Drawing != "" {
		return glyph.OutlineKey{
			IsDrawing: true,
			Hash:      drawing.Hash(g.Drawing),
			Text:      g.Drawing,
			Scale:     1,
			PBO:       g.DrawingPBO,
			ScaleX:    g.Style.ScaleX, ScaleY: g.Style.ScaleY,
			OutlineX: g.Style.BorderX, OutlineY: g.Style.BorderY,
			BorderStyle: g.Style.BorderStyle,
		}
	}
	return glyph.OutlineKey{
		FontID: g.FontID, FaceIndex: g.FaceIndex, GlyphIndex: g.GlyphIndex,
		Size: g.Size, Bold: g.Bold, Italic: g.Italic,
		ScaleX: g.Style.ScaleX, ScaleY: g.Style.ScaleY,
		OutlineX: g.Style.BorderX, OutlineY: g.Style.BorderY,
		BorderStyle: g.Style.BorderStyle,
	}
}

// clipMask rasterizes a \clip(...) drawing string to an alpha mask,
// caching by text since the same clip commonly applies to every glyph of
// an event.
func (c *Composer) clipMask(text string) *bitmap.Bitmap {
	if bm, ok := c.clipCache[text]; ok {
		return bm
	}
	res, err := drawing.Parse(text, drawing.Params{ScaleX: 1, ScaleY: 1, Scale: 1})
	if err != nil {
		c.Log.Warnf("clip drawing failed: %v", err)
		c.clipCache[text] = nil
		return nil
	}
	bm, err := c.Pipeline.Raster.RenderOutline(res.Outline, nil)
	if err != nil {
		c.Log.Warnf("clip rasterize failed: %v", err)
		bm = nil
	}
	c.clipCache[text] = bm
	return bm
}

func bbox(frags []*ImageFragment) (top, height, left, width int) {
	first := true
	var x0, y0, x1, y1 int
	for _, f := range frags {
		fx0, fy0 := f.DstX, f.DstY
		fx1, fy1 := f.DstX+f.W, f.DstY+f.H
		if first {
			x0, y0, x1, y1 = fx0, fy0, fx1, fy1
			first = false
			continue
		}
		if fx0 < x0 {
			x0 = fx0
		}
		if fy0 < y0 {
			y0 = fy0
		}
		if fx1 > x1 {
			x1 = fx1
		}
		if fy1 > y1 {
			y1 = fy1
		}
	}
	if first {
		return 0, 0, 0, 0
	}
	return y0, y1 - y0, x0, x1 - x0
}

func linkFragments(frags []*ImageFragment) []*ImageFragment {
	for i := 0; i+1 < len(frags); i++ {
		frags[i].Next = frags[i+1]
	}
	return frags
}

func clipFragmentToFrame(f *ImageFragment, fw, fh int) bool {
	bm := &bitmap.Bitmap{Left: f.DstX, Top: f.DstY, W: f.W, H: f.H, Stride: f.Stride, Buffer: f.Buffer}
	if !bm.ClipToFrame(fw, fh) {
		return false
	}
	f.DstX, f.DstY, f.W, f.H, f.Stride, f.Buffer = bm.Left, bm.Top, bm.W, bm.H, bm.Stride, bm.Buffer
	return true
}

func diff(prev, cur []*ImageFragment) ChangeKind {
	if len(prev) != len(cur) {
		return ChangeContent
	}
	positionsOnly := false
	for i := range cur {
		p, c := prev[i], cur[i]
		if p.W != c.W || p.H != c.H || p.Type != c.Type || p.Color != c.Color {
			return ChangeContent
		}
		if !bytesEqual(p.Buffer, c.Buffer) {
			return ChangeContent
		}
		if p.DstX != c.DstX || p.DstY != c.DstY {
			positionsOnly = true
		}
	}
	if positionsOnly {
		return ChangePositionsOnly
	}
	return ChangeIdentical
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
