// Package drawing parses ASS inline drawing-command strings ("m l b q s c")
// into a canonical outline, applying the current font scale and baseline
// offset the way the stroker and rasterizer expect.
package drawing

import (
	"hash/fnv"

	"github.com/go-ass/asscore/internal/outline"
)

// Params controls how a drawing string is scaled and placed on the
// baseline. Scale is the drawing's "\p<n>" exponent: point coordinates
// are divided by 2^(Scale-1) before ScaleX/ScaleY are applied.
type Params struct {
	ScaleX, ScaleY float64
	Scale          int
	PBO            float64 // baseline offset, in the drawing's own point units
}

// Result is the outcome of a successful Parse: the canonical outline
// plus the metrics the layout stage needs.
type Result struct {
	Outline   *outline.Outline
	Advance   outline.Point
	Ascender  int32
	Descender int32
}

func (p Params) pointScaleX() float64 {
	return p.ScaleX / float64(int64(1)<<(p.Scale-1))
}

func (p Params) pointScaleY() float64 {
	return p.ScaleY / float64(int64(1)<<(p.Scale-1))
}

// Hash returns the ASCII hash of the source text, used as part of the
// drawing's cache key (so identical drawing strings under identical
// params hit the same cached outline).
func Hash(text string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	return h.Sum32()
}

type translator struct {
	params  Params
	cbox    outline.Rect
	haveAny bool
}

func (t *translator) translate(p outlinePoint) outline.Point {
	out := outline.Point{
		X: doubleToD6Round(t.params.pointScaleX() * float64(p.X)),
		Y: doubleToD6Round(t.params.pointScaleY() * float64(p.Y)),
	}
	if !t.haveAny {
		t.cbox = outline.Rect{X1: out.X, Y1: out.Y, X2: out.X, Y2: out.Y}
		t.haveAny = true
	} else {
		if out.X < t.cbox.X1 {
			t.cbox.X1 = out.X
		}
		if out.X > t.cbox.X2 {
			t.cbox.X2 = out.X
		}
		if out.Y < t.cbox.Y1 {
			t.cbox.Y1 = out.Y
		}
		if out.Y > t.cbox.Y2 {
			t.cbox.Y2 = out.Y
		}
	}
	return out
}

func doubleToD6Round(v float64) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}

// addCurve appends one cubic segment to ol, built from 4 consecutive
// tokens. When spline is true the 4 points are first converted from a
// b-spline control quad to the equivalent cubic Bezier control points.
// started suppresses emitting the first point (the contour is already
// open and its pen position already equals p[0]).
func addCurve(ol *outline.Outline, t *translator, toks []token, spline, started bool) error {
	var p [4]outline.Point
	for i := 0; i < 4; i++ {
		p[i] = t.translate(toks[i].pt)
	}

	if spline {
		x01 := (p[1].X - p[0].X) / 3
		y01 := (p[1].Y - p[0].Y) / 3
		x12 := (p[2].X - p[1].X) / 3
		y12 := (p[2].Y - p[1].Y) / 3
		x23 := (p[3].X - p[2].X) / 3
		y23 := (p[3].Y - p[2].Y) / 3

		p0 := outline.Point{
			X: p[1].X + ((x12 - x01) >> 1),
			Y: p[1].Y + ((y12 - y01) >> 1),
		}
		p3 := outline.Point{
			X: p[2].X + ((x23 - x12) >> 1),
			Y: p[2].Y + ((y23 - y12) >> 1),
		}
		p[1].X += x12
		p[1].Y += y12
		p[2].X -= x12
		p[2].Y -= y12
		p[0] = p0
		p[3] = p3
	}

	if !started {
		if err := ol.AddPoint(p[0], 0); err != nil {
			return err
		}
	}
	if err := ol.AddPoint(p[1], 0); err != nil {
		return err
	}
	if err := ol.AddPoint(p[2], 0); err != nil {
		return err
	}
	return ol.AddPoint(p[3], outline.CubicSpline)
}

// Parse converts a drawing-command string into a canonical outline
// under the given scale/baseline parameters. The command string is not
// validated: unknown letters and coordinates that do not complete a
// command are skipped, and nothing reports them. The returned error comes
// only from the outline store.
func Parse(text string, params Params) (*Result, error) {
	toks := tokenize(text)
	ol := outline.New()
	t := &translator{params: params}

	started := false
	var pen outline.Point

	i := 0
	for i < len(toks) {
		tok := toks[i]
		switch tok.kind {
		case tokenMoveNC:
			pen = t.translate(tok.pt)
			i++

		case tokenMove:
			pen = t.translate(tok.pt)
			if started {
				if err := ol.AddSegment(outline.LineSegment); err != nil {
					return nil, err
				}
				if err := ol.CloseContour(); err != nil {
					return nil, err
				}
				started = false
			}
			i++

		case tokenLine:
			to := t.translate(tok.pt)
			if !started {
				if err := ol.AddPoint(pen, 0); err != nil {
					return nil, err
				}
			}
			if err := ol.AddPoint(to, outline.LineSegment); err != nil {
				return nil, err
			}
			started = true
			i++

		case tokenCubic:
			// Consumes the previous token as its start point plus the
			// next 3 cubic-tagged tokens; jumps forward by 3 on a match
			// since each "b" command supplies a fresh set of 3 points.
			if i > 0 && tokenCheckValues(toks[i:], 3, tokenCubic) {
				if err := addCurve(ol, t, toks[i-1:i+3], false, started); err != nil {
					return nil, err
				}
				started = true
				i += 3
			}
			i++

		case tokenBSpline:
			// Same window shape as cubic, but advances by only 1 token:
			// consecutive "s" points form a sliding 4-point window, each
			// producing one cubic segment of the smoothed spline.
			if i > 0 && tokenCheckValues(toks[i:], 3, tokenBSpline) {
				if err := addCurve(ol, t, toks[i-1:i+3], true, started); err != nil {
					return nil, err
				}
				started = true
			}
			i++

		default: // tokenConic: "q" is tokenized but never consumed
			i++
		}
	}

	if started {
		if err := ol.AddSegment(outline.LineSegment); err != nil {
			return nil, err
		}
		if err := ol.CloseContour(); err != nil {
			return nil, err
		}
	}

	res := &Result{Outline: ol}
	res.Advance = outline.Point{X: t.cbox.X2 - t.cbox.X1, Y: 0}

	pbo := params.PBO / float64(int64(1)<<(params.Scale-1))
	res.Descender = doubleToD6Round(pbo * params.ScaleY)
	res.Ascender = t.cbox.Y2 - t.cbox.Y1 - res.Descender

	for i := range ol.Points {
		ol.Points[i].Y -= res.Ascender
	}

	return res, nil
}
