// Package compose implements the frame composer: given a track and a
// timestamp, it lays out and renders every active event via the glyph
// pipeline, sorts and collision-resolves the results, concatenates them
// into one ImageFragment list, and classifies the change against the
// previous frame.
//
// Grounded on libass's render_frame/ass_start_frame driver loop,
// fix_collisions, and render_text's karaoke-sweep split -- nothing
// elsewhere in this repository resembles a multi-event timed compositor,
// so this package is written fresh, with its own quickSortSlice (sort.go)
// for collision ordering and the standard library's sort.SliceStable for
// layer ordering.
package compose

import (
	"github.com/go-ass/asscore/internal/color"
	"github.com/go-ass/asscore/internal/outline"
)

// FragmentType classifies an ImageFragment for diagnostics.
type FragmentType int

const (
	FragmentCharacter FragmentType = iota
	FragmentOutline
	FragmentShadow
)

func (t FragmentType) String() string {
	switch t {
	case FragmentOutline:
		return "outline"
	case FragmentShadow:
		return "shadow"
	default:
		return "character"
	}
}

// ImageFragment is one painted rectangle of the rendered frame: an 8-bit
// alpha buffer, a solid color, and a placement. Fragments paint in list
// order (painter's algorithm): shadow, then border, then fill.
type ImageFragment struct {
	W, H, Stride int
	Buffer       []byte
	Color        color.RGBA8
	DstX, DstY   int
	Type         FragmentType
	Next         *ImageFragment
}

// KaraokeType selects which \k-family sweep effect a glyph's cluster
// carries.
type KaraokeType int

const (
	KaraokeNone KaraokeType = iota
	KaraokeFill           // \kf: fill color sweeps across the glyph
	KaraokeOutline        // \ko: outline color sweeps instead of fill
)

// GlyphStyle bundles the per-glyph style attributes a laid-out glyph
// carries into rendering.
type GlyphStyle struct {
	FillColor, SecondaryColor, OutlineColor, ShadowColor color.RGBA8

	BorderX, BorderY int32 // 26.6
	ShadowX, ShadowY int32 // 26.6, either may be negative

	ScaleX, ScaleY int32 // 16.16
	Fax, Fay       float64
	Frx, Fry, Frz  float64 // radians

	Blur float64 // Gaussian blur radius contribution (r^2 units)
	Be   int     // be-blur iteration count

	BorderStyle int // 1 = outline, 3 = opaque box

	Underline, StrikeThrough bool

	Karaoke      KaraokeType
	EffectTiming int32 // 26.6, sweep position relative to the run origin
}

// Glyph is one laid-out glyph. Glyphs belonging to one shaped cluster
// chain via Next.
type Glyph struct {
	FontID, FaceIndex, GlyphIndex int
	Size                          int32 // 26.6
	Bold, Italic                  bool

	Advance        int32 // subpixel 26.6
	ClusterAdvance int32
	Pos            outline.Point // subpixel position, 26.6

	Style GlyphStyle

	// Drawing holds an inline vector-drawing command string in place of
	// a font glyph reference when non-empty.
	Drawing     string
	DrawingPBO  float64
	DrawingHash uint32

	LineBreak bool
	Next      *Glyph
}

// TextLayout is the ordered, positioned glyph run one event lays out to.
type TextLayout struct {
	Glyphs []*Glyph
}

// ShiftDirection biases first-fit collision placement.
type ShiftDirection int

const (
	ShiftTop ShiftDirection = iota
	ShiftBottom
)

// Event is one subtitle line active over [StartMS, StartMS+DurationMS).
type Event struct {
	StartMS, DurationMS int64
	Layer               int
	Text                TextLayout

	DetectCollisions bool
	ShiftDirection   ShiftDirection

	// ClipDrawing, if non-empty, is a \clip(...) vector-clip command
	// string applied as an alpha mask to every fragment this event
	// emits.
	ClipDrawing string

	// Top is the assigned vertical placement from the most recent
	// collision resolution pass; persisted across RenderFrame calls on
	// the same Track/Event so "keep previous top if still free" has
	// somewhere to read from.
	Top int
}

// Track is the set of events a Composer renders frames from.
type Track struct {
	Events []Event
}

// ChangeKind classifies a frame against the one before it: identical,
// positions-only, or content.
type ChangeKind int

const (
	ChangeIdentical ChangeKind = iota
	ChangePositionsOnly
	ChangeContent
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeIdentical:
		return "identical"
	case ChangePositionsOnly:
		return "positions-only"
	default:
		return "content"
	}
}
