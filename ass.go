// Package asscore is the public entry point to the ASS/SSA subtitle
// renderer: given a RenderSettings, a font outline source, and a Track,
// it produces the time-ordered ImageFragment lists a caller blits onto
// its own surface. Script parsing, font enumeration, and text shaping are
// the caller's responsibility -- this package consumes their output (a
// Track of already-positioned TextLayout glyph runs) and owns only the
// four core rendering subsystems plus the frame composer that ties them
// together.
package asscore

import (
	"github.com/go-ass/asscore/internal/compose"
	"github.com/go-ass/asscore/internal/config"
	"github.com/go-ass/asscore/internal/glyph"
	"github.com/go-ass/asscore/internal/raster"
	"github.com/go-ass/asscore/internal/renderlog"
)

// Public type aliases for the internal types that cross the package
// boundary, so callers never need to (and cannot, since internal/... is
// unimportable outside this module) import the internal packages
// directly.
type (
	Track             = compose.Track
	Event             = compose.Event
	TextLayout        = compose.TextLayout
	Glyph             = compose.Glyph
	GlyphStyle        = compose.GlyphStyle
	KaraokeType       = compose.KaraokeType
	ShiftDirection    = compose.ShiftDirection
	ImageFragment     = compose.ImageFragment
	FragmentType      = compose.FragmentType
	ChangeKind        = compose.ChangeKind
	RenderSettings    = config.RenderSettings
	RenderOption      = config.Option
	HintingMode       = config.HintingMode
	ShapingLevel      = config.ShapingLevel
	OverrideMask      = config.OverrideMask
	FontOutlineSource = glyph.FontOutlineSource
	Logger            = renderlog.Logger
)

// Re-exported constants for the aliased enums above.
const (
	KaraokeNone    = compose.KaraokeNone
	KaraokeFill    = compose.KaraokeFill
	KaraokeOutline = compose.KaraokeOutline

	ShiftTop    = compose.ShiftTop
	ShiftBottom = compose.ShiftBottom

	FragmentCharacter = compose.FragmentCharacter
	FragmentOutline   = compose.FragmentOutline
	FragmentShadow    = compose.FragmentShadow

	ChangeIdentical     = compose.ChangeIdentical
	ChangePositionsOnly = compose.ChangePositionsOnly
	ChangeContent       = compose.ChangeContent

	HintingNone   = config.HintingNone
	HintingLight  = config.HintingLight
	HintingNormal = config.HintingNormal
	HintingNative = config.HintingNative

	ShapingSimple  = config.ShapingSimple
	ShapingComplex = config.ShapingComplex
)

// Re-exported RenderSettings constructor and options.
var (
	NewRenderSettings    = config.New
	WithStorageSize      = config.WithStorageSize
	WithMargins          = config.WithMargins
	WithPixelAspectRatio = config.WithPixelAspectRatio
	WithLineSpacing      = config.WithLineSpacing
	WithLinePosition     = config.WithLinePosition
	WithHinting          = config.WithHinting
	WithShaping          = config.WithShaping
	WithFontScale        = config.WithFontScale
	WithOverrides        = config.WithOverrides
	WithDefaultFont      = config.WithDefaultFont
)

// TileOrder selects the rasterizer's tile size: 5 means 32-pixel tiles.
// OutlineErrorTolerance is the spline-flattening error bound (26.6) the
// rasterizer's segment approximation targets.
const (
	TileOrder             = 5
	OutlineErrorTolerance = 4
)

// Renderer is one complete rendering session: its own glyph pipeline
// (with its own outline and bitmap caches) and frame composer, consuming
// one FontOutlineSource. A Renderer is single-threaded cooperative --
// every method must be called from one goroutine, and two Renderers
// never share state.
type Renderer struct {
	Settings *RenderSettings
	Pipeline *glyph.Pipeline
	Composer *compose.Composer
	Log      Logger
}

// New returns a Renderer for settings, fetching font outlines through
// source. log may be nil, in which case diagnostics are discarded.
func New(settings *RenderSettings, source FontOutlineSource, log Logger) *Renderer {
	r := raster.New(TileOrder, OutlineErrorTolerance)
	pipeline := glyph.NewPipeline(r, source, nil, nil)
	composer := compose.NewComposer(settings, pipeline, log)
	return &Renderer{Settings: settings, Pipeline: pipeline, Composer: composer, Log: log}
}

// RenderFrame renders every event of track active at nowMS (milliseconds
// since the track's own time origin) into a time-ordered ImageFragment
// list, and reports how it differs from the previous RenderFrame call on
// this Renderer.
func (r *Renderer) RenderFrame(track *Track, nowMS int64) ([]*ImageFragment, ChangeKind) {
	return r.Composer.RenderFrame(track, nowMS)
}

// CutCaches evicts the outline and bitmap caches down to the given byte
// ceilings. Callers typically invoke this once per frame, before
// RenderFrame.
func (r *Renderer) CutCaches(outlineMaxBytes, bitmapMaxBytes int) {
	r.Pipeline.Outlines.Cut(outlineMaxBytes)
	r.Pipeline.Bitmaps.Cut(bitmapMaxBytes)
}
