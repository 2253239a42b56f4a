// Package config defines the renderer's external settings surface:
// frame/storage geometry, margins, hinting and shaping modes, and the
// font defaults applied when a style omits them.
package config

import "fmt"

// HintingMode selects the outline hinting strategy applied before
// rasterization.
type HintingMode int

const (
	HintingNone HintingMode = iota
	HintingLight
	HintingNormal
	HintingNative
)

func (m HintingMode) String() string {
	switch m {
	case HintingNone:
		return "none"
	case HintingLight:
		return "light"
	case HintingNormal:
		return "normal"
	case HintingNative:
		return "native"
	default:
		return "unknown"
	}
}

// ShapingLevel selects how much of the complex-script shaping path the
// external text layout is expected to have already run.
type ShapingLevel int

const (
	ShapingSimple ShapingLevel = iota
	ShapingComplex
)

// OverrideMask is a bitmask of style fields the renderer is allowed to
// replace regardless of what the script requests (selective style
// override, used by players that force a font or a minimum font size).
type OverrideMask uint32

const (
	OverrideFontName OverrideMask = 1 << iota
	OverrideFontSize
	OverrideColor
	OverrideBorder
	OverrideShadow
	OverrideAlignment
	OverrideMargins
)

// RenderSettings is the external configuration surface consumed by the
// core, per the render_frame entry point. Zero value is not valid;
// construct with New and Options.
type RenderSettings struct {
	FrameWidth, FrameHeight     int
	StorageWidth, StorageHeight int

	MarginL, MarginR, MarginV int // may be negative for pan-scan

	// PixelAspectRatio is width/height of a source pixel; 0 means
	// derive it from FrameWidth/FrameHeight vs StorageWidth/StorageHeight.
	PixelAspectRatio float64

	LineSpacing  float64
	LinePosition float64

	Hinting      HintingMode
	Shaping      ShapingLevel
	FontScale    float64
	OverrideBits OverrideMask

	DefaultFont   string
	DefaultFamily string
}

// Option mutates a RenderSettings during construction.
type Option func(*RenderSettings)

// New builds a RenderSettings from the given frame/storage dimensions
// and options, filling in the documented defaults for everything else.
func New(frameW, frameH int, opts ...Option) (*RenderSettings, error) {
	if frameW <= 0 || frameH <= 0 {
		return nil, fmt.Errorf("config: frame dimensions must be positive, got %dx%d", frameW, frameH)
	}

	s := &RenderSettings{
		FrameWidth:       frameW,
		FrameHeight:      frameH,
		StorageWidth:     frameW,
		StorageHeight:    frameH,
		PixelAspectRatio: 0,
		LineSpacing:      0,
		FontScale:        1.0,
		Hinting:          HintingNormal,
		Shaping:          ShapingSimple,
		DefaultFont:      "",
		DefaultFamily:    "sans-serif",
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.StorageWidth <= 0 || s.StorageHeight <= 0 {
		return nil, fmt.Errorf("config: storage dimensions must be positive, got %dx%d", s.StorageWidth, s.StorageHeight)
	}
	if s.FontScale < 0 {
		return nil, fmt.Errorf("config: font scale must be non-negative, got %f", s.FontScale)
	}

	return s, nil
}

// WithStorageSize overrides the script's authored resolution, used when
// the renderer must rasterize at a resolution other than the frame size.
func WithStorageSize(w, h int) Option {
	return func(s *RenderSettings) {
		s.StorageWidth, s.StorageHeight = w, h
	}
}

// WithMargins sets the left/right/vertical margin overrides, in pixels
// at frame resolution. Negative values widen the frame (pan-scan).
func WithMargins(l, r, v int) Option {
	return func(s *RenderSettings) {
		s.MarginL, s.MarginR, s.MarginV = l, r, v
	}
}

// WithPixelAspectRatio fixes the PAR explicitly; pass 0 to derive it
// from frame vs storage dimensions instead.
func WithPixelAspectRatio(par float64) Option {
	return func(s *RenderSettings) { s.PixelAspectRatio = par }
}

// WithLineSpacing sets extra spacing applied between wrapped lines.
func WithLineSpacing(spacing float64) Option {
	return func(s *RenderSettings) { s.LineSpacing = spacing }
}

// WithLinePosition sets the default vertical line position override.
func WithLinePosition(pos float64) Option {
	return func(s *RenderSettings) { s.LinePosition = pos }
}

// WithHinting selects the outline hinting strategy.
func WithHinting(mode HintingMode) Option {
	return func(s *RenderSettings) { s.Hinting = mode }
}

// WithShaping selects the shaping level the layout stage already ran.
func WithShaping(level ShapingLevel) Option {
	return func(s *RenderSettings) { s.Shaping = level }
}

// WithFontScale sets the global font-size coefficient.
func WithFontScale(scale float64) Option {
	return func(s *RenderSettings) { s.FontScale = scale }
}

// WithOverrides sets the selective style-override bitmask.
func WithOverrides(mask OverrideMask) Option {
	return func(s *RenderSettings) { s.OverrideBits = mask }
}

// WithDefaultFont sets the font/family substituted for styles that
// omit one.
func WithDefaultFont(font, family string) Option {
	return func(s *RenderSettings) {
		s.DefaultFont = font
		s.DefaultFamily = family
	}
}

// ResolvedPAR returns the effective pixel aspect ratio: the explicit
// value if set, otherwise derived from frame vs storage dimensions.
func (s *RenderSettings) ResolvedPAR() float64 {
	if s.PixelAspectRatio != 0 {
		return s.PixelAspectRatio
	}
	frameAR := float64(s.FrameWidth) / float64(s.FrameHeight)
	storageAR := float64(s.StorageWidth) / float64(s.StorageHeight)
	if storageAR == 0 {
		return 1
	}
	return frameAR / storageAR
}
