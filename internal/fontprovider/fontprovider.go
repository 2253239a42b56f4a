// Package fontprovider declares the core's view of the external font
// back end: system font enumeration, family matching, and raw glyph-data
// access are explicitly out of scope collaborators -- interfaces only.
// Nothing in this repository implements Interface against a real font
// library; a caller wires in whatever font stack it embeds (FreeType,
// the platform's native font APIs, ...).
package fontprovider

// Handle identifies one font instance the provider resolved for the core.
// Opaque to the core: it is only ever passed back to the same Interface
// that produced it.
type Handle any

// Interface is the font provider's contract with the core.
type Interface interface {
	// CheckPostscript reports whether h's underlying font uses PostScript
	// (Type 1 / CFF) outlines rather than TrueType glyf outlines -- some
	// hinting strategies and the hbshaper back end branch on this.
	CheckPostscript(h Handle) bool
	// CheckGlyph reports whether h's font has a glyph for codepoint,
	// used for font-fallback probing before a full shaping pass.
	CheckGlyph(h Handle, codepoint rune) bool
	// GetData returns length bytes of h's underlying font file data
	// starting at offset, the raw bytes an outline converter or a
	// shaper's own font-table reader consumes.
	GetData(h Handle, offset, length int) ([]byte, error)
	// MatchFonts resolves family to zero or more font handles, in the
	// provider's own preference order.
	MatchFonts(family string) ([]Handle, error)
	// GetFallback returns a substitute family able to render codepoint
	// when family cannot, or ("", false) if none is available.
	GetFallback(family string, codepoint rune) (string, bool)
	// GetSubstitutions returns the families family, did it support
	// provider-side aliasing, maps to -- checked in order before falling
	// back to GetFallback.
	GetSubstitutions(family string) ([]string, error)
	// Destroy releases any resources the provider holds. Called once,
	// when the renderer that owns this Interface is itself destroyed.
	Destroy()
}
