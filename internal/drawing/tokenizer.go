package drawing

import (
	"strconv"
	"unicode"
)

// tokenKind identifies a drawing command token. Values mirror the ASS
// drawing-command letters; the "p" extend-b-spline command has no kind
// and is skipped by the tokenizer.
type tokenKind int

const (
	tokenMoveNC tokenKind = iota // "n"
	tokenMove                    // "m"
	tokenLine                    // "l"
	tokenCubic                   // "b"
	tokenConic                   // "q" (tokenized, never consumed by the parser)
	tokenBSpline                 // "s"
)

type token struct {
	kind tokenKind
	pt   outlinePoint
}

// outlinePoint avoids importing internal/outline here so the tokenizer
// stays a pure string->token transform; the parser converts to
// outline.Point when it builds the outline.
type outlinePoint struct {
	X, Y int32
}

// tokenCheckValues reports whether the next n tokens (starting at toks,
// inclusive) all have the given kind.
func tokenCheckValues(toks []token, n int, kind tokenKind) bool {
	if len(toks) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if toks[i].kind != kind {
			return false
		}
	}
	return true
}

// tokenize walks a drawing-command string, producing the token list and
// expanding the b-spline-closing "c" command into three extra
// tokenBSpline tokens copied from the start of the current spline. Extra
// numeric tokens with no preceding command letter are silently
// discarded, matching the source tokenizer's documented (if possibly
// unintended) behavior.
func tokenize(s string) []token {
	var toks []token
	kind := tokenKind(-1)
	haveKind := false
	isSet := 0
	var pt outlinePoint
	splineStart := -1 // index into toks of the token before the current spline run

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		c := runes[i]
		gotCoord := false

		switch {
		case c == 'c' && splineStart >= 0:
			if tokenCheckValues(toks[splineStart+1:], 2, tokenBSpline) {
				for k := 0; k < 3; k++ {
					toks = append(toks, token{kind: tokenBSpline, pt: toks[splineStart+1+k].pt})
				}
				splineStart = -1
			}
		case isSet == 0 && tryNumber(runes, &i, &pt.X):
			isSet = 1
			gotCoord = true
			i--
		case isSet == 1 && tryNumber(runes, &i, &pt.Y):
			isSet = 2
			gotCoord = true
			i--
		case c == 'm':
			kind, haveKind = tokenMove, true
		case c == 'n':
			kind, haveKind = tokenMoveNC, true
		case c == 'l':
			kind, haveKind = tokenLine, true
		case c == 'b':
			kind, haveKind = tokenCubic, true
		case c == 'q':
			kind, haveKind = tokenConic, true
		case c == 's':
			kind, haveKind = tokenBSpline, true
		}

		if !gotCoord {
			isSet = 0
		}

		if haveKind && isSet == 2 {
			toks = append(toks, token{kind: kind, pt: pt})
			isSet = 0
			if kind == tokenBSpline && splineStart < 0 {
				splineStart = len(toks) - 2
			}
		}

		i++
	}

	return toks
}

// tryNumber parses a floating point number starting at runes[*i] (after
// skipping any leading whitespace), advances *i past it, converts to 26.6
// fixed point (rounded), and reports success. On failure *i is left
// unchanged.
func tryNumber(runes []rune, i *int, out *int32) bool {
	start := *i
	for start < len(runes) && unicode.IsSpace(runes[start]) {
		start++
	}
	j := start
	if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
		j++
	}
	sawDigit := false
	for j < len(runes) && unicode.IsDigit(runes[j]) {
		j++
		sawDigit = true
	}
	if j < len(runes) && runes[j] == '.' {
		j++
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
			sawDigit = true
		}
	}
	if !sawDigit {
		return false
	}
	val, err := strconv.ParseFloat(string(runes[start:j]), 64)
	if err != nil {
		return false
	}
	*out = doubleToD6(val)
	*i = j
	return true
}

// doubleToD6 rounds a float to the nearest 26.6 fixed-point integer.
func doubleToD6(v float64) int32 {
	if v >= 0 {
		return int32(v*64 + 0.5)
	}
	return int32(v*64 - 0.5)
}
