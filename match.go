package nopx

import (
	"regexp"
	"strconv"
)

var (
	pixelPattern       = regexp.MustCompile(`^([-+]?)(\d+(?:\.\d+)?)px$`)
	placeholderPattern = regexp.MustCompile(`@\{[\w-]+\}px\b`)
)

// Pixel represents a px length found in a word.
type Pixel struct {
	Sign      string  // "", "-" or "+"
	Number    string  // unsigned number text, e.g. "1.5"
	Magnitude float64 // unsigned numeric value
}

// IsZero returns true if the length is zero, e.g. "0px", "-0px" or "0.0px".
func (p Pixel) IsZero() bool { return p.Magnitude == 0 }

// IsOne returns true if the length is one, e.g. "1px", "+1px" or "1.0px".
func (p Pixel) IsOne() bool { return p.Magnitude == 1 }

// String returns the px length as written.
func (p Pixel) String() string { return p.Sign + p.Number + "px" }

// MatchPixel returns the px length in word and true if the whole word is an
// optionally signed decimal number followed by "px". The unit is
// case-sensitive and nothing may follow it.
func MatchPixel(word string) (Pixel, bool) {
	m := pixelPattern.FindStringSubmatch(word)
	if m == nil {
		return Pixel{}, false
	}
	// Overlong numbers parse to +Inf, which is neither zero nor one.
	f, _ := strconv.ParseFloat(m[2], 64)
	return Pixel{Sign: m[1], Number: m[2], Magnitude: f}, true
}

// HasPlaceholderPixel returns true if s contains an interpolation
// placeholder directly followed by px, e.g. "@{gap}px".
func HasPlaceholderPixel(s string) bool {
	return placeholderPattern.MatchString(s)
}
