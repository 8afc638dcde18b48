package token

import (
	"fmt"
	"strings"
)

// Token represents a lexical token.
type Token interface {
	token()

	// Position returns the position of the first code point of the token.
	Position() Pos

	// String returns the CSS text the token was scanned from.
	String() string
}

// Tokens that decode escapes or recover from malformed input also carry a
// Raw field. The scanner sets Raw to the exact source text only when it
// differs from the text the token would print otherwise, so String always
// reproduces the source.

func (_ *Ident) token()          {}
func (_ *Function) token()       {}
func (_ *AtKeyword) token()      {}
func (_ *Hash) token()           {}
func (_ *String) token()         {}
func (_ *BadString) token()      {}
func (_ *URL) token()            {}
func (_ *BadURL) token()         {}
func (_ *Delim) token()          {}
func (_ *Number) token()         {}
func (_ *Percentage) token()     {}
func (_ *Dimension) token()      {}
func (_ *UnicodeRange) token()   {}
func (_ *IncludeMatch) token()   {}
func (_ *DashMatch) token()      {}
func (_ *PrefixMatch) token()    {}
func (_ *SuffixMatch) token()    {}
func (_ *SubstringMatch) token() {}
func (_ *Column) token()         {}
func (_ *Whitespace) token()     {}
func (_ *CDO) token()            {}
func (_ *CDC) token()            {}
func (_ *Colon) token()          {}
func (_ *Semicolon) token()      {}
func (_ *Comma) token()          {}
func (_ *LBrack) token()         {}
func (_ *RBrack) token()         {}
func (_ *LParen) token()         {}
func (_ *RParen) token()         {}
func (_ *LBrace) token()         {}
func (_ *RBrace) token()         {}
func (_ *Comment) token()        {}
func (_ *EOF) token()            {}

type Ident struct {
	Value string
	Raw   string
	Pos   Pos
}

func (t *Ident) Position() Pos  { return t.Pos }
func (t *Ident) String() string { return orRaw(t.Raw, t.Value) }

type Function struct {
	Value string
	Raw   string
	Pos   Pos
}

func (t *Function) Position() Pos  { return t.Pos }
func (t *Function) String() string { return orRaw(t.Raw, t.Value+"(") }

type AtKeyword struct {
	Value string
	Raw   string
	Pos   Pos
}

func (t *AtKeyword) Position() Pos  { return t.Pos }
func (t *AtKeyword) String() string { return orRaw(t.Raw, "@"+t.Value) }

type Hash struct {
	Type  string
	Value string
	Raw   string
	Pos   Pos
}

func (t *Hash) Position() Pos  { return t.Pos }
func (t *Hash) String() string { return orRaw(t.Raw, "#"+t.Value) }

type String struct {
	Ending rune
	Value  string
	Raw    string
	Pos    Pos
}

func (t *String) Position() Pos { return t.Pos }

// String returns the string wrapped in its original quotes. Without Raw,
// quotes and backslashes inside the value are escaped again.
func (t *String) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	q := string(t.Ending)
	if q == "\000" {
		q = `"`
	}
	r := strings.NewReplacer(`\`, `\\`, q, `\`+q, "\n", `\a `)
	return q + r.Replace(t.Value) + q
}

type BadString struct {
	Raw string
	Pos Pos
}

func (t *BadString) Position() Pos  { return t.Pos }
func (t *BadString) String() string { return orRaw(t.Raw, "''") }

type URL struct {
	Value string
	Raw   string
	Pos   Pos
}

func (t *URL) Position() Pos  { return t.Pos }
func (t *URL) String() string { return orRaw(t.Raw, "url("+t.Value+")") }

type BadURL struct {
	Raw string
	Pos Pos
}

func (t *BadURL) Position() Pos  { return t.Pos }
func (t *BadURL) String() string { return orRaw(t.Raw, "url()") }

type Delim struct {
	Value string
	Pos   Pos
}

func (t *Delim) Position() Pos  { return t.Pos }
func (t *Delim) String() string { return t.Value }

// Number represents a number-token. Type is either "integer" or "number".
type Number struct {
	Type   string
	Number float64
	Value  string
	Pos    Pos
}

func (t *Number) Position() Pos  { return t.Pos }
func (t *Number) String() string { return t.Value }

type Percentage struct {
	Type   string
	Number float64
	Value  string
	Pos    Pos
}

func (t *Percentage) Position() Pos  { return t.Pos }
func (t *Percentage) String() string { return t.Value }

// Dimension represents a number immediately followed by a unit.
// Value holds the full representation, e.g. "10px".
type Dimension struct {
	Type   string
	Number float64
	Unit   string
	Value  string
	Raw    string
	Pos    Pos
}

func (t *Dimension) Position() Pos  { return t.Pos }
func (t *Dimension) String() string { return orRaw(t.Raw, t.Value) }

type UnicodeRange struct {
	Start int
	End   int
	Raw   string
	Pos   Pos
}

func (t *UnicodeRange) Position() Pos { return t.Pos }
func (t *UnicodeRange) String() string {
	if t.Raw != "" {
		return t.Raw
	} else if t.Start == t.End {
		return fmt.Sprintf("U+%06x", t.Start)
	}
	return fmt.Sprintf("U+%06x-%06x", t.Start, t.End)
}

type IncludeMatch struct {
	Pos Pos
}

func (t *IncludeMatch) Position() Pos  { return t.Pos }
func (t *IncludeMatch) String() string { return "~=" }

type DashMatch struct {
	Pos Pos
}

func (t *DashMatch) Position() Pos  { return t.Pos }
func (t *DashMatch) String() string { return "|=" }

type PrefixMatch struct {
	Pos Pos
}

func (t *PrefixMatch) Position() Pos  { return t.Pos }
func (t *PrefixMatch) String() string { return "^=" }

type SuffixMatch struct {
	Pos Pos
}

func (t *SuffixMatch) Position() Pos  { return t.Pos }
func (t *SuffixMatch) String() string { return "$=" }

type SubstringMatch struct {
	Pos Pos
}

func (t *SubstringMatch) Position() Pos  { return t.Pos }
func (t *SubstringMatch) String() string { return "*=" }

type Column struct {
	Pos Pos
}

func (t *Column) Position() Pos  { return t.Pos }
func (t *Column) String() string { return "||" }

type Whitespace struct {
	Value string
	Pos   Pos
}

func (t *Whitespace) Position() Pos  { return t.Pos }
func (t *Whitespace) String() string { return t.Value }

type CDO struct {
	Pos Pos
}

func (t *CDO) Position() Pos  { return t.Pos }
func (t *CDO) String() string { return "<!--" }

type CDC struct {
	Pos Pos
}

func (t *CDC) Position() Pos  { return t.Pos }
func (t *CDC) String() string { return "-->" }

type Colon struct {
	Pos Pos
}

func (t *Colon) Position() Pos  { return t.Pos }
func (t *Colon) String() string { return ":" }

type Semicolon struct {
	Pos Pos
}

func (t *Semicolon) Position() Pos  { return t.Pos }
func (t *Semicolon) String() string { return ";" }

type Comma struct {
	Pos Pos
}

func (t *Comma) Position() Pos  { return t.Pos }
func (t *Comma) String() string { return "," }

type LBrack struct {
	Pos Pos
}

func (t *LBrack) Position() Pos  { return t.Pos }
func (t *LBrack) String() string { return "[" }

type RBrack struct {
	Pos Pos
}

func (t *RBrack) Position() Pos  { return t.Pos }
func (t *RBrack) String() string { return "]" }

type LParen struct {
	Pos Pos
}

func (t *LParen) Position() Pos  { return t.Pos }
func (t *LParen) String() string { return "(" }

type RParen struct {
	Pos Pos
}

func (t *RParen) Position() Pos  { return t.Pos }
func (t *RParen) String() string { return ")" }

type LBrace struct {
	Pos Pos
}

func (t *LBrace) Position() Pos  { return t.Pos }
func (t *LBrace) String() string { return "{" }

type RBrace struct {
	Pos Pos
}

func (t *RBrace) Position() Pos  { return t.Pos }
func (t *RBrace) String() string { return "}" }

// Comment represents a /* ... */ comment. Value holds the text between the
// markers.
type Comment struct {
	Value string
	Raw   string
	Pos   Pos
}

func (t *Comment) Position() Pos  { return t.Pos }
func (t *Comment) String() string { return orRaw(t.Raw, "/*"+t.Value+"*/") }

type EOF struct {
	Pos Pos
}

func (t *EOF) Position() Pos  { return t.Pos }
func (t *EOF) String() string { return "EOF" }

// orRaw returns raw if set, otherwise s.
func orRaw(raw, s string) string {
	if raw != "" {
		return raw
	}
	return s
}

// Pos specifies the line and character position of a token.
// Line is a zero-based index. Char is the one-based column of the code point.
type Pos struct {
	Char int
	Line int
}

// String returns the position as a 1-based "line:col" pair.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Char)
}
