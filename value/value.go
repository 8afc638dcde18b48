// Package value tokenizes CSS declaration values and at-rule parameters into
// a tree of words, strings, functions, dividers, comments and spaces.
//
// Unlike the scanner package, which follows the CSS3 tokenization rules,
// this tokenizer keeps each whitespace-separated word intact ("12pxfoo" and
// "-0.5px" are single words) and preserves the source text of every node so
// that the tree prints back to its input.
package value

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when the text to parse is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid utf-8")

// Type represents the kind of a value node.
type Type int

const (
	// Word is any run of characters that is not one of the other types,
	// e.g. "10px", "solid", "#fff", "+3px".
	Word Type = iota

	// String is a quoted string. Value holds the contents without quotes.
	String

	// Function is a name followed by a parenthesized list of nodes.
	// A bare parenthesis produces a function with an empty name.
	Function

	// Space is a run of whitespace between two nodes.
	Space

	// Div is a ",", "/" or ":" divider with its surrounding whitespace.
	Div

	// Comment is a /* ... */ comment. Value holds the text between markers.
	Comment
)

var types = [...]string{
	Word:     "word",
	String:   "string",
	Function: "function",
	Space:    "space",
	Div:      "div",
	Comment:  "comment",
}

// String returns the string representation of the type.
func (t Type) String() string {
	if t >= 0 && int(t) < len(types) {
		return types[t]
	}
	return ""
}

// Node represents a single node in a value tree.
type Node struct {
	Type  Type
	Value string

	// Quote is the quote character of a String node.
	Quote rune

	// Before and After hold the whitespace around a Div, or the whitespace
	// after the opening and before the closing parenthesis of a Function.
	Before string
	After  string

	// Nodes holds the arguments of a Function.
	Nodes Nodes

	// Unclosed is set on strings, comments and functions that reach the
	// end of the input before their closing character.
	Unclosed bool

	// Pos is the byte offset of the node in the parsed text.
	Pos int
}

// String returns the source text of the node.
func (n *Node) String() string {
	switch n.Type {
	case String:
		if n.Unclosed {
			return string(n.Quote) + n.Value
		}
		return string(n.Quote) + n.Value + string(n.Quote)
	case Function:
		s := n.Value + "(" + n.Before + n.Nodes.String() + n.After
		if !n.Unclosed {
			s += ")"
		}
		return s
	case Div:
		return n.Before + n.Value + n.After
	case Comment:
		if n.Unclosed {
			return "/*" + n.Value
		}
		return "/*" + n.Value + "*/"
	}
	return n.Value
}

// Nodes represents an ordered list of value nodes.
type Nodes []*Node

// String returns the source text of the list.
func (a Nodes) String() string {
	var sb strings.Builder
	for _, n := range a {
		sb.WriteString(n.String())
	}
	return sb.String()
}

// Parse tokenizes text into a value tree.
// Malformed input such as unterminated strings or functions never fails;
// the affected node is marked as Unclosed instead. Parse only returns an
// error when text is not valid UTF-8.
func Parse(text string) (Nodes, error) {
	if i := invalidUTF8(text); i >= 0 {
		return nil, fmt.Errorf("parse value: %w at offset %d", ErrInvalidUTF8, i)
	}
	p := &parser{src: text}
	nodes, _ := p.parseNodes(false)
	return nodes, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Nodes {
	nodes, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return nodes
}

// parser represents the state of a single Parse call.
type parser struct {
	src string
	i   int // byte offset of the next rune
}

// parseNodes consumes nodes until the end of input or, inside a function,
// until the closing parenthesis. Returns whether the parenthesis was found.
func (p *parser) parseNodes(inFunction bool) (Nodes, bool) {
	var a Nodes
	for {
		ch := p.peek()
		switch {
		case ch == eof:
			return a, false
		case ch == ')' && inFunction:
			p.read()
			return a, true
		case isWhitespace(ch):
			a = append(a, &Node{Type: Space, Pos: p.i, Value: p.scanWhitespace()})
		case ch == '"' || ch == '\'':
			a = append(a, p.scanString())
		case ch == '/' && p.peekAt(1) == '*':
			a = append(a, p.scanComment())
		case isDiv(ch):
			n := &Node{Type: Div, Pos: p.i, Value: string(p.read())}

			// Fold the whitespace around the divider into the node.
			if len(a) > 0 && a[len(a)-1].Type == Space {
				n.Before = a[len(a)-1].Value
				n.Pos = a[len(a)-1].Pos
				a = a[:len(a)-1]
			}
			if isWhitespace(p.peek()) {
				n.After = p.scanWhitespace()
			}
			a = append(a, n)
		case ch == '(':
			a = append(a, p.scanFunction("", p.i))
		case ch == ')':
			// Unbalanced parenthesis outside of a function.
			a = append(a, &Node{Type: Word, Pos: p.i, Value: string(p.read())})
		default:
			a = append(a, p.scanWord())
		}
	}
}

// scanWord consumes a word, or a function if the word is immediately
// followed by an opening parenthesis.
func (p *parser) scanWord() *Node {
	pos := p.i
	var sb strings.Builder
	for {
		ch := p.peek()
		if ch == eof || isWhitespace(ch) || isDiv(ch) || ch == '"' || ch == '\'' || ch == ')' {
			break
		} else if ch == '/' && p.peekAt(1) == '*' {
			break
		} else if ch == '(' {
			return p.scanFunction(sb.String(), pos)
		} else if ch == '\\' {
			// Keep escapes verbatim, including the escaped code point.
			sb.WriteRune(p.read())
			if next := p.peek(); next != eof {
				sb.WriteRune(p.read())
			}
			continue
		}
		sb.WriteRune(p.read())
	}
	return &Node{Type: Word, Pos: pos, Value: sb.String()}
}

// scanFunction consumes a function starting at the opening parenthesis.
func (p *parser) scanFunction(name string, pos int) *Node {
	p.read() // (
	n := &Node{Type: Function, Pos: pos, Value: name}

	// An unquoted url() argument is kept as a single word.
	if strings.EqualFold(name, "url") && !p.peekQuotedArg() {
		p.scanURL(n)
		return n
	}

	nodes, closed := p.parseNodes(true)
	n.Unclosed = !closed

	// Move the whitespace just inside the parentheses to the function.
	if len(nodes) > 0 && nodes[0].Type == Space {
		n.Before = nodes[0].Value
		nodes = nodes[1:]
	}
	if len(nodes) > 0 && nodes[len(nodes)-1].Type == Space {
		n.After = nodes[len(nodes)-1].Value
		nodes = nodes[:len(nodes)-1]
	}
	n.Nodes = nodes
	return n
}

// scanURL consumes the raw contents of an unquoted url() function.
func (p *parser) scanURL(n *Node) {
	if isWhitespace(p.peek()) {
		n.Before = p.scanWhitespace()
	}

	pos := p.i
	var sb strings.Builder
	for {
		ch := p.peek()
		if ch == eof {
			n.Unclosed = true
			break
		} else if ch == ')' {
			p.read()
			break
		} else if ch == '\\' {
			sb.WriteRune(p.read())
			if next := p.peek(); next != eof {
				sb.WriteRune(p.read())
			}
			continue
		}
		sb.WriteRune(p.read())
	}

	// Trailing whitespace belongs to the function, not the url.
	raw := sb.String()
	trimmed := strings.TrimRight(raw, " \t\n\r\f")
	n.After = raw[len(trimmed):]
	if trimmed != "" {
		n.Nodes = Nodes{{Type: Word, Pos: pos, Value: trimmed}}
	}
}

// scanString consumes a quoted string starting at the opening quote.
// Escapes are kept verbatim.
func (p *parser) scanString() *Node {
	pos := p.i
	quote := p.read()
	var sb strings.Builder
	for {
		ch := p.peek()
		if ch == eof {
			return &Node{Type: String, Pos: pos, Quote: quote, Value: sb.String(), Unclosed: true}
		} else if ch == quote {
			p.read()
			return &Node{Type: String, Pos: pos, Quote: quote, Value: sb.String()}
		} else if ch == '\\' {
			sb.WriteRune(p.read())
			if next := p.peek(); next != eof {
				sb.WriteRune(p.read())
			}
			continue
		}
		sb.WriteRune(p.read())
	}
}

// scanComment consumes a comment starting at "/*".
func (p *parser) scanComment() *Node {
	pos := p.i
	p.i += 2
	end := strings.Index(p.src[p.i:], "*/")
	if end == -1 {
		n := &Node{Type: Comment, Pos: pos, Value: p.src[p.i:], Unclosed: true}
		p.i = len(p.src)
		return n
	}
	n := &Node{Type: Comment, Pos: pos, Value: p.src[p.i : p.i+end]}
	p.i += end + 2
	return n
}

// scanWhitespace consumes a run of whitespace.
func (p *parser) scanWhitespace() string {
	start := p.i
	for isWhitespace(p.peek()) {
		p.read()
	}
	return p.src[start:p.i]
}

// peekQuotedArg returns true if the next non-whitespace code point is a quote.
func (p *parser) peekQuotedArg() bool {
	for j := p.i; j < len(p.src); j++ {
		switch ch := p.src[j]; {
		case isWhitespace(rune(ch)):
			continue
		case ch == '"' || ch == '\'':
			return true
		default:
			return false
		}
	}
	return false
}

// eof represents the end of the input.
const eof rune = -1

// peek returns the next code point without consuming it.
func (p *parser) peek() rune {
	if p.i >= len(p.src) {
		return eof
	}
	ch, _ := utf8.DecodeRuneInString(p.src[p.i:])
	return ch
}

// peekAt returns the byte n bytes ahead as a rune, or eof.
func (p *parser) peekAt(n int) rune {
	if p.i+n >= len(p.src) {
		return eof
	}
	return rune(p.src[p.i+n])
}

// read consumes and returns the next code point.
func (p *parser) read() rune {
	if p.i >= len(p.src) {
		return eof
	}
	ch, size := utf8.DecodeRuneInString(p.src[p.i:])
	p.i += size
	return ch
}

// isWhitespace returns true if the rune is a space, tab, or newline.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// isDiv returns true if the rune separates values.
func isDiv(ch rune) bool {
	return ch == ',' || ch == '/' || ch == ':'
}

// invalidUTF8 returns the offset of the first invalid byte, or -1.
func invalidUTF8(s string) int {
	for i := 0; i < len(s); {
		ch, size := utf8.DecodeRuneInString(s[i:])
		if ch == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
