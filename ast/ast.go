package ast

import (
	"bytes"
	"strings"

	"github.com/yunfengsa/stylelint-nopx/token"
)

// Node represents a node in the CSS3 abstract syntax tree.
type Node interface {
	node()
	String() string
}

func (_ *StyleSheet) node()     {}
func (_ Rules) node()           {}
func (_ *AtRule) node()         {}
func (_ *QualifiedRule) node()  {}
func (_ Declarations) node()    {}
func (_ *Declaration) node()    {}
func (_ ComponentValues) node() {}
func (_ *SimpleBlock) node()    {}
func (_ *Function) node()       {}
func (_ *Token) node()          {}

// StyleSheet represents a top-level CSS3 stylesheet.
type StyleSheet struct {
	Rules Rules
}

func (s *StyleSheet) String() string {
	var buf bytes.Buffer
	for i, r := range s.Rules {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(r.String())
	}
	return buf.String()
}

// Rules represents a list of rules.
type Rules []Rule

func (a Rules) String() string {
	var buf bytes.Buffer
	for i, r := range a {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(r.String())
	}
	return buf.String()
}

// Rule represents a qualified rule or at-rule.
type Rule interface {
	Node
	rule()
}

func (_ *AtRule) rule()        {}
func (_ *QualifiedRule) rule() {}

// AtRule represents a rule starting with an "@" symbol.
//
// Block holds the raw {-block. When the parser understands the block it also
// fills in either Rules (e.g. @media) or Declarations (e.g. @font-face).
type AtRule struct {
	Name    string
	Prelude ComponentValues
	Block   *SimpleBlock
	Pos     token.Pos

	Rules        Rules
	Declarations Declarations
}

func (r *AtRule) String() string {
	var buf bytes.Buffer
	buf.WriteString("@" + r.Name)
	buf.WriteString(r.Prelude.String())
	if r.Block != nil {
		buf.WriteString(r.Block.String())
	} else {
		buf.WriteString(";")
	}
	return buf.String()
}

// Params returns the prelude source text. See Declaration.Value for how
// whitespace and comments are treated.
func (r *AtRule) Params() string {
	return r.Prelude.Text()
}

// QualifiedRule represents an unnamed rule that includes a prelude and block.
type QualifiedRule struct {
	Prelude      ComponentValues
	Block        *SimpleBlock
	Declarations Declarations
	Pos          token.Pos
}

func (r *QualifiedRule) String() string {
	var block string
	if r.Block != nil {
		block = r.Block.String()
	}
	return r.Prelude.String() + block
}

// Selector returns the prelude text without surrounding whitespace.
func (r *QualifiedRule) Selector() string {
	return strings.TrimSpace(r.Prelude.String())
}

// Declarations represents a list of declarations, at-rules and nested
// qualified rules.
type Declarations []Node

func (a Declarations) String() string {
	var buf bytes.Buffer
	for i, d := range a {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(d.String())
		if _, ok := d.(*Declaration); ok {
			buf.WriteString(";")
		}
	}
	return buf.String()
}

// Declaration represents a name/value pair.
type Declaration struct {
	Name      string
	Values    ComponentValues
	Important bool
	Pos       token.Pos
}

func (d *Declaration) String() string {
	s := d.Name + ":" + d.Values.String()
	if d.Important {
		s += "!important"
	}
	return s
}

// Value returns the declaration value source text without the "!important"
// flag. Surrounding whitespace and comments are dropped, as is any comment
// next to whitespace or following a comma. Other comments are kept so that
// the values on either side of them stay apart, e.g. "1px/**/2px".
func (d *Declaration) Value() string {
	return d.Values.Text()
}

// ComponentValues represents a list of component values.
type ComponentValues []ComponentValue

func (a ComponentValues) String() string {
	var buf bytes.Buffer
	for _, v := range a {
		buf.WriteString(v.String())
	}
	return buf.String()
}

// Text returns the source text of the list without leading and trailing
// whitespace and comments. Comments inside the list are kept only when
// neither neighbour is whitespace and they do not follow a comma.
func (a ComponentValues) Text() string {
	i, j := 0, len(a)
	for i < j && isTrivia(a[i]) {
		i++
	}
	for j > i && isTrivia(a[j-1]) {
		j--
	}
	var buf bytes.Buffer
	writeText(&buf, a[i:j])
	return buf.String()
}

// writeText writes the source text of a to buf, dropping comments that
// touch whitespace or follow a comma. The ends of a list count as
// non-whitespace neighbours.
func writeText(buf *bytes.Buffer, a ComponentValues) {
	for i, v := range a {
		switch v := v.(type) {
		case *Token:
			if _, ok := v.Token.(*token.Comment); ok {
				if i > 0 && (isSpace(a[i-1]) || isComma(a[i-1])) {
					continue
				} else if i < len(a)-1 && isSpace(a[i+1]) {
					continue
				}
			}
			buf.WriteString(v.String())
		case *Function:
			buf.WriteString(v.open())
			writeText(buf, v.Values)
			buf.WriteString(")")
		case *SimpleBlock:
			lhs, rhs := v.delims()
			buf.WriteString(lhs)
			writeText(buf, v.Values)
			buf.WriteString(rhs)
		}
	}
}

func isTrivia(v ComponentValue) bool {
	return isSpace(v) || isComment(v)
}

func isSpace(v ComponentValue) bool {
	t, ok := v.(*Token)
	if !ok {
		return false
	}
	_, ok = t.Token.(*token.Whitespace)
	return ok
}

func isComment(v ComponentValue) bool {
	t, ok := v.(*Token)
	if !ok {
		return false
	}
	_, ok = t.Token.(*token.Comment)
	return ok
}

func isComma(v ComponentValue) bool {
	t, ok := v.(*Token)
	if !ok {
		return false
	}
	_, ok = t.Token.(*token.Comma)
	return ok
}

// ComponentValue represents a component value.
type ComponentValue interface {
	Node
	componentValue()
}

func (_ *SimpleBlock) componentValue() {}
func (_ *Function) componentValue()    {}
func (_ *Token) componentValue()       {}

// SimpleBlock represents a {-block, [-block, or (-block.
type SimpleBlock struct {
	Token  token.Token
	Values ComponentValues
}

func (b *SimpleBlock) String() string {
	lhs, rhs := b.delims()
	return lhs + b.Values.String() + rhs
}

// delims returns the opening and closing characters of the block.
func (b *SimpleBlock) delims() (string, string) {
	switch b.Token.(type) {
	case *token.LBrace:
		return "{", "}"
	case *token.LBrack:
		return "[", "]"
	case *token.LParen:
		return "(", ")"
	}
	return "<", ">"
}

// Function represents a function call with a list of arguments.
// Raw holds the source text of the name and opening parenthesis when it
// differs from Name followed by "(".
type Function struct {
	Name   string
	Raw    string
	Values ComponentValues
	Pos    token.Pos
}

func (f *Function) String() string {
	return f.open() + f.Values.String() + ")"
}

// open returns the source text of the name and opening parenthesis.
func (f *Function) open() string {
	if f.Raw != "" {
		return f.Raw
	}
	return f.Name + "("
}

// Token represents a single token in the AST.
type Token struct {
	token.Token
}

func (t *Token) String() string {
	return t.Token.String()
}

// Position returns the position of the first token of n.
// Returns a zero position for empty lists.
func Position(n Node) token.Pos {
	switch n := n.(type) {
	case *StyleSheet:
		return Position(n.Rules)
	case Rules:
		if len(n) > 0 {
			return Position(n[0])
		}
	case *AtRule:
		return n.Pos
	case *QualifiedRule:
		return n.Pos
	case Declarations:
		if len(n) > 0 {
			return Position(n[0])
		}
	case *Declaration:
		return n.Pos
	case ComponentValues:
		if len(n) > 0 {
			return Position(n[0])
		}
	case *SimpleBlock:
		if n.Token != nil {
			return n.Token.Position()
		}
	case *Function:
		return n.Pos
	case *Token:
		if n.Token != nil {
			return n.Token.Position()
		}
	}
	return token.Pos{}
}

// Inspect traverses the rule tree in depth-first order: it calls fn(n) for
// each stylesheet, rule, and declaration. If fn returns true, Inspect visits
// the children of n. Component values are not visited.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *StyleSheet:
		for _, r := range n.Rules {
			Inspect(r, fn)
		}
	case Rules:
		for _, r := range n {
			Inspect(r, fn)
		}
	case *AtRule:
		for _, r := range n.Rules {
			Inspect(r, fn)
		}
		for _, d := range n.Declarations {
			Inspect(d, fn)
		}
	case *QualifiedRule:
		for _, d := range n.Declarations {
			Inspect(d, fn)
		}
	case Declarations:
		for _, d := range n {
			Inspect(d, fn)
		}
	}
}

// WalkDecls calls fn for every declaration under n, in source order.
func WalkDecls(n Node, fn func(*Declaration)) {
	Inspect(n, func(n Node) bool {
		if d, ok := n.(*Declaration); ok {
			fn(d)
		}
		return true
	})
}

// WalkAtRules calls fn for every at-rule under n, in source order.
func WalkAtRules(n Node, fn func(*AtRule)) {
	Inspect(n, func(n Node) bool {
		if r, ok := n.(*AtRule); ok {
			fn(r)
		}
		return true
	})
}
