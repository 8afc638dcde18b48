package parser

import (
	"fmt"
	"strings"

	"github.com/yunfengsa/stylelint-nopx/ast"
	"github.com/yunfengsa/stylelint-nopx/token"
)

// declarationAtRules lists at-rules whose block is a declaration list even
// when it contains nested blocks (e.g. @page margin boxes).
var declarationAtRules = map[string]bool{
	"font-face":           true,
	"page":                true,
	"counter-style":       true,
	"property":            true,
	"viewport":            true,
	"font-palette-values": true,
}

// parser represents a CSS3 parser.
type parser struct {
	errors ErrorList
}

// ParseStyleSheet parses an input stream into a stylesheet.
// The {-blocks of rules are re-parsed as nested rules or declarations.
// A stylesheet is always returned, even when syntax errors occurred.
func ParseStyleSheet(s Scanner) (*ast.StyleSheet, error) {
	var p parser
	ss := &ast.StyleSheet{}
	ss.Rules = p.consumeRules(s, true)
	p.expandRules(ss.Rules)
	return ss, p.error()
}

// ParseRules parses a list of rules.
func ParseRules(s Scanner) (ast.Rules, error) {
	var p parser
	a := p.consumeRules(s, false)
	p.expandRules(a)
	return a, p.error()
}

// ParseRule parses a qualified rule or at-rule.
func ParseRule(s Scanner) (ast.Rule, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is EOF then return an error.
	var r ast.Rule
	switch tok := s.Scan().(type) {
	case *token.EOF:
		p.errors = append(p.errors, &Error{Message: "unexpected EOF", Pos: tok.Pos})
		return nil, p.error()
	case *token.AtKeyword:
		r = p.consumeAtRule(s)
	default:
		s.Unscan()
		qr := p.consumeQualifiedRule(s)
		if qr == nil {
			return nil, p.error()
		}
		r = qr
	}

	// Skip over any trailing whitespace.
	p.skipWhitespace(s)

	// If we're not at EOF then return a syntax error.
	if _, ok := s.Scan().(*token.EOF); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected EOF, got %s", s.Current().String()), Pos: s.Current().Position()})
		return nil, p.error()
	}

	p.expandRules(ast.Rules{r})
	return r, p.error()
}

// ParseDeclaration parses a name/value declaration.
func ParseDeclaration(s Scanner) (*ast.Declaration, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is not an ident then return an error.
	if _, ok := s.Scan().(*token.Ident); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected ident, got %s", s.Current().String()), Pos: s.Current().Position()})
		return nil, p.error()
	}
	s.Unscan()

	// Consume a declaration. If nothing is returned, return syntax error.
	d := p.consumeDeclaration(p.consumeValuesUntilSemicolon(s))
	if d == nil {
		return nil, p.error()
	}

	return d, p.error()
}

// ParseDeclarations parses a list of declarations, at-rules and nested rules.
func ParseDeclarations(s Scanner) (ast.Declarations, error) {
	var p parser
	a := p.consumeDeclarations(s)
	return a, p.error()
}

// ParseComponentValue parses a component value.
func ParseComponentValue(s Scanner) (ast.ComponentValue, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is EOF then return an error.
	if _, ok := s.Scan().(*token.EOF); ok {
		p.errors = append(p.errors, &Error{Message: "unexpected EOF", Pos: s.Current().Position()})
		return nil, p.error()
	}
	s.Unscan()

	// Consume component value.
	v := p.consumeComponentValue(s)
	if v == nil {
		p.errors = append(p.errors, &Error{Message: "expected component value", Pos: s.Current().Position()})
		return nil, p.error()
	}

	// Skip over any trailing whitespace.
	p.skipWhitespace(s)

	// If we're not at EOF then return a syntax error.
	if _, ok := s.Scan().(*token.EOF); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected EOF, got %q", s.Current().String()), Pos: s.Current().Position()})
		return nil, p.error()
	}

	return v, nil
}

// ParseComponentValues parses a list of component values.
func ParseComponentValues(s Scanner) (ast.ComponentValues, error) {
	var a ast.ComponentValues

	// Repeatedly consume a component value until EOF.
	var p parser
	for {
		v := p.consumeComponentValue(s)

		// If the value is an EOF, then exit.
		if isEOF(v) {
			break
		}

		// Otherwise append to list of component values.
		a = append(a, v)
	}

	return a, nil
}

// Errors returns the error on the parser.
// Returns nil if there are no errors.
func (p *parser) error() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors
}

// consumeRules consumes a list of rules from a token stream. (§5.4.1)
func (p *parser) consumeRules(s Scanner, toplevel bool) ast.Rules {
	var a ast.Rules
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Whitespace, *token.Comment:
			// nop
		case *token.EOF:
			return a
		case *token.CDO, *token.CDC:
			if !toplevel {
				s.Unscan()
				if r := p.consumeQualifiedRule(s); r != nil {
					a = append(a, r)
				}
			}
		case *token.AtKeyword:
			a = append(a, p.consumeAtRule(s))
		default:
			s.Unscan()
			if r := p.consumeQualifiedRule(s); r != nil {
				a = append(a, r)
			}
		}
	}
}

// consumeAtRule consumes a single at-rule. (§5.4.2)
// The current token must be the at-keyword.
func (p *parser) consumeAtRule(s Scanner) *ast.AtRule {
	r := &ast.AtRule{}

	// Set the name to the value of the current token.
	atkeyword := s.Current().(*token.AtKeyword)
	r.Name = atkeyword.Value
	r.Pos = atkeyword.Pos

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Semicolon, *token.EOF:
			return r
		case *token.LBrace:
			r.Block = p.consumeSimpleBlock(s)
			return r
		default:
			s.Unscan()
			r.Prelude = append(r.Prelude, p.consumeComponentValue(s))
		}
	}
}

// consumeQualifiedRule consumes a single qualified rule. (§5.4.3)
func (p *parser) consumeQualifiedRule(s Scanner) *ast.QualifiedRule {
	r := &ast.QualifiedRule{}

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		if len(r.Prelude) == 0 {
			r.Pos = tok.Position()
		}
		switch tok := tok.(type) {
		case *token.EOF:
			p.errors = append(p.errors, &Error{Message: "unexpected EOF", Pos: tok.Pos})
			return nil
		case *token.LBrace:
			r.Block = p.consumeSimpleBlock(s)
			return r
		default:
			s.Unscan()
			r.Prelude = append(r.Prelude, p.consumeComponentValue(s))
		}
	}
}

// consumeDeclarations consumes a list of declarations. (§5.4.4)
//
// A run of component values that ends with a {-block is consumed as a nested
// qualified rule, as in CSS nesting and preprocessor sources.
func (p *parser) consumeDeclarations(s Scanner) ast.Declarations {
	var a ast.Declarations

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		switch tok := tok.(type) {
		case *token.Whitespace, *token.Comment, *token.Semicolon:
			// nop
		case *token.EOF:
			return a
		case *token.AtKeyword:
			r := p.consumeAtRule(s)
			p.expandAtRule(r)
			a = append(a, r)
		default:
			s.Unscan()
			values := p.consumeValuesUntilSemicolon(s)

			if r := nestedRule(values); r != nil {
				p.expandQualifiedRule(r)
				a = append(a, r)
			} else if _, ok := tok.(*token.Ident); ok {
				if d := p.consumeDeclaration(values); d != nil {
					a = append(a, d)
				}
			} else {
				// Any other token is a syntax error.
				p.errors = append(p.errors, &Error{Message: fmt.Sprintf("unexpected %s", tok.String()), Pos: tok.Position()})
			}
		}
	}
}

// consumeDeclaration builds a single declaration from its component values. (§5.4.5)
// Returns nil and records an error if the values are not a valid declaration.
func (p *parser) consumeDeclaration(values ast.ComponentValues) *ast.Declaration {
	d := &ast.Declaration{}
	s := NewValueScanner(values)

	// The first value must be an ident.
	p.skipValueWhitespace(s)
	v := s.next()
	ident, ok := asToken(v).(*token.Ident)
	if !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected ident, got %s", stringOf(v)), Pos: positionOf(v)})
		return nil
	}
	d.Name = ident.Value
	d.Pos = ident.Pos

	// Skip over whitespace.
	p.skipValueWhitespace(s)

	// The next value must be a colon.
	v = s.next()
	if _, ok := asToken(v).(*token.Colon); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected colon, got %s", stringOf(v)), Pos: positionOf(v)})
		return nil
	}

	// The remaining values make up the declaration value.
	d.Values = s.rest()

	// Check last two non-whitespace tokens for "!important".
	d.Values, d.Important = cleanImportantFlag(d.Values)

	return d
}

// Checks if the last two non-whitespace tokens are a case-insensitive "!important".
// If so, it removes them and returns the "important" flag set to true.
// Comments count as whitespace.
func cleanImportantFlag(values ast.ComponentValues) (ast.ComponentValues, bool) {
	var idx []int
	for i := len(values) - 1; i >= 0 && len(idx) < 2; i-- {
		if isTrivia(asToken(values[i])) {
			continue
		}
		idx = append(idx, i)
	}
	if len(idx) < 2 {
		return values, false
	}

	ident, ok := asToken(values[idx[0]]).(*token.Ident)
	if !ok || !strings.EqualFold(ident.Value, "important") {
		return values, false
	}
	delim, ok := asToken(values[idx[1]]).(*token.Delim)
	if !ok || delim.Value != "!" {
		return values, false
	}
	return values[:idx[1]], true
}

// consumeComponentValue consumes a single component value. (§5.4.6)
func (p *parser) consumeComponentValue(s Scanner) ast.ComponentValue {
	tok := s.Scan()
	switch tok.(type) {
	case *token.LBrace, *token.LBrack, *token.LParen:
		return p.consumeSimpleBlock(s)
	case *token.Function:
		return p.consumeFunction(s)
	default:
		return &ast.Token{Token: tok}
	}
}

// consumeSimpleBlock consumes a simple block. (§5.4.7)
func (p *parser) consumeSimpleBlock(s Scanner) *ast.SimpleBlock {
	b := &ast.SimpleBlock{}

	// Set the block's associated token to the current token.
	b.Token = s.Current()

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token then return.
		switch tok.(type) {
		case *token.EOF:
			return b
		case *token.RBrack:
			if _, ok := b.Token.(*token.LBrack); ok {
				return b
			}
		case *token.RBrace:
			if _, ok := b.Token.(*token.LBrace); ok {
				return b
			}
		case *token.RParen:
			if _, ok := b.Token.(*token.LParen); ok {
				return b
			}
		}

		// Otherwise consume a component value.
		s.Unscan()
		b.Values = append(b.Values, p.consumeComponentValue(s))
	}
}

// consumeFunction consumes a function. (§5.4.8)
func (p *parser) consumeFunction(s Scanner) *ast.Function {
	f := &ast.Function{}

	// Set the name to the first token.
	fn := s.Current().(*token.Function)
	f.Name, f.Raw, f.Pos = fn.Value, fn.Raw, fn.Pos

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token then return.
		switch tok.(type) {
		case *token.EOF, *token.RParen:
			return f
		}

		// Otherwise consume a component value.
		s.Unscan()
		f.Values = append(f.Values, p.consumeComponentValue(s))
	}
}

// consumeValuesUntilSemicolon collects component values up to the next
// semicolon or EOF, or up to and including a {-block.
func (p *parser) consumeValuesUntilSemicolon(s Scanner) ast.ComponentValues {
	var a ast.ComponentValues
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Semicolon, *token.EOF:
			s.Unscan()
			return a
		}
		s.Unscan()

		v := p.consumeComponentValue(s)
		a = append(a, v)
		if isBraceBlock(v) {
			return a
		}
	}
}

// expandRules re-parses the blocks of each rule in place.
func (p *parser) expandRules(a ast.Rules) {
	for _, r := range a {
		switch r := r.(type) {
		case *ast.AtRule:
			p.expandAtRule(r)
		case *ast.QualifiedRule:
			p.expandQualifiedRule(r)
		}
	}
}

// expandQualifiedRule parses the rule's block as a list of declarations.
func (p *parser) expandQualifiedRule(r *ast.QualifiedRule) {
	if r.Block == nil {
		return
	}
	r.Declarations = p.consumeDeclarations(NewTokenScanner(flatten(r.Block.Values)))
}

// expandAtRule parses the rule's block as either a list of rules or a list
// of declarations. Blocks that contain nested {-blocks are rule lists unless
// the at-rule is known to hold declarations.
func (p *parser) expandAtRule(r *ast.AtRule) {
	if r.Block == nil {
		return
	}

	tokens := flatten(r.Block.Values)
	if declarationAtRules[strings.ToLower(r.Name)] || !containsBraceBlock(r.Block.Values) {
		r.Declarations = p.consumeDeclarations(NewTokenScanner(tokens))
		return
	}
	r.Rules = p.consumeRules(NewTokenScanner(tokens), false)
	p.expandRules(r.Rules)
}

// skipWhitespace skips over all contiguous whitespace and comment tokens.
func (p *parser) skipWhitespace(s Scanner) {
	for {
		if !isTrivia(s.Scan()) {
			s.Unscan()
			return
		}
	}
}

// skipValueWhitespace skips over all contiguous whitespace and comment values.
func (p *parser) skipValueWhitespace(s *ValueScanner) {
	for {
		if !isTrivia(asToken(s.peek())) {
			return
		}
		s.next()
	}
}

// isTrivia returns true if tok is whitespace or a comment.
func isTrivia(tok token.Token) bool {
	switch tok.(type) {
	case *token.Whitespace, *token.Comment:
		return true
	}
	return false
}

// nestedRule returns a qualified rule if values end with a {-block.
func nestedRule(values ast.ComponentValues) *ast.QualifiedRule {
	if len(values) == 0 || !isBraceBlock(values[len(values)-1]) {
		return nil
	}
	r := &ast.QualifiedRule{
		Prelude: values[:len(values)-1],
		Block:   values[len(values)-1].(*ast.SimpleBlock),
		Pos:     ast.Position(values),
	}
	return r
}

// flatten converts component values back into the token stream they were
// consumed from so a block can be reparsed.
func flatten(values ast.ComponentValues) []token.Token {
	var a []token.Token
	for _, v := range values {
		switch v := v.(type) {
		case *ast.Token:
			a = append(a, v.Token)
		case *ast.Function:
			a = append(a, &token.Function{Value: v.Name, Raw: v.Raw, Pos: v.Pos})
			a = append(a, flatten(v.Values)...)
			a = append(a, &token.RParen{})
		case *ast.SimpleBlock:
			a = append(a, v.Token)
			a = append(a, flatten(v.Values)...)
			switch v.Token.(type) {
			case *token.LBrace:
				a = append(a, &token.RBrace{})
			case *token.LBrack:
				a = append(a, &token.RBrack{})
			case *token.LParen:
				a = append(a, &token.RParen{})
			}
		}
	}
	return a
}

func isBraceBlock(v ast.ComponentValue) bool {
	if b, ok := v.(*ast.SimpleBlock); ok {
		_, ok := b.Token.(*token.LBrace)
		return ok
	}
	return false
}

func containsBraceBlock(values ast.ComponentValues) bool {
	for _, v := range values {
		if isBraceBlock(v) {
			return true
		}
	}
	return false
}

func isEOF(v ast.ComponentValue) bool {
	_, ok := asToken(v).(*token.EOF)
	return ok
}

// asToken returns the token wrapped by v, or nil if v is not a token.
func asToken(v ast.ComponentValue) token.Token {
	if t, ok := v.(*ast.Token); ok {
		return t.Token
	}
	return nil
}

func stringOf(v ast.ComponentValue) string {
	if v == nil {
		return "EOF"
	}
	return v.String()
}

func positionOf(v ast.ComponentValue) token.Pos {
	if v == nil {
		return token.Pos{}
	}
	return ast.Position(v)
}

// Scanner represents a type that can retrieve the next token.
type Scanner interface {
	Current() token.Token
	Scan() token.Token
	Unscan()
}

// TokenScanner represents a scanner for a fixed list of tokens.
type TokenScanner struct {
	i      int
	tokens []token.Token
}

// NewTokenScanner returns a new instance of TokenScanner.
func NewTokenScanner(tokens []token.Token) *TokenScanner {
	return &TokenScanner{i: -1, tokens: tokens}
}

// Current returns the current token.
func (s *TokenScanner) Current() token.Token {
	if s.i < 0 || s.i >= len(s.tokens) {
		return &token.EOF{}
	}
	return s.tokens[s.i]
}

// Scan returns the next token.
func (s *TokenScanner) Scan() token.Token {
	if s.i < len(s.tokens) {
		s.i++
	}
	return s.Current()
}

// Unscan moves back one token.
func (s *TokenScanner) Unscan() {
	if s.i > -1 {
		s.i--
	}
}

// ValueScanner iterates over a fixed list of component values.
type ValueScanner struct {
	i      int
	values ast.ComponentValues
}

// NewValueScanner returns a new instance of ValueScanner.
func NewValueScanner(values ast.ComponentValues) *ValueScanner {
	return &ValueScanner{values: values}
}

// peek returns the next value without consuming it, or nil at the end.
func (s *ValueScanner) peek() ast.ComponentValue {
	if s.i >= len(s.values) {
		return nil
	}
	return s.values[s.i]
}

// next consumes and returns the next value, or nil at the end.
func (s *ValueScanner) next() ast.ComponentValue {
	v := s.peek()
	if v != nil {
		s.i++
	}
	return v
}

// rest returns all remaining values.
func (s *ValueScanner) rest() ast.ComponentValues {
	if s.i >= len(s.values) {
		return nil
	}
	return s.values[s.i:]
}

// Error represents a syntax error.
type Error struct {
	Message string
	Pos     token.Pos
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}

// ErrorList represents a list of syntax errors.
type ErrorList []error

// Error returns the formatted string error message.
func (a ErrorList) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}
