package nopx

import (
	"github.com/yunfengsa/stylelint-nopx/ast"
	"github.com/yunfengsa/stylelint-nopx/token"
	"github.com/yunfengsa/stylelint-nopx/value"
)

// Kind represents the kind of style sheet node being checked.
type Kind int

const (
	DeclKind Kind = iota
	AtRuleKind
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case DeclKind:
		return "decl"
	case AtRuleKind:
		return "atrule"
	}
	return ""
}

// Node represents a declaration or at-rule to check.
type Node struct {
	Kind Kind
	Prop string // declaration property, empty for at-rules
	Text string // declaration value or at-rule params
	Pos  token.Pos
}

// Decl returns a declaration node.
func Decl(prop, val string) Node {
	return Node{Kind: DeclKind, Prop: prop, Text: val}
}

// AtRule returns an at-rule node with the given params.
func AtRule(params string) Node {
	return Node{Kind: AtRuleKind, Text: params}
}

// FromDeclaration returns the node for a parsed declaration.
// The value excludes the "!important" flag.
func FromDeclaration(d *ast.Declaration) Node {
	return Node{Kind: DeclKind, Prop: d.Name, Text: d.Value(), Pos: d.Pos}
}

// FromAtRule returns the node for a parsed at-rule.
func FromAtRule(r *ast.AtRule) Node {
	return Node{Kind: AtRuleKind, Text: r.Params(), Pos: r.Pos}
}

// HasForbiddenPX returns true if the node uses a px length that opts do not
// allow. A nil opts uses the defaults. Returns an error only if the node
// text cannot be tokenized.
func HasForbiddenPX(n Node, opts *OptionSet) (bool, error) {
	if opts == nil {
		opts = Resolve(nil)
	}

	// Plain ignore entries exempt the declaration before any token is read.
	var prop string
	if n.Kind == DeclKind {
		if opts.IgnoresProp(n.Prop) {
			return false, nil
		}
		prop = n.Prop
	}

	nodes, err := value.Parse(n.Text)
	if err != nil {
		return false, err
	}

	var found bool
	value.Walk(nodes, func(v *value.Node) value.Action {
		switch v.Type {
		case value.Function:
			if opts.IgnoresFunction(v.Value) {
				return value.SkipChildren
			}
		case value.Word:
			px, ok := MatchPixel(v.Value)
			if !ok || px.IsZero() {
				return value.Continue
			} else if px.IsOne() && opts.AllowsOnePX(prop) {
				return value.Continue
			}
			found = true
			return value.Stop
		case value.String:
			if HasPlaceholderPixel(v.Value) {
				found = true
				return value.Stop
			}
		}
		return value.Continue
	})
	return found, nil
}
