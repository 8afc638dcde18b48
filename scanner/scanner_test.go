package scanner_test

import (
	"flag"
	"reflect"
	"strings"
	"testing"

	"github.com/yunfengsa/stylelint-nopx/scanner"
	"github.com/yunfengsa/stylelint-nopx/token"
)

// testiter sets the table test iteration to run in isolation.
var testiter = flag.Int("test.iter", -1, "table test number")

// Ensure than the scanner returns appropriate tokens and literals.
func TestScanner_Scan(t *testing.T) {
	var tests = []struct {
		s   string
		tok token.Token
		err string
	}{
		{s: ``, tok: &token.EOF{}},
		{s: `   `, tok: &token.Whitespace{Value: `   `, Pos: token.Pos{Char: 1}}},
		{s: " \n", tok: &token.Whitespace{Value: " \n", Pos: token.Pos{Char: 1}}},
		{s: " \f", tok: &token.Whitespace{Value: " \n", Pos: token.Pos{Char: 1}}},
		{s: " \r ", tok: &token.Whitespace{Value: " \n ", Pos: token.Pos{Char: 1}}},
		{s: " \r\n", tok: &token.Whitespace{Value: " \n", Pos: token.Pos{Char: 1}}},

		{s: `""`, tok: &token.String{Value: ``, Ending: '"', Pos: token.Pos{Char: 1}}},
		{s: `"foo`, tok: &token.String{Value: `foo`, Ending: '"', Raw: `"foo`, Pos: token.Pos{Char: 1}}},
		{s: `"hello world"`, tok: &token.String{Value: `hello world`, Ending: '"', Pos: token.Pos{Char: 1}}},
		{s: `'hello world'`, tok: &token.String{Value: `hello world`, Ending: '\'', Pos: token.Pos{Char: 1}}},
		{s: `'@{size}px'`, tok: &token.String{Value: `@{size}px`, Ending: '\'', Pos: token.Pos{Char: 1}}},
		{s: `'foo\ bar'`, tok: &token.String{Value: `foo bar`, Ending: '\'', Raw: `'foo\ bar'`, Pos: token.Pos{Char: 1}}},
		{s: `'foo\\bar'`, tok: &token.String{Value: `foo\bar`, Ending: '\'', Pos: token.Pos{Char: 1}}},
		{s: `'foo\`, tok: &token.String{Value: `foo`, Ending: '\'', Raw: `'foo\`, Pos: token.Pos{Char: 1}}},
		{s: `'frosty the \2603'`, tok: &token.String{Value: `frosty the ☃`, Ending: '\'', Raw: `'frosty the \2603'`, Pos: token.Pos{Char: 1}}},
		{s: "'foo bar\n", tok: &token.BadString{Raw: `'foo bar`, Pos: token.Pos{Char: 1}}},

		{s: `0`, tok: &token.Number{Type: "integer", Value: `0`, Number: 0.0, Pos: token.Pos{Char: 1}}},
		{s: `1.123`, tok: &token.Number{Type: "number", Value: `1.123`, Number: 1.123, Pos: token.Pos{Char: 1}}},
		{s: `.001`, tok: &token.Number{Type: "number", Value: `.001`, Number: 0.001, Pos: token.Pos{Char: 1}}},
		{s: `-.001`, tok: &token.Number{Type: "number", Value: `-.001`, Number: -0.001, Pos: token.Pos{Char: 1}}},
		{s: `10000.`, tok: &token.Number{Type: "integer", Value: `10000`, Number: 10000, Pos: token.Pos{Char: 1}}},
		{s: `1E2`, tok: &token.Number{Type: "number", Value: `1E2`, Number: 100, Pos: token.Pos{Char: 1}}},
		{s: `1.5E+2`, tok: &token.Number{Type: "number", Value: `1.5E+2`, Number: 150, Pos: token.Pos{Char: 1}}},
		{s: `+100`, tok: &token.Number{Type: "integer", Value: `+100`, Number: 100, Pos: token.Pos{Char: 1}}},
		{s: `-1.0`, tok: &token.Number{Type: "number", Value: `-1.0`, Number: -1, Pos: token.Pos{Char: 1}}},
		{s: `-`, tok: &token.Delim{Value: `-`, Pos: token.Pos{Char: 1}}},
		{s: `-.`, tok: &token.Delim{Value: `-`, Pos: token.Pos{Char: 1}}},
		{s: `.`, tok: &token.Delim{Value: `.`, Pos: token.Pos{Char: 1}}},
		{s: `+`, tok: &token.Delim{Value: `+`, Pos: token.Pos{Char: 1}}},

		{s: `100em`, tok: &token.Dimension{Type: "integer", Value: `100em`, Number: 100, Unit: "em", Pos: token.Pos{Char: 1}}},
		{s: `12px`, tok: &token.Dimension{Type: "integer", Value: `12px`, Number: 12, Unit: "px", Pos: token.Pos{Char: 1}}},
		{s: `-1.2in`, tok: &token.Dimension{Type: "number", Value: `-1.2in`, Number: -1.2, Unit: "in", Pos: token.Pos{Char: 1}}},
		{s: `100%`, tok: &token.Percentage{Type: "integer", Value: `100%`, Number: 100, Pos: token.Pos{Char: 1}}},
		{s: `-0.2%`, tok: &token.Percentage{Type: "number", Value: `-0.2%`, Number: -0.2, Pos: token.Pos{Char: 1}}},

		{s: `url`, tok: &token.Ident{Value: `url`, Pos: token.Pos{Char: 1}}},
		{s: `-url`, tok: &token.Ident{Value: `-url`, Pos: token.Pos{Char: 1}}},
		{s: `--main-color`, tok: &token.Ident{Value: `--main-color`, Pos: token.Pos{Char: 1}}},
		{s: `myIdent`, tok: &token.Ident{Value: `myIdent`, Pos: token.Pos{Char: 1}}},
		{s: `my\2603`, tok: &token.Ident{Value: `my☃`, Raw: `my\2603`, Pos: token.Pos{Char: 1}}},
		{s: `\2603`, tok: &token.Ident{Value: `☃`, Raw: `\2603`, Pos: token.Pos{Char: 1}}},
		{s: "\\\n", tok: &token.Delim{Value: `\`, Pos: token.Pos{Char: 1}}, err: "unescaped \\"},

		{s: `url(`, tok: &token.URL{Value: ``, Raw: `url(`, Pos: token.Pos{Char: 1}}},
		{s: `url(foo`, tok: &token.URL{Value: `foo`, Raw: `url(foo`, Pos: token.Pos{Char: 1}}},
		{s: `url(http://foo.com#bar?baz=bat)`, tok: &token.URL{Value: `http://foo.com#bar?baz=bat`, Pos: token.Pos{Char: 1}}},
		{s: `url(  foo  `, tok: &token.URL{Value: `foo`, Raw: `url(  foo  `, Pos: token.Pos{Char: 1}}},
		{s: `url(foo)`, tok: &token.URL{Value: `foo`, Pos: token.Pos{Char: 1}}},
		{s: `url("foo")`, tok: &token.Function{Value: `url`, Pos: token.Pos{Char: 1}}},
		{s: `url(  'foo')`, tok: &token.Function{Value: `url`, Raw: `url(  `, Pos: token.Pos{Char: 1}}},
		{s: `url(foo bar)`, tok: &token.BadURL{Raw: `url(foo bar)`, Pos: token.Pos{Char: 1}}},
		{s: `url(foo"`, tok: &token.BadURL{Raw: `url(foo"`, Pos: token.Pos{Char: 1}}, err: `invalid url code point: " (U+0022)`},
		{s: `url(foo(`, tok: &token.BadURL{Raw: `url(foo(`, Pos: token.Pos{Char: 1}}, err: `invalid url code point: ( (U+0028)`},

		{s: `myFunc(`, tok: &token.Function{Value: `myFunc`, Pos: token.Pos{Char: 1}}},

		{s: "u+A", tok: &token.UnicodeRange{Start: 10, End: 10, Raw: "u+A", Pos: token.Pos{Char: 1}}},
		{s: "u+1?", tok: &token.UnicodeRange{Start: 16, End: 31, Raw: "u+1?", Pos: token.Pos{Char: 1}}},
		{s: "u+02-04", tok: &token.UnicodeRange{Start: 2, End: 4, Raw: "u+02-04", Pos: token.Pos{Char: 1}}},

		{s: `#foo`, tok: &token.Hash{Value: `foo`, Type: "id", Pos: token.Pos{Char: 1}}},
		{s: `#-x`, tok: &token.Hash{Value: `-x`, Type: "id", Pos: token.Pos{Char: 1}}},
		{s: `#18273`, tok: &token.Hash{Value: `18273`, Type: "unrestricted", Pos: token.Pos{Char: 1}}},
		{s: `#`, tok: &token.Delim{Value: `#`, Pos: token.Pos{Char: 1}}},

		{s: `/`, tok: &token.Delim{Value: `/`, Pos: token.Pos{Char: 1}}},
		{s: `/* this is * a comment */#`, tok: &token.Comment{Value: ` this is * a comment `, Pos: token.Pos{Char: 1}}},
		{s: `/**/`, tok: &token.Comment{Value: ``, Pos: token.Pos{Char: 1}}},
		{s: `/* a **/`, tok: &token.Comment{Value: ` a *`, Pos: token.Pos{Char: 1}}},
		{s: `/* this is a comment`, tok: &token.Comment{Value: ` this is a comment`, Raw: `/* this is a comment`, Pos: token.Pos{Char: 1}}},

		{s: `<`, tok: &token.Delim{Value: "<", Pos: token.Pos{Char: 1}}},
		{s: `<!-`, tok: &token.Delim{Value: "<", Pos: token.Pos{Char: 1}}},
		{s: `<!--`, tok: &token.CDO{Pos: token.Pos{Char: 1}}},
		{s: `-->`, tok: &token.CDC{Pos: token.Pos{Char: 1}}},

		{s: `@`, tok: &token.Delim{Value: "@", Pos: token.Pos{Char: 1}}},
		{s: `@foo`, tok: &token.AtKeyword{Value: "foo", Pos: token.Pos{Char: 1}}},
		{s: `@\2603`, tok: &token.AtKeyword{Value: "☃", Raw: `@\2603`, Pos: token.Pos{Char: 1}}},

		{s: `$=`, tok: &token.SuffixMatch{Pos: token.Pos{Char: 1}}},
		{s: `$X`, tok: &token.Delim{Value: `$`, Pos: token.Pos{Char: 1}}},
		{s: `*=`, tok: &token.SubstringMatch{Pos: token.Pos{Char: 1}}},
		{s: `^=`, tok: &token.PrefixMatch{Pos: token.Pos{Char: 1}}},
		{s: `~=`, tok: &token.IncludeMatch{Pos: token.Pos{Char: 1}}},
		{s: `|=`, tok: &token.DashMatch{Pos: token.Pos{Char: 1}}},
		{s: `||`, tok: &token.Column{Pos: token.Pos{Char: 1}}},
		{s: `|X`, tok: &token.Delim{Value: `|`, Pos: token.Pos{Char: 1}}},

		{s: `,`, tok: &token.Comma{Pos: token.Pos{Char: 1}}},
		{s: `:`, tok: &token.Colon{Pos: token.Pos{Char: 1}}},
		{s: `;`, tok: &token.Semicolon{Pos: token.Pos{Char: 1}}},
		{s: `(`, tok: &token.LParen{Pos: token.Pos{Char: 1}}},
		{s: `)`, tok: &token.RParen{Pos: token.Pos{Char: 1}}},
		{s: `[`, tok: &token.LBrack{Pos: token.Pos{Char: 1}}},
		{s: `]`, tok: &token.RBrack{Pos: token.Pos{Char: 1}}},
		{s: `{`, tok: &token.LBrace{Pos: token.Pos{Char: 1}}},
		{s: `}`, tok: &token.RBrace{Pos: token.Pos{Char: 1}}},
	}

	for i, tt := range tests {
		// Skips over tests if test.iter is set.
		if *testiter > -1 && *testiter != i {
			continue
		}

		// Scan token.
		s := scanner.New(strings.NewReader(tt.s))
		tok := s.Scan()

		// Verify properties.
		if !reflect.DeepEqual(tok, tt.tok) {
			t.Errorf("%d. <%q> tok: =>\n\ngot %#v\n\nwant %#v\n\n", i, tt.s, tok, tt.tok)
		} else if tt.err != "" {
			if len(s.Errors) == 0 {
				t.Errorf("%d. <%q> error expected", i, tt.s)
			} else if len(s.Errors) > 1 {
				t.Errorf("%d. <%q> too many errors occurred", i, tt.s)
			} else if s.Errors[0].Message != tt.err {
				t.Errorf("%d. <%q> error: got %q, want %q", i, tt.s, s.Errors[0].Message, tt.err)
			}
		} else if tt.err == "" && len(s.Errors) > 0 {
			t.Errorf("%d. <%q> unexpected error: %q", i, tt.s, s.Errors[0].Message)
		}
	}
}

// Ensure that a token stream can be scanned and printed back to its source.
func TestScanner_Scan_Sequence(t *testing.T) {
	var tests = []struct {
		s   string
		out string
	}{
		{s: `width: 10px;`, out: `width|:| |10px|;`},
		{s: `@media (max-width: 600px) {}`, out: `@media| |(|max-width|:| |600px|)| |{|}`},
		{s: `@{size}px`, out: `@|{|size|}|px`},
		{s: `border: 1px solid #fff`, out: `border|:| |1px| |solid| |#fff`},
		{s: `background: url(a.png) 2px`, out: `background|:| |url(a.png)| |2px`},
		{s: `width:1px/**/2px`, out: `width|:|1px|/**/|2px`},
		{s: `width:\32 px`, out: `width|:|\32 px`},
		{s: `a/* b */c`, out: `a|/* b */|c`},
	}

	for i, tt := range tests {
		s := scanner.New(strings.NewReader(tt.s))
		var a []string
		for {
			tok := s.Scan()
			if _, ok := tok.(*token.EOF); ok {
				break
			}
			a = append(a, tok.String())
		}
		if out := strings.Join(a, "|"); out != tt.out {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.s, tt.out, out)
		}
	}
}

// Ensure that printing every token reproduces the scanned text, including
// escapes, comments and malformed input.
func TestScanner_Scan_Source(t *testing.T) {
	var tests = []string{
		"a { width: 2px /* c */ }\n/* unterminated",
		`@\6d edia \70 rint { #\66 oo { content: 'a\62 c' } }`,
		`url(  a.png  ) url(a b) url( 'x' ) u+0-7F u+4?? 2\70 x`,
		"'foo bar\nbaz 'x\\",
		`10000. -.5em +3 1e3px 50%`,
	}

	for i, src := range tests {
		s := scanner.New(strings.NewReader(src))
		var buf strings.Builder
		for {
			tok := s.Scan()
			if _, ok := tok.(*token.EOF); ok {
				break
			}
			buf.WriteString(tok.String())
		}
		if out := buf.String(); out != src {
			t.Errorf("%d. <%q>\n\ngot: %s", i, src, out)
		}
	}
}

// Ensure that tokens carry their line and column.
func TestScanner_Scan_Position(t *testing.T) {
	s := scanner.New(strings.NewReader("a {\n  width: 2px;\n}"))
	var dim token.Token
	for {
		tok := s.Scan()
		if _, ok := tok.(*token.EOF); ok {
			break
		} else if _, ok := tok.(*token.Dimension); ok {
			dim = tok
		}
	}
	if dim == nil {
		t.Fatal("expected dimension token")
	} else if pos := dim.Position(); pos != (token.Pos{Line: 1, Char: 10}) {
		t.Fatalf("unexpected position: %#v", pos)
	} else if pos.String() != "2:10" {
		t.Fatalf("unexpected position string: %s", pos.String())
	}
}

// Ensure that a pushed back token is returned again.
func TestScanner_Unscan(t *testing.T) {
	s := scanner.New(strings.NewReader(`foo bar`))
	if tok := s.Scan(); tok.String() != "foo" {
		t.Fatalf("unexpected token: %s", tok)
	}
	s.Unscan()
	if tok := s.Scan(); tok.String() != "foo" {
		t.Fatalf("unexpected token after unscan: %s", tok)
	} else if tok := s.Current(); tok.String() != "foo" {
		t.Fatalf("unexpected current token: %s", tok)
	}
}
