// Package lint runs the no-px check over whole style sheets and collects
// the resulting warnings.
package lint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	nopx "github.com/yunfengsa/stylelint-nopx"
	"github.com/yunfengsa/stylelint-nopx/ast"
	"github.com/yunfengsa/stylelint-nopx/log"
	"github.com/yunfengsa/stylelint-nopx/parser"
	"github.com/yunfengsa/stylelint-nopx/scanner"
	"github.com/yunfengsa/stylelint-nopx/token"
)

const (
	// RuleName is the name warnings are reported under.
	RuleName = "dxymom/no-px"

	// Message is the text of every warning.
	Message = "Use rpx instead of px"
)

// Warning severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Options represents the configuration of a Linter.
type Options struct {
	// Enabled turns the rule on. A disabled linter reports nothing.
	Enabled bool

	// Severity is copied into every warning. Defaults to SeverityError.
	Severity string

	// Secondary holds the check options. Nil uses the defaults.
	Secondary *nopx.Options

	// CacheSize is the number of verdicts memoized per linter.
	// Zero or less disables memoization.
	CacheSize int

	// Logger receives syntax error reports. Defaults to the global logger.
	Logger log.Logger
}

// Warning represents a single reported node.
type Warning struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Text     string `json:"text"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Node     string `json:"node"`
}

// Result represents the warnings reported for one source.
type Result struct {
	Source   string    `json:"source"`
	Warnings []Warning `json:"warnings"`
}

// HasErrors returns true if any warning has error severity.
func (r *Result) HasErrors() bool {
	for _, w := range r.Warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ReportFunc is called once for every node that uses a forbidden px length.
type ReportFunc func(w Warning)

// Linter checks style sheets. It is safe for concurrent use.
type Linter struct {
	enabled     bool
	severity    string
	opts        *nopx.OptionSet
	fingerprint string
	verdicts    *lru.Cache[verdictKey, bool]
	logger      log.Logger
}

// verdictKey identifies a checked node independently of its position.
type verdictKey struct {
	kind nopx.Kind
	prop string
	text string
}

// New returns a linter for the given options.
// The check options are resolved once here.
func New(opts Options) *Linter {
	l := &Linter{
		enabled:  opts.Enabled,
		severity: opts.Severity,
		opts:     nopx.Resolve(opts.Secondary),
		logger:   opts.Logger,
	}
	if l.severity == "" {
		l.severity = SeverityError
	}
	if l.logger == nil {
		l.logger = log.GetLogger()
	}
	if opts.CacheSize > 0 {
		// Only fails for non-positive sizes.
		l.verdicts, _ = lru.New[verdictKey, bool](opts.CacheSize)
	}
	l.fingerprint = fingerprint(l.enabled, l.severity, l.opts)
	return l
}

// Fingerprint returns a digest of the options that affect lint results.
// Results computed under one fingerprint are valid for any linter with the
// same fingerprint.
func (l *Linter) Fingerprint() string {
	return l.fingerprint
}

// Fingerprint returns the fingerprint of a linter built from opts.
func (opts Options) Fingerprint() string {
	severity := opts.Severity
	if severity == "" {
		severity = SeverityError
	}
	return fingerprint(opts.Enabled, severity, nopx.Resolve(opts.Secondary))
}

func fingerprint(enabled bool, severity string, opts *nopx.OptionSet) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%t|%s|%s", RuleName, enabled, severity, opts)))
	return hex.EncodeToString(sum[:])
}

// Lint checks every declaration and then every at-rule of ss, including
// those nested in other rules, and calls report for each offending node.
// Returns the first error from tokenizing a node, after which nothing more
// is reported.
func (l *Linter) Lint(ss *ast.StyleSheet, report ReportFunc) error {
	if !l.enabled || ss == nil {
		return nil
	}

	var err error
	ast.WalkDecls(ss, func(d *ast.Declaration) {
		if err != nil {
			return
		}
		var found bool
		if found, err = l.check(nopx.FromDeclaration(d)); err != nil {
			err = fmt.Errorf("declaration %q at %s: %w", d.Name, d.Pos, err)
		} else if found {
			report(l.warning(d.Pos, d.Name+": "+d.Value()))
		}
	})
	if err != nil {
		return err
	}

	ast.WalkAtRules(ss, func(r *ast.AtRule) {
		if err != nil {
			return
		}
		var found bool
		if found, err = l.check(nopx.FromAtRule(r)); err != nil {
			err = fmt.Errorf("at-rule @%s at %s: %w", r.Name, r.Pos, err)
		} else if found {
			report(l.warning(r.Pos, strings.TrimSpace("@"+r.Name+" "+r.Params())))
		}
	})
	return err
}

// LintSource parses the style sheet read from r and lints it. Syntax errors
// are logged and linting continues with the rules the parser recovered.
func (l *Linter) LintSource(name string, r io.Reader) (*Result, error) {
	ss, err := parser.ParseStyleSheet(scanner.New(r))
	if err != nil {
		l.logger.Warn(map[string]any{
			"source": name,
			"error":  err.Error(),
		}, "style sheet has syntax errors")
	}

	result := &Result{Source: name, Warnings: []Warning{}}
	if err := l.Lint(ss, func(w Warning) {
		result.Warnings = append(result.Warnings, w)
	}); err != nil {
		return nil, fmt.Errorf("lint %s: %w", name, err)
	}

	l.logger.Debug(map[string]any{
		"source":   name,
		"warnings": len(result.Warnings),
	}, "linted style sheet")
	return result, nil
}

// check returns the memoized verdict for n, computing it on a miss.
func (l *Linter) check(n nopx.Node) (bool, error) {
	if l.verdicts == nil {
		return nopx.HasForbiddenPX(n, l.opts)
	}

	key := verdictKey{kind: n.Kind, prop: n.Prop, text: n.Text}
	if found, ok := l.verdicts.Get(key); ok {
		return found, nil
	}
	found, err := nopx.HasForbiddenPX(n, l.opts)
	if err != nil {
		return false, err
	}
	l.verdicts.Add(key, found)
	return found, nil
}

// warning returns a warning for the node at pos.
func (l *Linter) warning(pos token.Pos, node string) Warning {
	return Warning{
		Rule:     RuleName,
		Severity: l.severity,
		Text:     Message + " (" + RuleName + ")",
		Line:     pos.Line + 1,
		Column:   pos.Char,
		Node:     node,
	}
}
