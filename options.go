package nopx

import (
	"regexp"
	"sort"
	"strings"
)

// IgnoreOnePX is the Ignore entry that allows 1px lengths on every property.
const IgnoreOnePX = "1px"

// onePXSuffix matches the marker that scopes an Ignore entry to 1px lengths.
var onePXSuffix = regexp.MustCompile(`\s+1px$`)

// Options represents the user-facing options of the check.
type Options struct {
	// Ignore lists property name fragments to exempt. A nil slice means
	// the option was not set and resolves to []string{"1px"}. An empty
	// slice exempts nothing.
	Ignore []string `json:"ignore,omitempty"`

	// IgnoreFunctions lists function names whose arguments are not checked.
	IgnoreFunctions []string `json:"ignoreFunctions,omitempty"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{Ignore: []string{IgnoreOnePX}}
}

// OptionSet represents resolved options. It is immutable and safe for
// concurrent use.
type OptionSet struct {
	props           []string
	onePXProps      []string
	ignoreOnePX     bool
	ignoreFunctions map[string]struct{}
}

// Resolve applies defaults to opts and splits the ignore list into its
// property and 1px-only fragments. A nil opts resolves to DefaultOptions.
func Resolve(opts *Options) *OptionSet {
	if opts == nil {
		opts = DefaultOptions()
	}

	ignore := opts.Ignore
	if ignore == nil {
		ignore = DefaultOptions().Ignore
	}

	set := &OptionSet{ignoreFunctions: make(map[string]struct{}, len(opts.IgnoreFunctions))}
	for _, item := range ignore {
		switch {
		case item == IgnoreOnePX:
			set.ignoreOnePX = true
		case onePXSuffix.MatchString(item):
			set.onePXProps = append(set.onePXProps, onePXSuffix.ReplaceAllString(item, ""))
		default:
			set.props = append(set.props, item)
		}
	}
	for _, name := range opts.IgnoreFunctions {
		set.ignoreFunctions[name] = struct{}{}
	}
	return set
}

// IgnoresProp returns true if prop contains a fragment that exempts the
// whole declaration.
func (s *OptionSet) IgnoresProp(prop string) bool {
	return containsAny(prop, s.props)
}

// AllowsOnePX returns true if 1px lengths are allowed on prop. An empty
// prop, as used for at-rules, only checks the global exemption.
func (s *OptionSet) AllowsOnePX(prop string) bool {
	return s.ignoreOnePX || containsAny(prop, s.onePXProps)
}

// IgnoresFunction returns true if the arguments of the named function are
// not checked. Names are case-sensitive.
func (s *OptionSet) IgnoresFunction(name string) bool {
	if name == "url" {
		return true
	}
	_, ok := s.ignoreFunctions[name]
	return ok
}

// String returns a canonical representation of the resolved options.
func (s *OptionSet) String() string {
	fns := make([]string, 0, len(s.ignoreFunctions))
	for name := range s.ignoreFunctions {
		fns = append(fns, name)
	}
	sort.Strings(fns)

	var sb strings.Builder
	sb.WriteString("props=" + strings.Join(s.props, ","))
	sb.WriteString(";1px=" + strings.Join(s.onePXProps, ","))
	if s.ignoreOnePX {
		sb.WriteString(";all1px")
	}
	sb.WriteString(";functions=" + strings.Join(fns, ","))
	return sb.String()
}

// containsAny returns true if s is non-empty and contains any fragment.
func containsAny(s string, fragments []string) bool {
	if s == "" {
		return false
	}
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
