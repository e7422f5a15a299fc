// Package pattern filters catalog listings with glob or regular expression
// patterns. Matching is case-insensitive.
package pattern

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/gridlot/mastermatch/pkg/catalog"
)

// Type is the kind of pattern.
type Type int

const (
	// Glob uses shell-style patterns (*, ?, []).
	Glob Type = iota
	// Regex uses regular expressions, unanchored.
	Regex
	// Auto picks Regex when the pattern uses regex-only syntax and Glob otherwise.
	Auto
)

// String returns the name of the pattern type.
func (t Type) String() string {
	switch t {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Matcher tests strings against a compiled pattern. It is safe for
// concurrent use.
type Matcher struct {
	pattern string
	typ     Type
	glob    string
	re      *regexp.Regexp
}

// New compiles pattern. Auto is resolved at compile time.
func New(typ Type, pattern string) (*Matcher, error) {
	if typ == Auto {
		typ = detect(pattern)
	}

	m := &Matcher{pattern: pattern, typ: typ}
	switch typ {
	case Glob:
		m.glob = strings.ToLower(pattern)
		if _, err := path.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.re = re
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", typ)
	}
	return m, nil
}

// Pattern returns the pattern as given.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Type returns the resolved pattern type.
func (m *Matcher) Type() Type {
	return m.typ
}

// Match reports whether s matches the pattern.
func (m *Matcher) Match(s string) bool {
	if m.re != nil {
		return m.re.MatchString(s)
	}
	ok, _ := path.Match(m.glob, strings.ToLower(s))
	return ok
}

// Candidates keeps the candidates whose display form matches, in order.
func (m *Matcher) Candidates(cands []catalog.Candidate) []catalog.Candidate {
	out := make([]catalog.Candidate, 0, len(cands))
	for _, c := range cands {
		if m.Match(c.Display) {
			out = append(out, c)
		}
	}
	return out
}

// FilterCandidates is a convenience for a one-off Auto pattern. An empty
// pattern keeps everything.
func FilterCandidates(pattern string, cands []catalog.Candidate) ([]catalog.Candidate, error) {
	if pattern == "" {
		return cands, nil
	}
	m, err := New(Auto, pattern)
	if err != nil {
		return nil, err
	}
	return m.Candidates(cands), nil
}

// detect treats anchors, alternation, grouping and quantifiers other than
// a bare * as regex syntax.
func detect(pattern string) Type {
	if strings.HasPrefix(pattern, "^") || strings.HasSuffix(pattern, "$") {
		return Regex
	}
	if strings.ContainsAny(pattern, "|()+{}\\") || strings.Contains(pattern, ".*") {
		return Regex
	}
	return Glob
}
