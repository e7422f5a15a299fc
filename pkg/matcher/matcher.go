// Package matcher scores a free-text value against a pool of canonical
// candidates and classifies the best match into a Status tier.
//
// A Matcher is stateless apart from its Config and is safe for concurrent
// use. Candidate pools come from the reference index; the matcher never
// widens or narrows them.
package matcher

import (
	"cmp"
	"slices"

	"github.com/gridlot/mastermatch/internal/utils/ptr"
	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/normalize"
)

// Result is the outcome of matching one field.
type Result struct {
	OriginalValue   string   `json:"originalValue" yaml:"original_value"`
	NormalizedValue string   `json:"normalizedValue" yaml:"normalized_value"`
	MatchedValue    *string  `json:"matchedValue" yaml:"matched_value"`
	Confidence      float64  `json:"confidence" yaml:"confidence"`
	Status          Status   `json:"status" yaml:"status"`
	Suggestions     []string `json:"suggestions" yaml:"suggestions"`
}

// Matched returns the matched canonical display value, or "" when the field
// was not accepted.
func (r Result) Matched() string {
	return ptr.Deref(r.MatchedValue)
}

// Matcher matches field values against candidate pools.
type Matcher struct {
	cfg Config
}

// New creates a Matcher after validating cfg.
func New(cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{cfg: cfg}, nil
}

// Config returns the matcher's configuration.
func (m *Matcher) Config() Config {
	return m.cfg
}

type scored struct {
	candidate catalog.Candidate
	score     float64
	distance  int
	runes     int
}

// Match normalizes input and scores it against every candidate.
//
// An exact normalized match yields Exact with confidence 100. Otherwise the
// best score is tiered against the configured thresholds. Suggestions hold
// up to MaxSuggestions display values from the ranking whenever the pool is
// non-empty, regardless of status.
func (m *Matcher) Match(input string, candidates []catalog.Candidate) Result {
	normalized := normalize.String(input)
	result := Result{
		OriginalValue:   input,
		NormalizedValue: normalized,
		Status:          NoMatch,
		Suggestions:     []string{},
	}
	if normalized == "" || len(candidates) == 0 {
		return result
	}

	ranked := rank(normalized, candidates)
	best := ranked[0]
	result.Suggestions = suggestions(ranked, m.cfg.MaxSuggestions)
	result.Confidence = best.score

	if best.candidate.Normalized == normalized {
		result.Status = Exact
	} else {
		result.Status = m.cfg.Classify(best.score)
	}
	if result.Status.Accepted() {
		result.MatchedValue = ptr.String(best.candidate.Display)
	}
	return result
}

// rank scores every candidate against normalized and orders them by score
// descending, then edit distance, candidate length and display value.
func rank(normalized string, candidates []catalog.Candidate) []scored {
	input := []rune(normalized)
	out := make([]scored, len(candidates))
	for i, c := range candidates {
		cr := []rune(c.Normalized)
		score, dist := similarity(input, cr)
		out[i] = scored{candidate: c, score: score, distance: dist, runes: len(cr)}
	}
	slices.SortStableFunc(out, func(a, b scored) int {
		return cmp.Or(
			cmp.Compare(b.score, a.score),
			cmp.Compare(a.distance, b.distance),
			cmp.Compare(a.runes, b.runes),
			cmp.Compare(a.candidate.Display, b.candidate.Display),
		)
	})
	return out
}

func suggestions(ranked []scored, limit int) []string {
	out := make([]string, 0, min(limit, len(ranked)))
	seen := make(map[string]bool, cap(out))
	for _, s := range ranked {
		if len(out) >= limit {
			break
		}
		if seen[s.candidate.Display] {
			continue
		}
		seen[s.candidate.Display] = true
		out = append(out, s.candidate.Display)
	}
	return out
}
