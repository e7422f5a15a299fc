package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/normalize"
)

func candidates(displays ...string) []catalog.Candidate {
	out := make([]catalog.Candidate, len(displays))
	for i, d := range displays {
		out[i] = catalog.Candidate{Display: d, Normalized: normalize.String(d)}
	}
	return out
}

func newMatcher(t *testing.T, cfg matcher.Config) *matcher.Matcher {
	t.Helper()
	m, err := matcher.New(cfg)
	require.NoError(t, err)
	return m
}

func TestMatchExact(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	tests := []struct {
		name  string
		input string
		pool  []catalog.Candidate
		want  string
	}{
		{"case folded", "honda", candidates("Honda", "Toyota"), "Honda"},
		{"punctuation folded", "EXL", candidates("EX", "EX-L", "Sport"), "EX-L"},
		{"whitespace folded", "  land   rover ", candidates("Land Rover"), "Land Rover"},
		{"single candidate", "Camry", candidates("Camry"), "Camry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.input, tt.pool)
			assert.Equal(t, matcher.Exact, got.Status)
			assert.Equal(t, 100.0, got.Confidence)
			require.NotNil(t, got.MatchedValue)
			assert.Equal(t, tt.want, *got.MatchedValue)
			assert.Equal(t, tt.input, got.OriginalValue)
			require.NotEmpty(t, got.Suggestions)
			assert.Equal(t, tt.want, got.Suggestions[0])
		})
	}
}

func TestMatchExactRegardlessOfPoolSize(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	pool := candidates("Accord")
	for i := range 500 {
		pool = append(pool, catalog.Candidate{Display: "Model", Normalized: normalize.String("model" + string(rune('a'+i%26)) + string(rune('a'+i/26)))})
	}

	got := m.Match("ACCORD", pool)
	assert.Equal(t, matcher.Exact, got.Status)
	assert.Equal(t, 100.0, got.Confidence)
	assert.Equal(t, "Accord", got.Matched())
}

func TestMatchEmptyPool(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	for _, pool := range [][]catalog.Candidate{nil, {}} {
		got := m.Match("Honda", pool)
		assert.Equal(t, matcher.NoMatch, got.Status)
		assert.Equal(t, 0.0, got.Confidence)
		assert.Nil(t, got.MatchedValue)
		assert.Empty(t, got.Suggestions)
		assert.Equal(t, "honda", got.NormalizedValue)
	}
}

func TestMatchEmptyInput(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	for _, input := range []string{"", "   ", "-.()"} {
		got := m.Match(input, candidates("Honda"))
		assert.Equal(t, matcher.NoMatch, got.Status, "input %q", input)
		assert.Equal(t, 0.0, got.Confidence)
		assert.Nil(t, got.MatchedValue)
		assert.Empty(t, got.Suggestions)
	}
}

func TestMatchAutoCorrect(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	got := m.Match("Accrd", candidates("Accord", "Civic"))
	assert.Equal(t, matcher.AutoCorrected, got.Status)
	assert.Equal(t, 95.83, got.Confidence)
	assert.Equal(t, "Accord", got.Matched())
	assert.Equal(t, []string{"Accord", "Civic"}, got.Suggestions)

	got = m.Match("Hnda", candidates("Honda", "Toyota"))
	assert.Equal(t, matcher.AutoCorrected, got.Status)
	assert.Equal(t, 92.0, got.Confidence)
	assert.Equal(t, "Honda", got.Matched())
}

func TestMatchNoMatchStillSuggests(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	got := m.Match("Camry", candidates("Accord", "Civic"))
	assert.Equal(t, matcher.NoMatch, got.Status)
	assert.Less(t, got.Confidence, 70.0)
	assert.Nil(t, got.MatchedValue)
	assert.Len(t, got.Suggestions, 2)
}

func TestMatchThresholdBoundaries(t *testing.T) {
	pool := candidates("Accord")
	score := matcher.Similarity("accrd", "accord")
	require.Greater(t, score, 0.0)
	require.Less(t, score, 100.0)

	tests := []struct {
		name string
		cfg  matcher.Config
		want matcher.Status
	}{
		{"at auto-correct threshold", matcher.Config{AutoCorrectThreshold: score, ReviewThreshold: 50}, matcher.AutoCorrected},
		{"just below auto-correct threshold", matcher.Config{AutoCorrectThreshold: score + 0.01, ReviewThreshold: 50}, matcher.NeedsReview},
		{"at review threshold", matcher.Config{AutoCorrectThreshold: 99.99, ReviewThreshold: score}, matcher.NeedsReview},
		{"just below review threshold", matcher.Config{AutoCorrectThreshold: 99.99, ReviewThreshold: score + 0.01}, matcher.NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newMatcher(t, tt.cfg).Match("Accrd", pool)
			assert.Equal(t, score, got.Confidence)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.want.Accepted(), got.MatchedValue != nil)
		})
	}
}

func TestMatchMaxSuggestions(t *testing.T) {
	pool := candidates("Civic", "Accord", "City", "CR-V", "HR-V")

	got := newMatcher(t, matcher.Config{AutoCorrectThreshold: 90, ReviewThreshold: 70, MaxSuggestions: 2}).Match("Civc", pool)
	assert.Len(t, got.Suggestions, 2)
	assert.Equal(t, "Civic", got.Suggestions[0])

	got = newMatcher(t, matcher.Config{AutoCorrectThreshold: 90, ReviewThreshold: 70, MaxSuggestions: 0}).Match("Civc", pool)
	assert.Empty(t, got.Suggestions)
	assert.Equal(t, matcher.AutoCorrected, got.Status)
}

func TestMatchTieBreaksOnDisplay(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())

	got := m.Match("civi", candidates("Civik", "Civic"))
	assert.Equal(t, []string{"Civic", "Civik"}, got.Suggestions)
	assert.Equal(t, "Civic", got.Matched())
}

func TestMatchIsDeterministic(t *testing.T) {
	m := newMatcher(t, matcher.DefaultConfig())
	pool := candidates("Camry", "Corolla", "Corona", "Crown", "C-HR")

	first := m.Match("Corola", pool)
	for range 20 {
		assert.Equal(t, first, m.Match("Corola", pool))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := matcher.New(matcher.Config{AutoCorrectThreshold: 70, ReviewThreshold: 90})
	require.Error(t, err)
}
