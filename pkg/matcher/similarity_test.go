package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch/pkg/matcher"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"honda", "honda", 100},
		{"hnda", "honda", 92},
		{"accrd", "accord", 95.83},
		{"ex", "exl", 80},
		{"camry", "camra", 80},
		{"", "honda", 0},
		{"", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.Similarity(tt.a, tt.b))
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"hnda", "honda"},
		{"accrd", "accord"},
		{"corola", "corolla"},
		{"mercedesbenz", "mercedes"},
		{"skoda", "škoda"},
		{"x5", "x3"},
		{"cr v", "crv"},
	}
	for _, p := range pairs {
		assert.Equal(t, matcher.Similarity(p[0], p[1]), matcher.Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestSimilarityEqualLengthMonotonic(t *testing.T) {
	// At equal lengths, fewer edits always scores higher.
	assert.Greater(t, matcher.Similarity("camry", "camra"), matcher.Similarity("camry", "cabra"))
	assert.Greater(t, matcher.Similarity("civic", "civil"), matcher.Similarity("civic", "cibil"))
}

func TestSimilarityFixedLengthsMonotonic(t *testing.T) {
	input := "abcdefghij"
	// Both candidates are 30 runes long. The first keeps the input as a
	// scattered subsequence (20 edits), the second shares a 9 rune prefix
	// but needs 21 edits.
	closer := "axxbxxcxxdxxexxfxxgxxhxxixxjxx"
	farther := "abcdefghiyyyyyyyyyyyyyyyyyyyyy"
	require.Equal(t, 20, matcher.Distance(input, closer))
	require.Equal(t, 21, matcher.Distance(input, farther))

	assert.Greater(t, matcher.Similarity(input, closer), matcher.Similarity(input, farther))
}

func TestSimilarityBonusOnlyForDroppedLetters(t *testing.T) {
	// "corolx" shares a prefix with "corolla" but needs a substitution, so it
	// scores on edit distance alone.
	assert.Equal(t, 71.43, matcher.Similarity("corolx", "corolla"))
	assert.Greater(t, matcher.Similarity("corola", "corolla"), 90.0)
}

func TestSimilarityInexactNeverPerfect(t *testing.T) {
	score := matcher.Similarity("a", "aa")
	assert.Less(t, score, 100.0)
	assert.LessOrEqual(t, matcher.Similarity("abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrstuvwxyza"), 99.99)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, matcher.Distance("accord", "accord"))
	assert.Equal(t, 1, matcher.Distance("accrd", "accord"))
	assert.Equal(t, 3, matcher.Distance("kitten", "sitting"))
	assert.Equal(t, 1, matcher.Distance("skoda", "škoda"))
	assert.Equal(t, 5, matcher.Distance("", "honda"))
}
