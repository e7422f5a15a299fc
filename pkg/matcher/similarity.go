package matcher

import (
	"math"

	"github.com/gridlot/mastermatch/pkg/constants"
)

const (
	containmentWeight = 20.0
	subsequenceWeight = 15.0
	prefixWeight      = 10.0

	// maxInexact is the ceiling for any pair that is not identical.
	maxInexact = 99.99
)

// Similarity scores two comparison-form strings on a 0-100 scale.
//
// The base score is the normalized Levenshtein similarity over runes. Pairs
// of unequal length whose distance is exactly the length difference (the
// shorter only lost letters) can earn a bonus for containment, for being an
// ordered subsequence or for a shared prefix; the largest applicable bonus
// is used. Any pair needing more edits gets no bonus, so at fixed lengths a
// smaller distance always scores higher. Only identical strings score 100.
// The result is symmetric and rounded to two decimals.
func Similarity(a, b string) float64 {
	score, _ := similarity([]rune(a), []rune(b))
	return score
}

// Distance returns the Levenshtein distance between a and b over runes.
func Distance(a, b string) int {
	return levenshtein([]rune(a), []rune(b))
}

func similarity(a, b []rune) (float64, int) {
	if string(a) == string(b) {
		return constants.MaxConfidence, 0
	}

	dist := levenshtein(a, b)
	longest := max(len(a), len(b))
	if len(a) == 0 || len(b) == 0 {
		return 0, dist
	}

	score := constants.MaxConfidence * (1 - float64(dist)/float64(longest))
	if len(a) != len(b) && dist == longest-min(len(a), len(b)) {
		score += lengthBonus(a, b)
	}

	score = min(score, maxInexact)
	score = max(score, 0)
	return round2(score), dist
}

func lengthBonus(a, b []rune) float64 {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	ratio := float64(len(short)) / float64(len(long))

	var bonus float64
	if containsRunes(long, short) {
		bonus = max(bonus, containmentWeight*ratio)
	}
	if isSubsequence(short, long) {
		bonus = max(bonus, subsequenceWeight*ratio)
	}
	if p := commonPrefix(a, b); p >= constants.MinPrefixRunes {
		bonus = max(bonus, prefixWeight*float64(p)/float64(len(short)))
	}
	return bonus
}

// levenshtein computes the edit distance with a two-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func containsRunes(long, short []rune) bool {
	if len(short) == 0 {
		return true
	}
	for i := 0; i+len(short) <= len(long); i++ {
		match := true
		for j := range short {
			if long[i+j] != short[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func isSubsequence(short, long []rune) bool {
	i := 0
	for _, r := range long {
		if i < len(short) && short[i] == r {
			i++
		}
	}
	return i == len(short)
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
