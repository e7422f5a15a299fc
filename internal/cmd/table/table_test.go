package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/resolver"
	"github.com/gridlot/mastermatch/pkg/validator"
)

func ptr(s string) *string { return &s }

func result(orig, matched string, conf float64, st matcher.Status, sugg ...string) matcher.Result {
	r := matcher.Result{OriginalValue: orig, Confidence: conf, Status: st, Suggestions: sugg}
	if matched != "" {
		r.MatchedValue = ptr(matched)
	}
	return r
}

func TestFieldCell(t *testing.T) {
	tests := []struct {
		name string
		res  matcher.Result
		want string
	}{
		{"exact shows canonical", result("honda", "Honda", 100, matcher.Exact), "Honda"},
		{"auto corrected", result("Accrd", "Accord", 95.83, matcher.AutoCorrected), "Accrd -> Accord"},
		{"review with suggestion", result("Acc", "", 75, matcher.NeedsReview, "Accord"), "Acc ? Accord"},
		{"review without suggestion", result("Acc", "", 75, matcher.NeedsReview), "Acc ?"},
		{"no match", result("Tesla", "", 20, matcher.NoMatch), "Tesla (no match)"},
		{"blank input", result("", "", 0, matcher.NoMatch), `"" (no match)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldCell(tt.res))
		})
	}
}

func TestVerdictsToTableData(t *testing.T) {
	verdicts := []resolver.Verdict{
		{
			RowIndex: 1,
			Make:     result("honda", "Honda", 100, matcher.Exact),
			Model:    result("Accrd", "Accord", 95.83, matcher.AutoCorrected),
			Variant:  result("EX", "EX", 100, matcher.Exact),
			IsValid:  true,
		},
		{
			RowIndex: 2,
			Make:     result("Tesla", "", 33.33, matcher.NoMatch, "Honda", "Toyota"),
			Model:    result("S", "", 0, matcher.NoMatch),
			Variant:  result("", "", 0, matcher.NoMatch),
		},
	}

	t.Run("narrow", func(t *testing.T) {
		data := VerdictsToTableData(verdicts, false)
		assert.Equal(t, []string{"ROW", "MAKE", "MODEL", "VARIANT", "RESULT"}, data.Headers)
		require.Len(t, data.Rows, 2)
		assert.Equal(t, []string{"1", "Honda", "Accrd -> Accord", "EX", BucketValid}, data.Rows[0])
		assert.Equal(t, BucketInvalid, data.Rows[1][4])
		assert.Len(t, data.ColumnAlignment, len(data.Headers))
	})

	t.Run("wide", func(t *testing.T) {
		data := VerdictsToTableData(verdicts, true)
		require.Len(t, data.Headers, 7)
		assert.Equal(t, "100 / 95.83 / 100", data.Rows[0][5])
		assert.Equal(t, "-", data.Rows[0][6])
		assert.Equal(t, "make: Honda, Toyota", data.Rows[1][6])
	})
}

func TestBucket(t *testing.T) {
	assert.Equal(t, BucketValid, Bucket(resolver.Verdict{IsValid: true}))
	assert.Equal(t, BucketReview, Bucket(resolver.Verdict{NeedsReview: true}))
	assert.Equal(t, BucketInvalid, Bucket(resolver.Verdict{}))
}

func TestMatchToTableData(t *testing.T) {
	data := MatchToTableData(resolver.FieldModel, result("Acord", "Accord", 95.83, matcher.AutoCorrected, "Accord"))
	assert.Contains(t, data.Rows, []string{"Matched", "Accord"})
	assert.Contains(t, data.Rows, []string{"Status", "auto_corrected"})
	assert.Contains(t, data.Rows, []string{"Confidence", "95.83"})

	none := MatchToTableData(resolver.FieldMake, result("zzz", "", 0, matcher.NoMatch))
	assert.Contains(t, none.Rows, []string{"Matched", "-"})
	assert.Contains(t, none.Rows, []string{"Suggestions", "-"})
}

func TestSummaryAndFieldCounts(t *testing.T) {
	s := validator.Summary{
		Total: 3, Valid: 1, NeedsReview: 1, Invalid: 1,
		Fields: validator.FieldCounts{
			Make:    validator.StatusCounts{matcher.Exact: 3},
			Model:   validator.StatusCounts{matcher.Exact: 1, matcher.NeedsReview: 1, matcher.NoMatch: 1},
			Variant: validator.StatusCounts{},
		},
	}

	summary := SummaryToTableData(s)
	assert.Equal(t, []string{"Total", "3"}, summary.Rows[0])

	counts := FieldCountsToTableData(s.Fields)
	assert.Equal(t, []string{"FIELD", "EXACT", "AUTO_CORRECTED", "NEEDS_REVIEW", "NO_MATCH"}, counts.Headers)
	assert.Equal(t, []string{"make", "3", "0", "0", "0"}, counts.Rows[0])
	assert.Equal(t, []string{"model", "1", "0", "1", "1"}, counts.Rows[1])
	assert.Equal(t, []string{"variant", "0", "0", "0", "0"}, counts.Rows[2])
}

func TestCandidatesAndStats(t *testing.T) {
	cands := []catalog.Candidate{{Display: "Mercedes-Benz", Normalized: "mercedesbenz"}}
	assert.Equal(t, [][]string{{"Mercedes-Benz"}}, CandidatesToTableData("make", cands, false).Rows)
	wide := CandidatesToTableData("make", cands, true)
	assert.Equal(t, []string{"MAKE", "NORMALIZED"}, wide.Headers)
	assert.Equal(t, [][]string{{"Mercedes-Benz", "mercedesbenz"}}, wide.Rows)

	stats := StatsToTableData(catalog.Stats{Makes: 2, Models: 3, Variants: 4}, catalog.BuildReport{
		Read: 6, Accepted: 4, Duplicates: 1,
		Dropped: []catalog.DroppedEntry{{Position: 5, Reason: "blank variant"}},
	})
	assert.Contains(t, stats.Rows, []string{"Dropped", "1"})
	assert.Contains(t, stats.Rows, []string{"Variants", "4"})

	dropped := DroppedToTableData([]catalog.DroppedEntry{{Position: 5, Entry: catalog.Entry{Make: "Honda", Model: "Civic"}, Reason: "blank variant"}})
	assert.Equal(t, []string{"5", "Honda / Civic / ", "blank variant"}, dropped.Rows[0])
}
