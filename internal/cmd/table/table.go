// Package table converts reconciliation results into rows for CLI tables.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/resolver"
	"github.com/gridlot/mastermatch/pkg/validator"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Verdict buckets as shown in the RESULT column.
const (
	BucketValid   = "valid"
	BucketReview  = "review"
	BucketInvalid = "invalid"
)

// Bucket returns the import-screen bucket of a verdict.
func Bucket(v resolver.Verdict) string {
	switch {
	case v.IsValid:
		return BucketValid
	case v.NeedsReview:
		return BucketReview
	default:
		return BucketInvalid
	}
}

// VerdictsToTableData converts verdicts to table format. Wide output adds
// per-field confidence and the suggestions of every field that was not
// accepted.
func VerdictsToTableData(verdicts []resolver.Verdict, wide bool) Data {
	headers := []string{"ROW", "MAKE", "MODEL", "VARIANT", "RESULT"}
	align := []Align{AlignRight, AlignDefault, AlignDefault, AlignDefault, AlignCenter}
	if wide {
		headers = append(headers, "CONFIDENCE", "SUGGESTIONS")
		align = append(align, AlignRight, AlignDefault)
	}

	rows := make([][]string, 0, len(verdicts))
	for _, v := range verdicts {
		row := []string{
			strconv.Itoa(v.RowIndex),
			FieldCell(v.Make),
			FieldCell(v.Model),
			FieldCell(v.Variant),
			Bucket(v),
		}
		if wide {
			row = append(row,
				fmt.Sprintf("%s / %s / %s",
					FormatConfidence(v.Make.Confidence),
					FormatConfidence(v.Model.Confidence),
					FormatConfidence(v.Variant.Confidence)),
				suggestionsCell(v),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FieldCell renders one field result: the value as submitted, followed by
// the correction when the match was not exact.
func FieldCell(res matcher.Result) string {
	switch res.Status {
	case matcher.Exact:
		return res.Matched()
	case matcher.AutoCorrected:
		return fmt.Sprintf("%s -> %s", display(res.OriginalValue), res.Matched())
	case matcher.NeedsReview:
		if len(res.Suggestions) > 0 {
			return fmt.Sprintf("%s ? %s", display(res.OriginalValue), res.Suggestions[0])
		}
		return display(res.OriginalValue) + " ?"
	default:
		return display(res.OriginalValue) + " (no match)"
	}
}

// FormatConfidence renders a confidence with up to two decimals.
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// MatchToTableData converts a single-field match result to a key-value table.
func MatchToTableData(field resolver.Field, res matcher.Result) Data {
	matched := res.Matched()
	if matched == "" {
		matched = "-"
	}
	suggestions := strings.Join(res.Suggestions, ", ")
	if suggestions == "" {
		suggestions = "-"
	}
	return Data{
		Headers: []string{"PROPERTY", "VALUE"},
		Rows: [][]string{
			{"Field", string(field)},
			{"Input", display(res.OriginalValue)},
			{"Normalized", display(res.NormalizedValue)},
			{"Matched", matched},
			{"Confidence", FormatConfidence(res.Confidence)},
			{"Status", res.Status.String()},
			{"Suggestions", suggestions},
		},
	}
}

// SummaryToTableData converts a batch summary to table format.
func SummaryToTableData(s validator.Summary) Data {
	rows := [][]string{
		{"Total", strconv.Itoa(s.Total)},
		{"Valid", strconv.Itoa(s.Valid)},
		{"Needs review", strconv.Itoa(s.NeedsReview)},
		{"Invalid", strconv.Itoa(s.Invalid)},
	}
	return Data{
		Headers:         []string{"ROWS", "COUNT"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignRight},
	}
}

// FieldCountsToTableData converts the per-field status histogram to a
// table with one row per field and one column per status.
func FieldCountsToTableData(fc validator.FieldCounts) Data {
	statuses := []matcher.Status{matcher.Exact, matcher.AutoCorrected, matcher.NeedsReview, matcher.NoMatch}
	headers := []string{"FIELD"}
	align := []Align{AlignDefault}
	for _, st := range statuses {
		headers = append(headers, strings.ToUpper(st.String()))
		align = append(align, AlignRight)
	}

	fields := []struct {
		name   string
		counts validator.StatusCounts
	}{
		{string(resolver.FieldMake), fc.Make},
		{string(resolver.FieldModel), fc.Model},
		{string(resolver.FieldVariant), fc.Variant},
	}

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		row := []string{f.name}
		for _, st := range statuses {
			row = append(row, strconv.Itoa(f.counts[st]))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// CandidatesToTableData converts a listing of canonical values to table
// format. Wide output adds the normalized comparison form.
func CandidatesToTableData(header string, candidates []catalog.Candidate, wide bool) Data {
	headers := []string{strings.ToUpper(header)}
	if wide {
		headers = append(headers, "NORMALIZED")
	}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		row := []string{c.Display}
		if wide {
			row = append(row, c.Normalized)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// StatsToTableData converts index statistics and the build report to a
// key-value table.
func StatsToTableData(stats catalog.Stats, report catalog.BuildReport) Data {
	return Data{
		Headers: []string{"METRIC", "VALUE"},
		Rows: [][]string{
			{"Makes", strconv.Itoa(stats.Makes)},
			{"Models", strconv.Itoa(stats.Models)},
			{"Variants", strconv.Itoa(stats.Variants)},
			{"Entries read", strconv.Itoa(report.Read)},
			{"Entries accepted", strconv.Itoa(report.Accepted)},
			{"Duplicates", strconv.Itoa(report.Duplicates)},
			{"Dropped", strconv.Itoa(report.DroppedCount())},
		},
		ColumnAlignment: []Align{AlignDefault, AlignRight},
	}
}

// DroppedToTableData lists the entries rejected while building the index.
func DroppedToTableData(dropped []catalog.DroppedEntry) Data {
	rows := make([][]string, 0, len(dropped))
	for _, d := range dropped {
		rows = append(rows, []string{strconv.Itoa(d.Position), d.Entry.String(), d.Reason})
	}
	return Data{
		Headers:         []string{"POSITION", "ENTRY", "REASON"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignDefault, AlignDefault},
	}
}

func suggestionsCell(v resolver.Verdict) string {
	var parts []string
	for _, f := range []struct {
		name string
		res  matcher.Result
	}{
		{string(resolver.FieldMake), v.Make},
		{string(resolver.FieldModel), v.Model},
		{string(resolver.FieldVariant), v.Variant},
	} {
		if f.res.Status.Accepted() || len(f.res.Suggestions) == 0 {
			continue
		}
		parts = append(parts, f.name+": "+strings.Join(f.res.Suggestions, ", "))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

func display(s string) string {
	if strings.TrimSpace(s) == "" {
		return `""`
	}
	return s
}
