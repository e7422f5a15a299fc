package validator

import (
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

// StatusCounts counts field results per status.
type StatusCounts map[matcher.Status]int

// FieldCounts holds the status histogram of each field.
type FieldCounts struct {
	Make    StatusCounts `json:"make" yaml:"make"`
	Model   StatusCounts `json:"model" yaml:"model"`
	Variant StatusCounts `json:"variant" yaml:"variant"`
}

// Summary buckets a batch the way an import screen presents it.
type Summary struct {
	Total       int         `json:"total" yaml:"total"`
	Valid       int         `json:"valid" yaml:"valid"`
	NeedsReview int         `json:"needsReview" yaml:"needs_review"`
	Invalid     int         `json:"invalid" yaml:"invalid"`
	Fields      FieldCounts `json:"fields" yaml:"fields"`
}

// Summarize counts verdicts into the valid, needs-review and invalid
// buckets. A verdict that is neither valid nor reviewable is invalid.
func Summarize(verdicts []resolver.Verdict) Summary {
	s := Summary{
		Total: len(verdicts),
		Fields: FieldCounts{
			Make:    StatusCounts{},
			Model:   StatusCounts{},
			Variant: StatusCounts{},
		},
	}
	for _, v := range verdicts {
		switch {
		case v.IsValid:
			s.Valid++
		case v.NeedsReview:
			s.NeedsReview++
		default:
			s.Invalid++
		}
		s.Fields.Make[v.Make.Status]++
		s.Fields.Model[v.Model.Status]++
		s.Fields.Variant[v.Variant.Status]++
	}
	return s
}

// Partition splits verdicts into the three buckets, keeping input order
// within each.
func Partition(verdicts []resolver.Verdict) (valid, needsReview, invalid []resolver.Verdict) {
	for _, v := range verdicts {
		switch {
		case v.IsValid:
			valid = append(valid, v)
		case v.NeedsReview:
			needsReview = append(needsReview, v)
		default:
			invalid = append(invalid, v)
		}
	}
	return valid, needsReview, invalid
}
