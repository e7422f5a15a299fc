// Package resolver reconciles one Make / Model / Variant row against the
// reference index.
//
// Fields are resolved in order. The Model pool is narrowed to the resolved
// Make and the Variant pool to the resolved (Make, Model) pair. A parent
// only narrows its children when it was matched exactly or auto-corrected;
// otherwise the child is searched in the global fallback pool.
package resolver

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/normalize"
)

// Row is one submitted inventory line.
type Row struct {
	RowIndex int    `json:"rowIndex" yaml:"row_index"`
	Make     string `json:"make" yaml:"make"`
	Model    string `json:"model" yaml:"model"`
	Variant  string `json:"variant" yaml:"variant"`
}

// Verdict is the reconciliation outcome of one row.
type Verdict struct {
	RowIndex         int            `json:"rowIndex" yaml:"row_index"`
	Make             matcher.Result `json:"make" yaml:"make"`
	Model            matcher.Result `json:"model" yaml:"model"`
	Variant          matcher.Result `json:"variant" yaml:"variant"`
	IsValid          bool           `json:"isValid" yaml:"is_valid"`
	NeedsReview      bool           `json:"needsReview" yaml:"needs_review"`
	CorrectedMake    *string        `json:"correctedMake" yaml:"corrected_make"`
	CorrectedModel   *string        `json:"correctedModel" yaml:"corrected_model"`
	CorrectedVariant *string        `json:"correctedVariant" yaml:"corrected_variant"`
}

// Status returns the worst of the three field statuses.
func (v Verdict) Status() matcher.Status {
	return matcher.Worst(v.Make.Status, v.Model.Status, v.Variant.Status)
}

// Resolver resolves rows against a single index.
type Resolver struct {
	index   *catalog.Index
	matcher *matcher.Matcher
	logger  *zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for per-row debug events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver over index using m for every field.
func New(index *catalog.Index, m *matcher.Matcher, opts ...Option) *Resolver {
	r := &Resolver{
		index:   index,
		matcher: m,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Index returns the index the resolver reads from.
func (r *Resolver) Index() *catalog.Index {
	return r.index
}

// Matcher returns the field matcher.
func (r *Resolver) Matcher() *matcher.Matcher {
	return r.matcher
}

// Resolve runs the Make, Model and Variant cascade for row.
func (r *Resolver) Resolve(row Row) Verdict {
	return r.ResolveContext(context.Background(), row)
}

// ResolveContext is Resolve, logging through the logger carried by ctx
// (tagged with the row index) when there is one. ctx is not checked for
// cancellation; resolving one row never blocks.
func (r *Resolver) ResolveContext(ctx context.Context, row Row) Verdict {
	makeResult := r.MatchMake(row.Make)
	effectiveMake := effective(makeResult)

	modelResult := r.MatchModel(row.Model, effectiveMake)
	effectiveModel := effective(modelResult)

	variantResult := r.MatchVariant(row.Variant, effectiveMake, effectiveModel)

	v := Verdict{
		RowIndex:         row.RowIndex,
		Make:             makeResult,
		Model:            modelResult,
		Variant:          variantResult,
		CorrectedMake:    corrected(makeResult),
		CorrectedModel:   corrected(modelResult),
		CorrectedVariant: corrected(variantResult),
	}
	worst := v.Status()
	v.IsValid = worst.Accepted()
	v.NeedsReview = worst == matcher.NeedsReview

	if logger := logging.FromContextOr(ctx, r.logger); logging.DebugEnabled(logger) {
		logRow(logging.WithRow(logging.WithLogger(ctx, logger), row.RowIndex), v)
	}

	return v
}

func logRow(ctx context.Context, v Verdict) {
	logging.FromContext(ctx).Debug().
		Stringer("make_status", v.Make.Status).
		Stringer("model_status", v.Model.Status).
		Stringer("variant_status", v.Variant.Status).
		Bool("valid", v.IsValid).
		Bool("needs_review", v.NeedsReview).
		Msg("Resolved row")
}

// MatchMake matches a Make against the global Make pool.
func (r *Resolver) MatchMake(value string) matcher.Result {
	return r.matcher.Match(value, r.index.CandidatesForMake())
}

// MatchModel matches a Model against the pool of normalizedMake, or the
// global Model pool when normalizedMake is empty or unknown.
func (r *Resolver) MatchModel(value, normalizedMake string) matcher.Result {
	return r.matcher.Match(value, r.index.CandidatesForModel(normalizedMake))
}

// MatchVariant matches a Variant against the pool of the given pair, or the
// global Variant pool when the pair is unresolved or unknown.
func (r *Resolver) MatchVariant(value, normalizedMake, normalizedModel string) matcher.Result {
	return r.matcher.Match(value, r.index.CandidatesForVariant(normalizedMake, normalizedModel))
}

// Effective returns the normalized matched value used to narrow child
// pools, or "" when the result does not narrow.
func Effective(res matcher.Result) string {
	return effective(res)
}

func effective(res matcher.Result) string {
	if !res.Status.Accepted() || res.MatchedValue == nil {
		return ""
	}
	return normalize.String(*res.MatchedValue)
}

func corrected(res matcher.Result) *string {
	if !res.Status.Accepted() || res.MatchedValue == nil {
		return nil
	}
	v := *res.MatchedValue
	return &v
}
