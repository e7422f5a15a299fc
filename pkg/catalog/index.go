// Package catalog builds the immutable in-memory reference index that
// canonical Make / Model / Variant lookups are answered from.
//
// An Index is built once from a snapshot of canonical entries and never
// mutated afterwards, so any number of goroutines may query it without
// locking. Refreshing reference data means building a new Index and
// swapping the caller's reference to it.
//
// Model candidates are reachable only through the Make they were observed
// under, and Variant candidates only through their exact (Make, Model)
// pair. The global Model and Variant pools exist solely as the fallback
// answer when the parent is unknown or unresolved.
package catalog

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/normalize"
)

type pairKey struct {
	make  string
	model string
}

// Index is a read-only reference index over canonical entries.
type Index struct {
	makes       []Candidate
	makeDisplay map[string]string
	models      map[string][]Candidate
	variants    map[pairKey][]Candidate
	allModels   []Candidate
	allVariants []Candidate

	entries []Entry
	report  BuildReport
	builtAt time.Time
}

// BuildOption configures index construction.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger *zerolog.Logger
	source string
	now    func() time.Time
}

// WithLogger sets the logger that receives build warnings.
func WithLogger(logger *zerolog.Logger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSourceName labels build log events with the snapshot's origin.
func WithSourceName(name string) BuildOption {
	return func(o *buildOptions) {
		o.source = name
	}
}

// WithClock overrides the clock used to stamp BuiltAt.
func WithClock(now func() time.Time) BuildOption {
	return func(o *buildOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Build constructs an Index from a snapshot of canonical entries.
//
// Duplicate entries (equal after normalization) collapse into one; the first
// observed display form wins. Entries with a blank field are dropped with a
// warning and recorded in the build report. Build never fails: partial
// reference data still produces a usable index.
func Build(entries []Entry, opts ...BuildOption) *Index {
	o := &buildOptions{
		logger: logging.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	b := newBuilder(len(entries))
	for i, e := range entries {
		b.add(i, e)
	}

	idx := b.finish()
	idx.builtAt = o.now()

	for _, d := range idx.report.Dropped {
		o.logger.Warn().
			Str("source", o.source).
			Int("position", d.Position).
			Str("make", d.Entry.Make).
			Str("model", d.Entry.Model).
			Str("variant", d.Entry.Variant).
			Str("reason", d.Reason).
			Msg("Dropped canonical entry")
	}

	stats := idx.Stats()
	o.logger.Debug().
		Str("source", o.source).
		Int("read", idx.report.Read).
		Int("accepted", idx.report.Accepted).
		Int("duplicates", idx.report.Duplicates).
		Int("dropped", idx.report.DroppedCount()).
		Int("makes", stats.Makes).
		Int("models", stats.Models).
		Int("variants", stats.Variants).
		Msg("Reference index built")

	return idx
}

// CandidatesForMake returns the global Make pool.
func (idx *Index) CandidatesForMake() []Candidate {
	return idx.makes
}

// CandidatesForModel returns the Models observed under normalizedMake, or
// the union of all Models when normalizedMake is empty or unknown.
func (idx *Index) CandidatesForModel(normalizedMake string) []Candidate {
	if pool, ok := idx.models[normalizedMake]; ok && normalizedMake != "" {
		return pool
	}
	return idx.allModels
}

// CandidatesForVariant returns the Variants observed under the exact
// (normalizedMake, normalizedModel) pair, or the union of all Variants when
// the pair is unknown or either part is unresolved.
func (idx *Index) CandidatesForVariant(normalizedMake, normalizedModel string) []Candidate {
	if normalizedMake != "" && normalizedModel != "" {
		if pool, ok := idx.variants[pairKey{normalizedMake, normalizedModel}]; ok {
			return pool
		}
	}
	return idx.allVariants
}

// ModelsOf returns the Models observed under normalizedMake without falling
// back to the global pool.
func (idx *Index) ModelsOf(normalizedMake string) ([]Candidate, bool) {
	pool, ok := idx.models[normalizedMake]
	return pool, ok
}

// VariantsOf returns the Variants of an exact pair without falling back to
// the global pool.
func (idx *Index) VariantsOf(normalizedMake, normalizedModel string) ([]Candidate, bool) {
	pool, ok := idx.variants[pairKey{normalizedMake, normalizedModel}]
	return pool, ok
}

// HasMake reports whether normalizedMake is a known canonical Make.
func (idx *Index) HasMake(normalizedMake string) bool {
	_, ok := idx.makeDisplay[normalizedMake]
	return ok
}

// DisplayMake returns the canonical display form of normalizedMake.
func (idx *Index) DisplayMake(normalizedMake string) (string, bool) {
	d, ok := idx.makeDisplay[normalizedMake]
	return d, ok
}

// Entries returns the deduplicated canonical entries in first-seen order.
func (idx *Index) Entries() []Entry {
	return slices.Clone(idx.entries)
}

// Report returns the build report.
func (idx *Index) Report() BuildReport {
	r := idx.report
	r.Dropped = slices.Clone(idx.report.Dropped)
	return r
}

// Stats returns the number of distinct Makes, (Make, Model) pairs and
// (Make, Model, Variant) triples in the index.
func (idx *Index) Stats() Stats {
	models := 0
	for _, pool := range idx.models {
		models += len(pool)
	}
	return Stats{
		Makes:    len(idx.makes),
		Models:   models,
		Variants: len(idx.entries),
	}
}

// BuiltAt returns when the index was built.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// IsEmpty reports whether the index holds no canonical entries.
func (idx *Index) IsEmpty() bool {
	return len(idx.entries) == 0
}

// builder accumulates entries before freezing them into an Index.
type builder struct {
	makes       map[string]string
	models      map[string]map[string]string
	variants    map[pairKey]map[string]string
	allModels   map[string]string
	allVariants map[string]string
	seen        map[[3]string]bool

	entries []Entry
	report  BuildReport
}

func newBuilder(capacity int) *builder {
	return &builder{
		makes:       make(map[string]string),
		models:      make(map[string]map[string]string),
		variants:    make(map[pairKey]map[string]string),
		allModels:   make(map[string]string),
		allVariants: make(map[string]string),
		seen:        make(map[[3]string]bool, capacity),
		entries:     make([]Entry, 0, capacity),
	}
}

func (b *builder) add(position int, e Entry) {
	b.report.Read++

	mk, md, vr := normalize.String(e.Make), normalize.String(e.Model), normalize.String(e.Variant)
	if reason := blankReason(mk, md, vr); reason != "" {
		b.report.Dropped = append(b.report.Dropped, DroppedEntry{Position: position, Entry: e, Reason: reason})
		return
	}

	key := [3]string{mk, md, vr}
	if b.seen[key] {
		b.report.Duplicates++
		return
	}
	b.seen[key] = true
	b.report.Accepted++

	makeDisplay := firstDisplay(b.makes, mk, e.Make)

	models, ok := b.models[mk]
	if !ok {
		models = make(map[string]string)
		b.models[mk] = models
	}
	modelDisplay := firstDisplay(models, md, e.Model)
	firstDisplay(b.allModels, md, e.Model)

	pk := pairKey{mk, md}
	variants, ok := b.variants[pk]
	if !ok {
		variants = make(map[string]string)
		b.variants[pk] = variants
	}
	variantDisplay := firstDisplay(variants, vr, e.Variant)
	firstDisplay(b.allVariants, vr, e.Variant)

	b.entries = append(b.entries, Entry{Make: makeDisplay, Model: modelDisplay, Variant: variantDisplay})
}

func (b *builder) finish() *Index {
	idx := &Index{
		makes:       sortedCandidates(b.makes),
		makeDisplay: b.makes,
		models:      make(map[string][]Candidate, len(b.models)),
		variants:    make(map[pairKey][]Candidate, len(b.variants)),
		allModels:   sortedCandidates(b.allModels),
		allVariants: sortedCandidates(b.allVariants),
		entries:     b.entries,
		report:      b.report,
	}
	for mk, set := range b.models {
		idx.models[mk] = sortedCandidates(set)
	}
	for pk, set := range b.variants {
		idx.variants[pk] = sortedCandidates(set)
	}
	return idx
}

// firstDisplay records display for normalized unless one is already known,
// and returns the display form in effect.
func firstDisplay(set map[string]string, normalized, display string) string {
	if existing, ok := set[normalized]; ok {
		return existing
	}
	display = strings.TrimSpace(display)
	set[normalized] = display
	return display
}

func sortedCandidates(set map[string]string) []Candidate {
	out := make([]Candidate, 0, len(set))
	for n, d := range set {
		out = append(out, Candidate{Display: d, Normalized: n})
	}
	slices.SortFunc(out, func(a, b Candidate) int {
		return cmp.Or(cmp.Compare(a.Normalized, b.Normalized), cmp.Compare(a.Display, b.Display))
	})
	return out
}

func blankReason(mk, md, vr string) string {
	var blank []string
	if mk == "" {
		blank = append(blank, "make")
	}
	if md == "" {
		blank = append(blank, "model")
	}
	if vr == "" {
		blank = append(blank, "variant")
	}
	if len(blank) == 0 {
		return ""
	}
	return "blank " + strings.Join(blank, ", ")
}
