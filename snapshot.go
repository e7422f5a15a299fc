package mastermatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/resolver"
	"github.com/gridlot/mastermatch/pkg/validator"
)

// Snapshot is one immutable generation of the reference index together
// with the resolver and validator built over it.
type Snapshot struct {
	index      *catalog.Index
	resolver   *resolver.Resolver
	validator  *validator.Validator
	generation uint64
	loadedAt   time.Time
	sources    []string
	logger     *zerolog.Logger
}

// Index returns the reference index.
func (s *Snapshot) Index() *catalog.Index {
	return s.index
}

// Resolver returns the row resolver over the index.
func (s *Snapshot) Resolver() *resolver.Resolver {
	return s.resolver
}

// Generation returns the refresh generation, starting at 1.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// LoadedAt returns when the snapshot was swapped in.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Sources returns the IDs of the sources the snapshot was loaded from.
func (s *Snapshot) Sources() []string {
	return append([]string(nil), s.sources...)
}

// BatchResult is the outcome of one Validate call.
type BatchResult struct {
	BatchID    string             `json:"batchId" yaml:"batch_id"`
	Generation uint64             `json:"generation" yaml:"generation"`
	Verdicts   []resolver.Verdict `json:"verdicts" yaml:"verdicts"`
	Summary    validator.Summary  `json:"summary" yaml:"summary"`
}

// Validate resolves rows against this snapshot.
func (s *Snapshot) Validate(ctx context.Context, rows []resolver.Row) (*BatchResult, error) {
	batchID := uuid.NewString()
	ctx = logging.WithBatch(logging.Ensure(ctx, s.logger), batchID)

	verdicts, err := s.validator.ValidateBatch(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &BatchResult{
		BatchID:    batchID,
		Generation: s.generation,
		Verdicts:   verdicts,
		Summary:    validator.Summarize(verdicts),
	}, nil
}

// Match resolves one field of row against this snapshot.
func (s *Snapshot) Match(field resolver.Field, row resolver.Row) (matcher.Result, error) {
	return s.resolver.MatchField(field, row)
}
