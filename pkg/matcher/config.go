package matcher

import (
	"fmt"
	"math"

	"github.com/gridlot/mastermatch/pkg/constants"
	"github.com/gridlot/mastermatch/pkg/errors"
)

// Config holds the tiering thresholds and suggestion count of a Matcher.
type Config struct {
	// AutoCorrectThreshold is the minimum confidence accepted without review.
	AutoCorrectThreshold float64 `json:"autoCorrectThreshold" yaml:"auto_correct_threshold" mapstructure:"auto_correct_threshold"`
	// ReviewThreshold is the minimum confidence surfaced for human review.
	ReviewThreshold float64 `json:"reviewThreshold" yaml:"review_threshold" mapstructure:"review_threshold"`
	// MaxSuggestions caps the ranked alternatives returned per field.
	MaxSuggestions int `json:"maxSuggestions" yaml:"max_suggestions" mapstructure:"max_suggestions"`
}

// DefaultConfig returns the default thresholds (90 / 70) and three suggestions.
func DefaultConfig() Config {
	return Config{
		AutoCorrectThreshold: constants.DefaultAutoCorrectThreshold,
		ReviewThreshold:      constants.DefaultReviewThreshold,
		MaxSuggestions:       constants.DefaultMaxSuggestions,
	}
}

// Validate checks that the thresholds lie in [0, 100], that the review
// threshold does not exceed the auto-correct threshold, and that
// MaxSuggestions is not negative.
func (c Config) Validate() error {
	if !inRange(c.AutoCorrectThreshold) {
		return errors.NewConfigError("matcher",
			fmt.Sprintf("autoCorrectThreshold (%g) must be within [0, %g]", c.AutoCorrectThreshold, constants.MaxConfidence), nil)
	}
	if !inRange(c.ReviewThreshold) {
		return errors.NewConfigError("matcher",
			fmt.Sprintf("reviewThreshold (%g) must be within [0, %g]", c.ReviewThreshold, constants.MaxConfidence), nil)
	}
	if c.ReviewThreshold > c.AutoCorrectThreshold {
		return errors.NewConfigError("matcher",
			fmt.Sprintf("reviewThreshold (%g) must not exceed autoCorrectThreshold (%g)", c.ReviewThreshold, c.AutoCorrectThreshold), nil)
	}
	if c.MaxSuggestions < 0 {
		return errors.NewConfigError("matcher",
			fmt.Sprintf("maxSuggestions (%d) must not be negative", c.MaxSuggestions), nil)
	}
	return nil
}

// Classify maps a confidence onto a status using the configured thresholds.
// Exact is never returned; it is decided by equality, not by score.
func (c Config) Classify(confidence float64) Status {
	switch {
	case confidence >= c.AutoCorrectThreshold:
		return AutoCorrected
	case confidence >= c.ReviewThreshold:
		return NeedsReview
	default:
		return NoMatch
	}
}

func inRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= constants.MaxConfidence
}
