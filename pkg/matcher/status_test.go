package matcher_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/matcher"
)

func TestStatusOrder(t *testing.T) {
	ordered := matcher.Statuses()
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i-1].Rank(), ordered[i].Rank())
	}
}

func TestWorst(t *testing.T) {
	assert.Equal(t, matcher.Exact, matcher.Worst())
	assert.Equal(t, matcher.Exact, matcher.Worst(matcher.Exact, matcher.Exact))
	assert.Equal(t, matcher.NeedsReview, matcher.Worst(matcher.Exact, matcher.AutoCorrected, matcher.NeedsReview))
	assert.Equal(t, matcher.NoMatch, matcher.Worst(matcher.NeedsReview, matcher.NoMatch, matcher.Exact))
}

func TestStatusText(t *testing.T) {
	for _, s := range matcher.Statuses() {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var parsed matcher.Status
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, s, parsed)
	}

	data, err := json.Marshal(map[string]matcher.Status{"status": matcher.AutoCorrected})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"auto_corrected"}`, string(data))

	_, err = matcher.ParseStatus("maybe")
	assert.Error(t, err)
	assert.Equal(t, "Status(9)", matcher.Status(9).String())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     matcher.Config
		wantErr string
	}{
		{"defaults", matcher.DefaultConfig(), ""},
		{"equal thresholds", matcher.Config{AutoCorrectThreshold: 80, ReviewThreshold: 80}, ""},
		{"review above auto-correct", matcher.Config{AutoCorrectThreshold: 70, ReviewThreshold: 90}, "must not exceed"},
		{"auto-correct above 100", matcher.Config{AutoCorrectThreshold: 101, ReviewThreshold: 70}, "autoCorrectThreshold"},
		{"negative review", matcher.Config{AutoCorrectThreshold: 90, ReviewThreshold: -1}, "reviewThreshold"},
		{"negative suggestions", matcher.Config{AutoCorrectThreshold: 90, ReviewThreshold: 70, MaxSuggestions: -1}, "maxSuggestions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsConfigError(err))
			assert.False(t, errors.IsValidationError(err))
		})
	}
}

func TestConfigClassify(t *testing.T) {
	cfg := matcher.DefaultConfig()
	assert.Equal(t, matcher.AutoCorrected, cfg.Classify(90))
	assert.Equal(t, matcher.NeedsReview, cfg.Classify(89.99))
	assert.Equal(t, matcher.NeedsReview, cfg.Classify(70))
	assert.Equal(t, matcher.NoMatch, cfg.Classify(69.99))
}
