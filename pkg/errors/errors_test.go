package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/gridlot/mastermatch/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "make",
			ID:       "Tesla",
		}
		assert.Equal(t, `make "Tesla" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("model", "Camry")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "rows",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field rows: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad batch"}
		assert.Equal(t, "validation failed: bad batch", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("with component", func(t *testing.T) {
		err := pkgerrors.NewConfigError("matcher", "reviewThreshold must not exceed autoCorrectThreshold", nil)
		assert.Contains(t, err.Error(), "matcher")
		assert.Contains(t, err.Error(), "reviewThreshold")
		assert.True(t, pkgerrors.IsConfigError(err))
		assert.False(t, pkgerrors.IsValidationError(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("out of range")
		err := pkgerrors.NewConfigError("", "threshold", base)
		assert.Equal(t, "configuration error: threshold", err.Error())
		assert.ErrorIs(t, err, base)
	})
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *pkgerrors.ParseError
		expected string
	}{
		{
			name:     "file and line",
			err:      &pkgerrors.ParseError{Format: "csv", File: "rows.csv", Line: 4, Message: "wrong number of fields"},
			expected: "parse error in csv at rows.csv:4: wrong number of fields",
		},
		{
			name:     "file only",
			err:      &pkgerrors.ParseError{Format: "xlsx", File: "stock.xlsx", Message: "missing make column"},
			expected: "parse error in xlsx file stock.xlsx: missing make column",
		},
		{
			name:     "no file",
			err:      &pkgerrors.ParseError{Format: "yaml", Message: "unexpected token"},
			expected: "yaml parse error: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapResource("build", "index", "", nil))
	assert.Nil(t, pkgerrors.WrapParse("yaml", "x", nil))
	assert.Nil(t, pkgerrors.Canceled("validate", nil))

	ioErr := pkgerrors.WrapIO("open", "/tmp/catalog.db", base)
	require.Error(t, ioErr)
	assert.ErrorIs(t, ioErr, base)
	assert.Equal(t, "IO error during open of /tmp/catalog.db: boom", ioErr.Error())

	resErr := pkgerrors.WrapResource("refresh", "index", "sqlite", base)
	var re *pkgerrors.ResourceError
	require.True(t, errors.As(resErr, &re))
	assert.Equal(t, "refresh", re.Operation)
	assert.Equal(t, "failed to refresh index sqlite: boom", resErr.Error())
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("index refresh", 2*time.Minute, context.DeadlineExceeded)
	assert.Equal(t, "index refresh timed out after 2m0s", err.Error())
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, pkgerrors.IsCanceled(err))
}

func TestCanceledError(t *testing.T) {
	err := pkgerrors.Canceled("batch validation", context.Canceled)
	assert.Equal(t, "batch validation canceled: context canceled", err.Error())
	assert.True(t, pkgerrors.IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, pkgerrors.IsTimeout(err))
}

func TestErrorChaining(t *testing.T) {
	timeout := pkgerrors.NewTimeoutError("index refresh", 5*time.Minute, context.DeadlineExceeded)
	wrapped := fmt.Errorf("auto refresh: %w", pkgerrors.WrapResource("refresh", "index", "", timeout))

	assert.True(t, pkgerrors.IsTimeout(wrapped))
	assert.False(t, pkgerrors.IsCanceled(wrapped))
	assert.False(t, pkgerrors.IsNotFound(wrapped))

	var te *pkgerrors.TimeoutError
	require.True(t, errors.As(wrapped, &te))
	assert.Equal(t, 5*time.Minute, te.After)
}
