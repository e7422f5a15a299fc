package catalog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/cmd/application"
	pkgcatalog "github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/sources"
)

func run(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	mm, err := mastermatch.New(
		mastermatch.WithSources(sources.NewStatic("test",
			pkgcatalog.Entry{Make: "Honda", Model: "Accord", Variant: "EX"},
			pkgcatalog.Entry{Make: "Honda", Model: "Accord", Variant: "EX-L"},
			pkgcatalog.Entry{Make: "Honda", Model: "Civic", Variant: "Sport"},
			pkgcatalog.Entry{Make: "Hyundai", Model: "Tucson", Variant: "SE"},
			pkgcatalog.Entry{Make: "Mercedes-Benz", Model: "C 300", Variant: "4MATIC"},
			pkgcatalog.Entry{Make: "Toyota", Model: "Camry", Variant: ""},
		)),
		mastermatch.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	app := &application.Mock{
		ClientFunc:       func(...mastermatch.Option) (mastermatch.Client, error) { return mm, nil },
		OutputFormatFunc: func() string { return format },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func listing(t *testing.T, out string) Listing {
	t.Helper()
	var l Listing
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	return l
}

func TestMakes(t *testing.T) {
	out, err := run(t, "json", "makes")
	require.NoError(t, err)
	l := listing(t, out)
	assert.Equal(t, []string{"Honda", "Hyundai", "Mercedes-Benz"}, l.Items)
	assert.Equal(t, 3, l.Count)
	assert.EqualValues(t, 1, l.Generation)

	out, err = run(t, "json", "makes", "--filter", "h*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Honda", "Hyundai"}, listing(t, out).Items)

	_, err = run(t, "json", "makes", "--filter", "(")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestModelsAndVariants(t *testing.T) {
	out, err := run(t, "json", "models", "HONDA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Accord", "Civic"}, listing(t, out).Items)

	out, err = run(t, "json", "variants", "honda", "accord")
	require.NoError(t, err)
	assert.Equal(t, []string{"EX", "EX-L"}, listing(t, out).Items)

	out, err = run(t, "table", "models", "mercedes-benz")
	require.NoError(t, err)
	assert.Contains(t, out, "C 300")
}

func TestNotFound(t *testing.T) {
	_, err := run(t, "json", "models", "Tesla")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = run(t, "json", "variants", "Tesla", "Model S")
	assert.True(t, errors.IsNotFound(err))

	_, err = run(t, "json", "variants", "Honda", "Jazz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model "Jazz" not found`)
}

func TestStats(t *testing.T) {
	out, err := run(t, "json", "stats")
	require.NoError(t, err)

	var s Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, pkgcatalog.Stats{Makes: 3, Models: 4, Variants: 5}, s.Stats)
	assert.Equal(t, 6, s.Report.Read)
	assert.Equal(t, 1, s.Report.DroppedCount())
	assert.Equal(t, []string{"static:test"}, s.Sources)

	out, err = run(t, "table", "stats", "--dropped")
	require.NoError(t, err)
	assert.Contains(t, out, "Toyota / Camry")
}
