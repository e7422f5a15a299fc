package importer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/importer"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeXLSX(t *testing.T, sheet string, records [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rec))
	}

	path := filepath.Join(t.TempDir(), "stock.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "stock.csv", strings.Join([]string{
		"Brand,Model,Trim,Price",
		"Honda,Accrd,EX,21000",
		",,,",
		"Toyota, Camry ,LE,25000",
	}, "\n"))

	rows, err := importer.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []resolver.Row{
		{RowIndex: 1, Make: "Honda", Model: "Accrd", Variant: "EX"},
		{RowIndex: 3, Make: "Toyota", Model: "Camry", Variant: "LE"},
	}, rows)
}

func TestReadCSVRowColumn(t *testing.T) {
	path := writeFile(t, "stock.csv", "row_index;make;model;variant\n17;Honda;Civic;LX\n")

	rows, err := importer.Read(context.Background(), path, importer.WithDelimiter(';'))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 17, rows[0].RowIndex)

	bad := writeFile(t, "bad.csv", "row,make,model,variant\nseven,Honda,Civic,LX\n")
	_, err = importer.Read(context.Background(), bad)
	var perr *errors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestReadMissingHeader(t *testing.T) {
	path := writeFile(t, "stock.csv", "make,colour\nHonda,red\n")

	_, err := importer.Read(context.Background(), path)
	var perr *errors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "model, variant")
}

func TestReadXLSX(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]any{
		{"Make", "Model", "Variant"},
		{"Hnda", "Civic", "EX"},
		{"Toyota", "Corola", "SE"},
	})

	rows, err := importer.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []resolver.Row{
		{RowIndex: 1, Make: "Hnda", Model: "Civic", Variant: "EX"},
		{RowIndex: 2, Make: "Toyota", Model: "Corola", Variant: "SE"},
	}, rows)
}

func TestReadXLSXNamedSheet(t *testing.T) {
	path := writeXLSX(t, "Inventory", [][]any{
		{"Manufacturer", "Model", "Version"},
		{"Ford", "F-150", "XLT"},
	})

	rows, err := importer.Read(context.Background(), path, importer.WithSheet("Inventory"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ford", rows[0].Make)

	_, err = importer.Read(context.Background(), path, importer.WithSheet("Missing"))
	assert.True(t, errors.IsNotFound(err))
}

func TestReadYAMLAndJSON(t *testing.T) {
	yamlPath := writeFile(t, "rows.yaml", `
rows:
  - make: Honda
    model: Accord
    variant: EX-L
  - row_index: 9
    make: Toyota
    model: Camry
    variant: LE
`)
	rows, err := importer.Read(context.Background(), yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []resolver.Row{
		{RowIndex: 1, Make: "Honda", Model: "Accord", Variant: "EX-L"},
		{RowIndex: 9, Make: "Toyota", Model: "Camry", Variant: "LE"},
	}, rows)

	jsonPath := writeFile(t, "rows.json", `[{"rowIndex": 4, "make": "BMW", "model": "X5", "variant": "M60i"}]`)
	rows, err = importer.Read(context.Background(), jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []resolver.Row{{RowIndex: 4, Make: "BMW", Model: "X5", Variant: "M60i"}}, rows)

	broken := writeFile(t, "rows.json", `{"rows": [`)
	_, err = importer.Read(context.Background(), broken)
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestDecodeReader(t *testing.T) {
	rows, err := importer.Decode(context.Background(), bytes.NewBufferString("model,make,variant\nCivic,Honda,EX\n"), importer.FormatCSV, "upload")
	require.NoError(t, err)
	assert.Equal(t, []resolver.Row{{RowIndex: 1, Make: "Honda", Model: "Civic", Variant: "EX"}}, rows)
}

func TestFormatOf(t *testing.T) {
	for name, want := range map[string]importer.Format{
		"a.XLSX": importer.FormatXLSX,
		"a.csv":  importer.FormatCSV,
		"a.yml":  importer.FormatYAML,
		"a.json": importer.FormatJSON,
	} {
		got, err := importer.FormatOf(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := importer.FormatOf("stock.xls")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := importer.Read(ctx, writeFile(t, "stock.csv", "make,model,variant\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
