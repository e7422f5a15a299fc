// Package validate implements the validate command, which reconciles a
// sheet of inventory rows against the reference catalog.
package validate

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/cmd/output"
	"github.com/gridlot/mastermatch/internal/cmd/table"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/importer"
	"github.com/gridlot/mastermatch/pkg/resolver"
	"github.com/gridlot/mastermatch/pkg/validator"
)

// AppContext defines what the validate command needs from the app.
type AppContext interface {
	Client(opts ...mastermatch.Option) (mastermatch.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// ErrRowsRejected is returned by --strict when any row is invalid.
var ErrRowsRejected = errors.New("one or more rows are invalid")

type flags struct {
	sheet       string
	inputFormat string
	only        string
	strict      bool
	summaryOnly bool
}

// NewCommand creates the validate command.
func NewCommand(app AppContext) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:     "validate <rows-file>",
		GroupID: "core",
		Short:   "Validate a sheet of Make / Model / Variant rows",
		Long: `Validate reads rows from a spreadsheet (.xlsx), CSV or YAML/JSON file and
resolves every row against the reference catalog.

Each row ends up in one of three buckets:
  valid    - every field matched exactly or was auto-corrected
  review   - at least one field needs a human decision
  invalid  - at least one field has no acceptable match

Use "-" to read from stdin together with --input-format.`,
		Example: `  mastermatch validate stock.xlsx
  mastermatch validate stock.xlsx --sheet "March intake" --only review
  mastermatch validate rows.csv -o json > verdicts.json
  cat rows.csv | mastermatch validate - --input-format csv --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, f, args[0])
		},
	}

	cmd.Flags().StringVar(&f.sheet, "sheet", "", "spreadsheet sheet to read (default first sheet)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format when reading stdin: xlsx, csv, yaml, json")
	cmd.Flags().StringVar(&f.only, "only", "", "show only one bucket: valid, review, invalid")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "exit with an error when any row is invalid")
	cmd.Flags().BoolVar(&f.summaryOnly, "summary", false, "print only the batch summary")

	return cmd
}

func run(cmd *cobra.Command, app AppContext, f *flags, path string) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}

	rows, err := readRows(cmd, f, path)
	if err != nil {
		return err
	}

	mm, err := app.Client()
	if err != nil {
		return err
	}

	result, err := mm.Validate(cmd.Context(), rows)
	if err != nil {
		return err
	}

	app.Logger().Debug().
		Str("batch_id", result.BatchID).
		Uint64("generation", result.Generation).
		Int("rows", result.Summary.Total).
		Int("valid", result.Summary.Valid).
		Int("needs_review", result.Summary.NeedsReview).
		Int("invalid", result.Summary.Invalid).
		Msg("Validated batch")

	shown, err := filter(result.Verdicts, f.only)
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), format, result, shown, f.summaryOnly); err != nil {
		return err
	}

	if f.strict && result.Summary.Invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRowsRejected, result.Summary.Invalid, result.Summary.Total)
	}
	return nil
}

func readRows(cmd *cobra.Command, f *flags, path string) ([]resolver.Row, error) {
	var opts []importer.Option
	if f.sheet != "" {
		opts = append(opts, importer.WithSheet(f.sheet))
	}

	if path != "-" {
		return importer.Read(cmd.Context(), path, opts...)
	}

	if f.inputFormat == "" {
		return nil, errors.NewValidationError("input-format", "", "required when reading rows from stdin")
	}
	format, err := importer.FormatOf("stdin." + strings.ToLower(f.inputFormat))
	if err != nil {
		return nil, err
	}
	return importer.Decode(cmd.Context(), cmd.InOrStdin(), format, "stdin", opts...)
}

// filter keeps the verdicts of one bucket. The summary always covers the
// whole batch.
func filter(verdicts []resolver.Verdict, only string) ([]resolver.Verdict, error) {
	valid, review, invalid := validator.Partition(verdicts)
	switch strings.ToLower(only) {
	case "":
		return verdicts, nil
	case table.BucketValid:
		return valid, nil
	case table.BucketReview:
		return review, nil
	case table.BucketInvalid:
		return invalid, nil
	default:
		return nil, errors.NewValidationError("only", only, "must be one of: valid, review, invalid")
	}
}

func render(w io.Writer, format output.Format, result *mastermatch.BatchResult, shown []resolver.Verdict, summaryOnly bool) error {
	if !output.IsTabular(format) {
		raw := *result
		raw.Verdicts = shown
		if summaryOnly {
			return output.NewFormatter(format).Format(w, raw.Summary)
		}
		return output.NewFormatter(format).Format(w, raw)
	}

	wide := format == output.FormatWide
	sections := []struct {
		title string
		data  output.Data
		skip  bool
	}{
		{"Verdicts", table.VerdictsToTableData(shown, wide), summaryOnly},
		{"Summary", table.SummaryToTableData(result.Summary), false},
		{"Field statuses", table.FieldCountsToTableData(result.Summary.Fields), !wide && format != output.FormatMarkdown},
	}

	for _, s := range sections {
		if s.skip {
			continue
		}
		var f output.Formatter = output.NewFormatter(format)
		if format == output.FormatMarkdown {
			f = &output.MarkdownFormatter{Title: s.title}
		}
		if err := f.Format(w, s.data); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
