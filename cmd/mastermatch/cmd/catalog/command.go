// Package catalog implements the catalog command, which inspects the
// loaded reference index.
package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/cmd/output"
	"github.com/gridlot/mastermatch/internal/cmd/table"
	"github.com/gridlot/mastermatch/internal/pattern"
	pkgcatalog "github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/normalize"
)

// AppContext defines what the catalog commands need from the app.
type AppContext interface {
	Client(opts ...mastermatch.Option) (mastermatch.Client, error)
	OutputFormat() string
}

// Listing is the machine-readable form of a makes, models or variants listing.
type Listing struct {
	Generation uint64   `json:"generation" yaml:"generation"`
	Items      []string `json:"items" yaml:"items"`
	Count      int      `json:"count" yaml:"count"`
}

// Stats is the machine-readable form of catalog stats.
type Stats struct {
	Generation uint64                 `json:"generation" yaml:"generation"`
	Sources    []string               `json:"sources" yaml:"sources"`
	Stats      pkgcatalog.Stats       `json:"stats" yaml:"stats"`
	Report     pkgcatalog.BuildReport `json:"report" yaml:"report"`
}

// NewCommand creates the catalog command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		GroupID: "core",
		Short:   "Inspect the reference catalog",
		Long: `Catalog shows what the reference index contains.

Available subcommands:
  stats     - index size and what was dropped while building it
  makes     - canonical makes
  models    - canonical models of a make
  variants  - canonical variants of a make and model`,
		Example: `  mastermatch catalog stats --dropped
  mastermatch catalog makes --filter 'h*'
  mastermatch catalog models "mercedes-benz"
  mastermatch catalog variants honda accord -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown subcommand: %s", args[0])
		},
	}

	cmd.AddCommand(newStatsCommand(app))
	cmd.AddCommand(newMakesCommand(app))
	cmd.AddCommand(newModelsCommand(app))
	cmd.AddCommand(newVariantsCommand(app))

	return cmd
}

func snapshot(app AppContext) (*mastermatch.Snapshot, error) {
	mm, err := app.Client()
	if err != nil {
		return nil, err
	}
	return mm.Snapshot()
}

func newStatsCommand(app AppContext) *cobra.Command {
	var dropped bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			snap, err := snapshot(app)
			if err != nil {
				return err
			}

			idx := snap.Index()
			raw := Stats{
				Generation: snap.Generation(),
				Sources:    snap.Sources(),
				Stats:      idx.Stats(),
				Report:     idx.Report(),
			}
			w := cmd.OutOrStdout()
			if err := output.Render(w, format, raw, table.StatsToTableData(raw.Stats, raw.Report)); err != nil {
				return err
			}
			if dropped && output.IsTabular(format) && raw.Report.DroppedCount() > 0 {
				return output.NewFormatter(format).Format(w, table.DroppedToTableData(raw.Report.Dropped))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropped, "dropped", false, "list entries dropped while building the index")
	return cmd
}

func newMakesCommand(app AppContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "makes",
		Short: "List canonical makes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := snapshot(app)
			if err != nil {
				return err
			}
			return list(cmd, app, snap, "make", snap.Index().CandidatesForMake(), filter)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "glob or regex filter on display names")
	return cmd
}

func newModelsCommand(app AppContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "models <make>",
		Short: "List canonical models of a make",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot(app)
			if err != nil {
				return err
			}
			models, ok := snap.Index().ModelsOf(normalize.String(args[0]))
			if !ok {
				return errors.NewNotFoundError("make", args[0])
			}
			return list(cmd, app, snap, "model", models, filter)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "glob or regex filter on display names")
	return cmd
}

func newVariantsCommand(app AppContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "variants <make> <model>",
		Short: "List canonical variants of a make and model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot(app)
			if err != nil {
				return err
			}
			idx := snap.Index()
			mk := normalize.String(args[0])
			if !idx.HasMake(mk) {
				return errors.NewNotFoundError("make", args[0])
			}
			variants, ok := idx.VariantsOf(mk, normalize.String(args[1]))
			if !ok {
				return errors.NewNotFoundError("model", args[1])
			}
			return list(cmd, app, snap, "variant", variants, filter)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "glob or regex filter on display names")
	return cmd
}

func list(cmd *cobra.Command, app AppContext, snap *mastermatch.Snapshot, header string, cands []pkgcatalog.Candidate, filter string) error {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	cands, err = pattern.FilterCandidates(filter, cands)
	if err != nil {
		return errors.NewValidationError("filter", filter, err.Error())
	}

	items := pkgcatalog.Displays(cands)
	raw := Listing{Generation: snap.Generation(), Items: items, Count: len(items)}
	tab := table.CandidatesToTableData(header, cands, format == output.FormatWide)
	return output.Render(cmd.OutOrStdout(), format, raw, tab)
}
