// Package match implements the match command, which resolves a single
// field value the way a form's type-ahead would.
package match

import (
	"github.com/spf13/cobra"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/cmd/output"
	"github.com/gridlot/mastermatch/internal/cmd/table"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

// AppContext defines what the match command needs from the app.
type AppContext interface {
	Client(opts ...mastermatch.Option) (mastermatch.Client, error)
	OutputFormat() string
}

// NewCommand creates the match command.
func NewCommand(app AppContext) *cobra.Command {
	var (
		field     string
		makeName  string
		modelName string
	)

	cmd := &cobra.Command{
		Use:     "match <value>",
		GroupID: "core",
		Short:   "Match one Make, Model or Variant value",
		Long: `Match resolves a single value against the reference catalog.

A model is searched among the models of --make, and a variant among the
variants of --make and --model, when those parents resolve; otherwise the
global pool of that field is used.`,
		Example: `  mastermatch match Hnoda
  mastermatch match --field model --make Honda Acord
  mastermatch match --field variant --make Honda --model Accord exl -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}

			f, err := resolver.ParseField(field)
			if err != nil {
				return err
			}

			row := resolver.Row{Make: makeName, Model: modelName}
			switch f {
			case resolver.FieldMake:
				row.Make = args[0]
			case resolver.FieldModel:
				row.Model = args[0]
			case resolver.FieldVariant:
				row.Variant = args[0]
			}

			mm, err := app.Client()
			if err != nil {
				return err
			}
			res, err := mm.Match(f, row)
			if err != nil {
				return err
			}

			return output.Render(cmd.OutOrStdout(), format, res, table.MatchToTableData(f, res))
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", string(resolver.FieldMake), "field to match: make, model, variant")
	cmd.Flags().StringVar(&makeName, "make", "", "make that narrows model and variant matching")
	cmd.Flags().StringVar(&modelName, "model", "", "model that narrows variant matching")

	return cmd
}
