package app

import (
	"github.com/spf13/cobra"

	"github.com/gridlot/mastermatch/cmd/mastermatch/cmd/catalog"
	"github.com/gridlot/mastermatch/cmd/mastermatch/cmd/match"
	"github.com/gridlot/mastermatch/cmd/mastermatch/cmd/serve"
	"github.com/gridlot/mastermatch/cmd/mastermatch/cmd/validate"
	"github.com/gridlot/mastermatch/cmd/mastermatch/cmd/version"
)

// registerCommands adds all subcommands to the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		validate.NewCommand(a),
		match.NewCommand(a),
		catalog.NewCommand(a),
		serve.NewCommand(a),
		version.NewCommand(a),
	)
}
