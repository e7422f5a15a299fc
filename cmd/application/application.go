// Package application provides the application interface for mastermatch commands.
//
// Commands accept this interface, or a smaller one declared next to the
// command, rather than the concrete App type so they can be tested with
// Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            mm, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            result, err := mm.Validate(cmd.Context(), rows)
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/server"
)

// Application provides what commands need from the running CLI.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the reconciliation client.
	// Without options it returns the default cached instance built from
	// configuration. With options it creates a new, uncached instance whose
	// options are applied after the configured ones.
	Client(opts ...mastermatch.Option) (mastermatch.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// ServerConfig returns the HTTP server settings from config file and environment.
	ServerConfig() server.Config

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
