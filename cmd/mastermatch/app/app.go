// Package app provides the application context and dependency management
// for the mastermatch CLI: configuration, logging and the lazily built
// reconciliation client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/cmd/application"
	"github.com/gridlot/mastermatch/internal/server"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/sources"
)

var _ application.Application = (*App)(nil)

// App represents the mastermatch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// client is lazily created from config and shared by commands
	mu     sync.RWMutex
	client mastermatch.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config file
// and can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ServerConfig returns the HTTP server settings.
func (a *App) ServerConfig() server.Config {
	return a.config.Server
}

// Client returns the reconciliation client. Without options the shared
// instance is created on first use; with options a new instance is built
// from the configured options followed by opts.
func (a *App) Client(opts ...mastermatch.Option) (mastermatch.Client, error) {
	if len(opts) > 0 {
		base, err := a.clientOptions()
		if err != nil {
			return nil, err
		}
		mm, err := mastermatch.New(append(base, opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "with custom options", err)
		}
		return mm, nil
	}

	a.mu.RLock()
	if a.client != nil {
		mm := a.client
		a.mu.RUnlock()
		return mm, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	base, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	mm, err := mastermatch.New(base...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = mm
	return mm, nil
}

// Shutdown stops background refreshes of the shared client.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	mm := a.client
	a.mu.RUnlock()

	if mm != nil {
		if err := mm.AutoRefreshOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop auto refresh during shutdown")
			return err
		}
	}
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() ([]mastermatch.Option, error) {
	srcs, err := sources.ParseAll(a.config.Catalogs)
	if err != nil {
		return nil, err
	}

	opts := []mastermatch.Option{
		mastermatch.WithSources(srcs...),
		mastermatch.WithMatcherConfig(a.config.Matcher),
		mastermatch.WithLogger(a.logger),
	}
	if a.config.Workers > 0 {
		opts = append(opts, mastermatch.WithWorkers(a.config.Workers))
	}
	if a.config.MaxRows > 0 {
		opts = append(opts, mastermatch.WithMaxRows(a.config.MaxRows))
	}
	if a.config.RefreshTimeout > 0 {
		opts = append(opts, mastermatch.WithRefreshTimeout(a.config.RefreshTimeout))
	}
	if a.config.AutoRefresh {
		opts = append(opts, mastermatch.WithAutoRefreshInterval(a.config.RefreshInterval))
	}
	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a prebuilt client (useful for testing).
func WithClient(mm mastermatch.Client) Option {
	return func(a *App) error {
		a.client = mm
		return nil
	}
}
