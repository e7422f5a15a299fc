// Package serve implements the serve command, which exposes validation and
// catalog lookups over HTTP with WebSocket refresh notifications.
package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/server"
	"github.com/gridlot/mastermatch/pkg/constants"
)

// AppContext defines what the serve command needs from the app.
type AppContext interface {
	Client(opts ...mastermatch.Option) (mastermatch.Client, error)
	Logger() *zerolog.Logger
	ServerConfig() server.Config
}

// NewCommand creates the serve command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Serve the validation REST API",
		Long: `Start an HTTP server for row validation and catalog lookups.

Endpoints (under the path prefix, default /api/v1):
  POST /validate                          validate a JSON batch or an uploaded sheet
  POST /match                             match a single field
  GET  /makes                             list canonical makes
  GET  /makes/{make}/models               list models of a make
  GET  /makes/{make}/models/{model}/variants
  GET  /stats                             index, cache and event statistics
  POST /refresh                           reload the reference catalog
  GET  /updates/ws                        WebSocket refresh notifications
  GET  /health, /ready                    liveness and readiness (never authenticated)

Flags override the server section of the config file and SERVER_* env vars.`,
		Example: `  mastermatch serve
  mastermatch serve --port 3000 --auth
  mastermatch serve --catalog sqlite:/data/master.db --auto-refresh --refresh-interval 10m
  mastermatch serve --cors-origins "https://intake.example.com" --rate-limit 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, app.ServerConfig())
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Addr(), err)
			}

			autoRefresh, _ := cmd.Flags().GetBool("auto-refresh")
			interval, _ := cmd.Flags().GetDuration("refresh-interval")
			var opts []mastermatch.Option
			if autoRefresh {
				opts = append(opts, mastermatch.WithAutoRefreshInterval(interval))
			}

			return Run(cmd.Context(), app, cfg, ln, cmd.OutOrStdout(), opts...)
		},
	}

	defaults := server.DefaultConfig()
	cmd.Flags().IntP("port", "p", defaults.Port, "server port")
	cmd.Flags().String("host", defaults.Host, "bind address")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	cmd.Flags().Bool("cors", false, "enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", false, "require an API key (set SERVER_API_KEY)")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "authentication header name")

	cmd.Flags().Int("rate-limit", defaults.RateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "listing cache TTL")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("auto-refresh", false, "reload the catalog periodically")
	cmd.Flags().Duration("refresh-interval", constants.DefaultRefreshInterval, "auto refresh interval")

	return cmd
}

// configFromFlags applies explicitly set flags on top of base.
func configFromFlags(cmd *cobra.Command, base server.Config) (server.Config, error) {
	cfg := base
	flags := cmd.Flags()

	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("port", func() (e error) { cfg.Port, e = flags.GetInt("port"); return })
	set("host", func() (e error) { cfg.Host, e = flags.GetString("host"); return })
	set("prefix", func() (e error) { cfg.PathPrefix, e = flags.GetString("prefix"); return })
	set("cors", func() (e error) { cfg.CORSEnabled, e = flags.GetBool("cors"); return })
	set("cors-origins", func() (e error) {
		cfg.CORSOrigins, e = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = cfg.CORSEnabled || len(cfg.CORSOrigins) > 0
		return
	})
	set("auth", func() (e error) { cfg.AuthEnabled, e = flags.GetBool("auth"); return })
	set("auth-header", func() (e error) { cfg.AuthHeader, e = flags.GetString("auth-header"); return })
	set("rate-limit", func() (e error) { cfg.RateLimit, e = flags.GetInt("rate-limit"); return })
	set("cache-ttl", func() (e error) { cfg.CacheTTL, e = flags.GetDuration("cache-ttl"); return })
	set("read-timeout", func() (e error) { cfg.ReadTimeout, e = flags.GetDuration("read-timeout"); return })
	set("write-timeout", func() (e error) { cfg.WriteTimeout, e = flags.GetDuration("write-timeout"); return })
	set("idle-timeout", func() (e error) { cfg.IdleTimeout, e = flags.GetDuration("idle-timeout"); return })

	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Run serves on ln until ctx is cancelled, then drains connections and
// stops the background services.
func Run(ctx context.Context, app AppContext, cfg server.Config, ln net.Listener, out io.Writer, opts ...mastermatch.Option) error {
	logger := app.Logger()

	mm, err := app.Client(opts...)
	if err != nil {
		_ = ln.Close()
		return err
	}
	if len(opts) > 0 {
		defer func() {
			if err := mm.AutoRefreshOff(); err != nil {
				logger.Error().Err(err).Msg("Failed to stop auto refresh")
			}
		}()
	}

	srv, err := server.New(mm, cfg, logger)
	if err != nil {
		_ = ln.Close()
		return err
	}
	srv.Start()

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Server starting")
	fmt.Fprintf(out, "Serving mastermatch API on http://%s%s\n", ln.Addr(), cfg.PathPrefix)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("background shutdown failed: %w", err)
	}

	logger.Info().Dur("uptime", time.Since(srv.StartTime())).Msg("Server stopped gracefully")
	fmt.Fprintln(out, "Server stopped")
	return nil
}
