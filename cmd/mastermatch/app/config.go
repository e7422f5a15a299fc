package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gridlot/mastermatch/internal/server"
	"github.com/gridlot/mastermatch/pkg/constants"
	"github.com/gridlot/mastermatch/pkg/matcher"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Catalogs are the reference source locations, loaded in order.
	// Empty means the bundled catalog.
	Catalogs []string

	// Matching
	Matcher matcher.Config
	Workers int
	MaxRows int

	// Refresh
	AutoRefresh     bool
	RefreshInterval time.Duration
	RefreshTimeout  time.Duration

	// HTTP server
	Server server.Config

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables (SERVER_PORT for server.port)
//  3. .env files
//  4. Config file (~/.mastermatch.yaml or ./.mastermatch.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile(os.Getenv("MASTERMATCH_CONFIG"))
}

// LoadConfigFile is LoadConfig with an explicit config file. An empty path
// searches the default locations; an explicit file must exist.
func LoadConfigFile(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".mastermatch")
		// a missing default config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),
		Catalogs:   splitList(v.GetStringSlice("catalog")),

		Matcher: matcher.Config{
			AutoCorrectThreshold: v.GetFloat64("auto_correct_threshold"),
			ReviewThreshold:      v.GetFloat64("review_threshold"),
			MaxSuggestions:       v.GetInt("max_suggestions"),
		},
		Workers: v.GetInt("workers"),
		MaxRows: v.GetInt("max_rows"),

		AutoRefresh:     v.GetBool("auto_refresh"),
		RefreshInterval: v.GetDuration("refresh_interval"),
		RefreshTimeout:  v.GetDuration("refresh_timeout"),

		Server: server.Config{
			Host:         v.GetString("server.host"),
			Port:         v.GetInt("server.port"),
			PathPrefix:   v.GetString("server.path_prefix"),
			CORSEnabled:  v.GetBool("server.cors_enabled"),
			CORSOrigins:  splitList(v.GetStringSlice("server.cors_origins")),
			AuthEnabled:  v.GetBool("server.auth_enabled"),
			AuthHeader:   v.GetString("server.auth_header"),
			APIKey:       v.GetString("server.api_key"),
			RateLimit:    v.GetInt("server.rate_limit"),
			CacheTTL:     v.GetDuration("server.cache_ttl"),
			UploadLimit:  v.GetInt64("server.upload_limit"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
		},

		// LogLevel stays empty unless set so -v and -q can take effect
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	srv := server.DefaultConfig()

	v.SetDefault("catalog", []string{})
	v.SetDefault("auto_correct_threshold", constants.DefaultAutoCorrectThreshold)
	v.SetDefault("review_threshold", constants.DefaultReviewThreshold)
	v.SetDefault("max_suggestions", constants.DefaultMaxSuggestions)
	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("max_rows", constants.MaxBatchRows)
	v.SetDefault("auto_refresh", false)
	v.SetDefault("refresh_interval", constants.DefaultRefreshInterval)
	v.SetDefault("refresh_timeout", constants.RefreshTimeout)

	v.SetDefault("server.host", srv.Host)
	v.SetDefault("server.port", srv.Port)
	v.SetDefault("server.path_prefix", srv.PathPrefix)
	v.SetDefault("server.cors_enabled", srv.CORSEnabled)
	v.SetDefault("server.cors_origins", srv.CORSOrigins)
	v.SetDefault("server.auth_enabled", srv.AuthEnabled)
	v.SetDefault("server.auth_header", srv.AuthHeader)
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.rate_limit", srv.RateLimit)
	v.SetDefault("server.cache_ttl", srv.CacheTTL)
	v.SetDefault("server.upload_limit", srv.UploadLimit)
	v.SetDefault("server.read_timeout", srv.ReadTimeout)
	v.SetDefault("server.write_timeout", srv.WriteTimeout)
	v.SetDefault("server.idle_timeout", srv.IdleTimeout)

	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string, catalogs []string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if len(catalogs) > 0 {
		c.Catalogs = splitList(catalogs)
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables already set, so .env.local goes first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// splitList flattens comma-separated entries, as env vars deliver lists
// as a single string.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
