package server

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gridlot/mastermatch/pkg/constants"
	"github.com/gridlot/mastermatch/pkg/errors"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// API settings
	PathPrefix string `mapstructure:"path_prefix"`

	// CORS settings
	CORSEnabled bool     `mapstructure:"cors_enabled"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Authentication settings
	AuthEnabled bool   `mapstructure:"auth_enabled"`
	AuthHeader  string `mapstructure:"auth_header"`
	APIKey      string `mapstructure:"api_key"`

	// Performance settings
	RateLimit int           `mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	// UploadLimit bounds request bodies in bytes, JSON and multipart alike
	UploadLimit int64 `mapstructure:"upload_limit"`

	// HTTP timeouts
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		CORSOrigins:  []string{},
		AuthHeader:   "X-API-Key",
		RateLimit:    600,
		CacheTTL:     constants.CacheTTL,
		UploadLimit:  10 << 20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the settings the server cannot run without.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.NewConfigError("server", fmt.Sprintf("invalid port %d", c.Port), nil)
	}
	if c.AuthEnabled && c.APIKey == "" {
		return errors.NewConfigError("server", "auth enabled without an API key", nil)
	}
	if c.RateLimit < 0 {
		return errors.NewConfigError("server", fmt.Sprintf("rate limit must not be negative, got %d", c.RateLimit), nil)
	}
	return nil
}
