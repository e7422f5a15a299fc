package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// AuthConfig holds API-key authentication settings.
type AuthConfig struct {
	Enabled     bool
	APIKey      string
	HeaderName  string
	PublicPaths []string
}

// DefaultAuthConfig returns a disabled configuration with prefix's health
// endpoints public.
func DefaultAuthConfig(prefix string) AuthConfig {
	return AuthConfig{
		HeaderName:  "X-API-Key",
		PublicPaths: []string{"/health", prefix + "/health", prefix + "/ready"},
	}
}

// Auth rejects requests to non-public paths that lack the configured key.
// The key is read from HeaderName, then from an Authorization header with
// or without a Bearer prefix.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || slices.Contains(config.PublicPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := extractAPIKey(r, config.HeaderName)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", key != "").
					Msg("Authentication failed")

				writeError(w, http.StatusUnauthorized,
					`{"data":null,"error":{"code":"UNAUTHORIZED","message":"Invalid or missing API key","details":"Provide a valid API key in the `+config.HeaderName+` header"}}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractAPIKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}
