package server

import (
	"net/http"
	"strings"

	"github.com/gridlot/mastermatch/internal/server/handlers"
	"github.com/gridlot/mastermatch/internal/server/middleware"
	"github.com/gridlot/mastermatch/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.client,
		s.cache,
		s.broker,
		s.wsHub,
		s.upgrader,
		s.logger,
		s.config.UploadLimit,
	)

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/health", only(http.MethodGet, h.HandleHealth))
	mux.HandleFunc(prefix+"/health", only(http.MethodGet, h.HandleHealth))
	mux.HandleFunc(prefix+"/ready", only(http.MethodGet, h.HandleReady))

	// Validation
	mux.HandleFunc(prefix+"/validate", only(http.MethodPost, h.HandleValidate))
	mux.HandleFunc(prefix+"/match", only(http.MethodPost, h.HandleMatch))

	// Candidate listings
	mux.HandleFunc(prefix+"/makes", only(http.MethodGet, h.HandleListMakes))
	mux.HandleFunc(prefix+"/makes/", only(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/makes/"))

		switch {
		case len(parts) == 2 && parts[1] == "models":
			// GET /makes/{make}/models
			h.HandleListModels(w, r, parts[0])
		case len(parts) == 4 && parts[1] == "models" && parts[3] == "variants":
			// GET /makes/{make}/models/{model}/variants
			h.HandleListVariants(w, r, parts[0], parts[2])
		default:
			response.NotFound(w, "Not found", r.URL.Path)
		}
	}))

	// Admin
	mux.HandleFunc(prefix+"/stats", only(http.MethodGet, h.HandleStats))
	mux.HandleFunc(prefix+"/refresh", only(http.MethodPost, h.HandleRefresh))

	// Realtime
	mux.HandleFunc(prefix+"/updates/ws", h.HandleWebSocket)
}

// applyMiddleware wraps handler with the middleware chain. Recovery is the
// outermost layer, then logging, CORS, auth and rate limiting.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if s.limiter != nil {
		handler = middleware.RateLimit(s.limiter)(handler)
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// only restricts a handler to one method.
func only(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			response.MethodNotAllowed(w, r.Method)
			return
		}
		next(w, r)
	}
}

// splitPath splits a URL path into its non-empty parts.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
