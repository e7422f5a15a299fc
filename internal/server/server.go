package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/server/cache"
	"github.com/gridlot/mastermatch/internal/server/events"
	"github.com/gridlot/mastermatch/internal/server/events/adapters"
	"github.com/gridlot/mastermatch/internal/server/middleware"
	ws "github.com/gridlot/mastermatch/internal/server/websocket"
	"github.com/gridlot/mastermatch/pkg/constants"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	client    mastermatch.Client
	cache     *cache.Cache
	broker    *events.Broker
	wsHub     *ws.Hub
	limiter   *middleware.RateLimiter
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time
}

// New creates a server over client. Background services start with Start.
func New(client mastermatch.Client, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.CacheTTL
	}
	if cfg.UploadLimit <= 0 {
		cfg.UploadLimit = DefaultConfig().UploadLimit
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		client: client,
		cache:  cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		broker: broker,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	s.connectHooks()
	return s, nil
}

// connectHooks publishes the client's refresh outcomes to the broker.
// Listings are keyed by generation, so the cache needs no flush here.
func (s *Server) connectHooks() {
	s.client.OnIndexRefreshed(func(ev mastermatch.RefreshEvent) {
		s.broker.Publish(events.IndexRefreshed, map[string]any{
			"generation": ev.Generation,
			"stats":      ev.Stats,
			"dropped":    ev.Report.DroppedCount(),
			"sources":    ev.Sources,
			"builtAt":    ev.BuiltAt,
		})
	})

	s.client.OnRefreshFailed(func(err error) {
		s.broker.Publish(events.IndexRefreshFailed, map[string]any{
			"error": err.Error(),
		})
	})
}

// Start runs the background services until Shutdown.
func (s *Server) Start() {
	s.run(func(ctx context.Context) { s.broker.Run(ctx) })
	s.run(func(ctx context.Context) { s.wsHub.Run(ctx) })
	if s.limiter != nil {
		s.run(func(ctx context.Context) { s.limiter.Run(ctx, 5*time.Minute) })
	}
	s.logger.Debug().Msg("Background services started")
}

func (s *Server) run(fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services, waiting until they exit or ctx
// is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Debug().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the listing cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
