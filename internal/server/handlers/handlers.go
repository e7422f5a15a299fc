// Package handlers implements the HTTP endpoints of the API server.
//
// Handlers are grouped by concern:
//
//   - health.go: liveness and readiness
//   - validate.go: batch validation (JSON or uploaded sheet) and single-field match
//   - catalog.go: candidate listings for makes, models and variants
//   - admin.go: index statistics and manual refresh
//   - realtime.go: WebSocket updates
package handlers

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/server/cache"
	"github.com/gridlot/mastermatch/internal/server/events"
	ws "github.com/gridlot/mastermatch/internal/server/websocket"
)

// Handlers holds the dependencies shared by all endpoints.
type Handlers struct {
	client      mastermatch.Client
	cache       *cache.Cache
	broker      *events.Broker
	wsHub       *ws.Hub
	upgrader    websocket.Upgrader
	logger      *zerolog.Logger
	uploadLimit int64
	startTime   time.Time
}

// New creates a Handlers instance.
func New(
	client mastermatch.Client,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	uploadLimit int64,
) *Handlers {
	return &Handlers{
		client:      client,
		cache:       cache,
		broker:      broker,
		wsHub:       wsHub,
		upgrader:    upgrader,
		logger:      logger,
		uploadLimit: uploadLimit,
		startTime:   time.Now(),
	}
}
