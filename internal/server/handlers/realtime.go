package handlers

import (
	"net/http"
	"time"

	"github.com/gridlot/mastermatch/internal/server/events"
	ws "github.com/gridlot/mastermatch/internal/server/websocket"
)

// HandleWebSocket handles GET {prefix}/updates/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	h.broker.Publish(events.ClientConnected, map[string]any{
		"clientId":  client.ID(),
		"connected": time.Now(),
	})
}
