package handlers

import (
	"net/http"

	"github.com/gridlot/mastermatch/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "mastermatch-api",
		"version": "v1",
	})
}

// HandleReady handles GET {prefix}/ready. It answers 503 until the first
// reference index has been loaded.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.client.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, "Reference index not loaded yet")
		return
	}

	response.OK(w, map[string]any{
		"status":           "ready",
		"generation":       snap.Generation(),
		"loadedAt":         snap.LoadedAt(),
		"websocketClients": h.wsHub.ClientCount(),
	})
}
