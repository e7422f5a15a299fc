package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gridlot/mastermatch/internal/server/response"
	"github.com/gridlot/mastermatch/pkg/logging"
)

// HandleStats handles GET {prefix}/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.client.Snapshot()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	idx := snap.Index()
	report := idx.Report()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.OK(w, map[string]any{
		"index": map[string]any{
			"generation": snap.Generation(),
			"loadedAt":   snap.LoadedAt(),
			"builtAt":    idx.BuiltAt(),
			"sources":    snap.Sources(),
			"stats":      idx.Stats(),
			"report": map[string]any{
				"read":       report.Read,
				"accepted":   report.Accepted,
				"duplicates": report.Duplicates,
				"dropped":    report.DroppedCount(),
			},
		},
		"runtime": map[string]any{
			"uptimeSeconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":    runtime.NumGoroutine(),
			"memoryMB":      mem.Alloc / 1024 / 1024,
		},
		"events":   h.broker.Stats(),
		"cache":    h.cache.Stats(),
		"realtime": map[string]any{"websocketClients": h.wsHub.ClientCount()},
	})
}

// HandleRefresh handles POST {prefix}/refresh. The refresh hooks publish
// the outcome to realtime subscribers; a failed refresh leaves the
// previous index live.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	event, err := h.client.Refresh(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Manual refresh failed")
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, event)
}
