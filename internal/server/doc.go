// Package server provides the HTTP API for batch validation against the
// mastermatch reference index.
//
// The layering is CLI -> Server -> Router -> Handlers. The server owns the
// background services (event broker and WebSocket hub) and bridges the
// client's refresh hooks into the broker so connected clients learn about
// new index generations.
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 8080
//
//	srv, err := server.New(client, cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv.Start()
//	defer srv.Shutdown(ctx)
//
//	httpServer := &http.Server{
//	    Addr:    cfg.Addr(),
//	    Handler: srv.Handler(),
//	}
package server
