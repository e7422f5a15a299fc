// Package adapters connects transports to the event broker.
package adapters

import (
	"github.com/gridlot/mastermatch/internal/server/events"
	ws "github.com/gridlot/mastermatch/internal/server/websocket"
)

// WebSocketSubscriber forwards broker events to a WebSocket hub.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a subscriber for hub.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send queues the event on the hub.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close is a no-op; the hub owns its lifecycle.
func (w *WebSocketSubscriber) Close() error {
	return nil
}
