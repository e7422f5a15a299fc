// Package events fans index and batch events out to the realtime
// transports through a single broker.
package events

import "time"

// EventType represents the type of server event.
type EventType string

// Event types.
const (
	// Index events (from client hooks).
	IndexRefreshed     EventType = "index.refreshed"
	IndexRefreshFailed EventType = "index.refresh_failed"

	// Batch events (from the validate handlers).
	BatchValidated EventType = "batch.validated"

	// Client events (from transport layers).
	ClientConnected EventType = "client.connected"
)

// Event is one published occurrence with its payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
