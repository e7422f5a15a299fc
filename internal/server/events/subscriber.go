package events

// Subscriber consumes broker events. Implementations adapt the event stream
// to one transport.
type Subscriber interface {
	// Send delivers an event. It must not block the broker for long.
	Send(Event) error

	// Close releases the subscriber.
	Close() error
}
