package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridlot/mastermatch/internal/server/events"
	ws "github.com/gridlot/mastermatch/internal/server/websocket"
	"github.com/gridlot/mastermatch/pkg/logging"
)

func TestWebSocketSubscriber(t *testing.T) {
	hub := ws.NewHub(logging.NewNopLogger())
	sub := NewWebSocketSubscriber(hub)

	var _ events.Subscriber = sub

	err := sub.Send(events.Event{
		Type:      events.IndexRefreshed,
		Timestamp: time.Now(),
		Data:      map[string]any{"generation": 1},
	})
	assert.NoError(t, err)
	assert.NoError(t, sub.Close())
}
