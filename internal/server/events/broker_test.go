package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch/pkg/logging"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *recorder) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func TestSubscribeBeforeRun(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())

	done := make(chan struct{})
	go func() {
		b.Subscribe(&recorder{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe blocked without a running broker")
	}
}

func TestBrokerDeliversInOrder(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	rec := &recorder{}
	b.Subscribe(rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Publish(IndexRefreshed, map[string]any{"generation": 2})
	b.Publish(BatchValidated, nil)
	b.Publish(IndexRefreshFailed, nil)

	require.Eventually(t, func() bool { return len(rec.types()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []EventType{IndexRefreshed, BatchValidated, IndexRefreshFailed}, rec.types())
	assert.Equal(t, int64(3), b.Stats().Published)
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	for range cap(b.events) + 2 {
		b.Publish(BatchValidated, nil)
	}

	stats := b.Stats()
	assert.Equal(t, int64(cap(b.events)), stats.Published)
	assert.Equal(t, int64(2), stats.Dropped)
	assert.Equal(t, cap(b.events), stats.QueueDepth)
}

func TestBrokerUnsubscribeAndShutdown(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	gone, stay := &recorder{}, &recorder{}
	b.Subscribe(gone)
	b.Subscribe(stay)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)
	b.Unsubscribe(gone)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, gone.isClosed())
	assert.False(t, stay.isClosed())

	cancel()
	<-stopped
	assert.True(t, stay.isClosed())
	assert.Equal(t, 0, b.SubscriberCount())
}
