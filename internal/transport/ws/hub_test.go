package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"lunalog/internal/model"
	"lunalog/internal/service"
)

var _ service.Broadcaster = (*Hub)(nil)

func receive(t *testing.T, conn *Connection) model.Event {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed")
		var event model.Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return model.Event{}
	}
}

func TestHubFansOutToAllSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zaptest.NewLogger(t))
	defer hub.Close()

	a := &Connection{ID: "a", Send: make(chan []byte, 4)}
	b := &Connection{ID: "b", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(service.EventEntrySubmitted, service.EntrySubmittedEvent{SubmissionID: "run-1", MoodScore: 5.84})

	for _, conn := range []*Connection{a, b} {
		event := receive(t, conn)
		assert.Equal(t, service.EventEntrySubmitted, event.Type)
		var payload service.EntrySubmittedEvent
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "run-1", payload.SubmissionID)
		assert.Equal(t, 5.84, payload.MoodScore)
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zaptest.NewLogger(t))
	defer hub.Close()

	conn := &Connection{ID: "a", Send: make(chan []byte, 1)}
	hub.Register(conn)
	hub.Unregister(conn)

	_, ok := <-conn.Send
	assert.False(t, ok)
	assert.Zero(t, hub.Len())
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zaptest.NewLogger(t))
	defer hub.Close()

	slow := &Connection{ID: "slow", Send: make(chan []byte, 1)}
	hub.Register(slow)
	for i := 0; i < 5; i++ {
		hub.Broadcast(service.EventEnrichmentFailed, service.EnrichmentFailedEvent{Reason: "down"})
	}

	assert.Equal(t, service.EventEnrichmentFailed, receive(t, slow).Type)
}

func TestHubCloseDisconnectsSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zaptest.NewLogger(t))

	conn := &Connection{ID: "a", Send: make(chan []byte, 1)}
	hub.Register(conn)
	hub.Close()
	hub.Close()

	_, ok := <-conn.Send
	assert.False(t, ok)

	// calls after Close return immediately
	late := &Connection{ID: "late", Send: make(chan []byte, 1)}
	hub.Register(late)
	hub.Unregister(late)
	hub.Broadcast(service.EventEntrySubmitted, nil)
	_, ok = <-late.Send
	assert.False(t, ok)
}

func TestEntriesWSStreamsEvents(t *testing.T) {
	logger := zaptest.NewLogger(t)
	hub := NewHub(logger)
	defer hub.Close()
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, logger).EntriesWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(service.EventEntrySubmitted, service.EntrySubmittedEvent{EntryID: 3, MoodScore: 7})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event model.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.EventEntrySubmitted, event.Type)
	assert.JSONEq(t, `{"entryId":3,"moodScore":7,"submittedAt":"0001-01-01T00:00:00Z"}`, string(event.Payload))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}
