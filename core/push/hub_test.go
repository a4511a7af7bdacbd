package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(zerolog.Nop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", hub.Subscribers(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	hub, url := newTestHub(t)
	conn := dial(t, url)
	waitForSubscribers(t, hub, 1)

	hub.Broadcast("newProduct", map[string]any{"_id": "abc", "name": "Keyboard"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, "newProduct", env.Event)
	assert.Equal(t, "abc", env.Data["_id"])
	assert.Equal(t, "Keyboard", env.Data["name"])
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub, url := newTestHub(t)
	first := dial(t, url)
	second := dial(t, url)
	waitForSubscribers(t, hub, 2)

	hub.Broadcast("newCategory", map[string]any{"name": "Electronics"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var env Envelope
		require.NoError(t, json.Unmarshal(msg, &env))
		assert.Equal(t, "newCategory", env.Event)
	}
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	defer hub.Close()

	// Must not panic or block.
	hub.Broadcast("newProduct", map[string]any{"name": "Keyboard"})
	assert.Equal(t, 0, hub.Subscribers())
}

func TestSubscriberDisconnect(t *testing.T) {
	hub, url := newTestHub(t)
	conn := dial(t, url)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)
}

func TestCloseDisconnectsSubscribers(t *testing.T) {
	hub, url := newTestHub(t)
	conn := dial(t, url)
	waitForSubscribers(t, hub, 1)

	hub.Close()
	assert.Equal(t, 0, hub.Subscribers())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestLateSubscriberMissesEarlierBroadcast(t *testing.T) {
	hub, url := newTestHub(t)

	hub.Broadcast("newProduct", map[string]any{"name": "before"})

	conn := dial(t, url)
	waitForSubscribers(t, hub, 1)

	hub.Broadcast("newProduct", map[string]any{"name": "after"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, "after", env.Data["name"], "no replay of events sent before the subscription")
}
